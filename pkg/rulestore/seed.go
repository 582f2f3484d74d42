package rulestore

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// seed はルール表の初期データを投入します。SQLite のローカル実行と
// テストで使われます。本番の PostgreSQL は運用側で管理されます。
func (s *Store) seed() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, row := range seedSliderDefinitions() {
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("%w: seed slider %s: %v", domain.ErrRuleLoadFailure, row.SliderKey, err)
			}
		}
		for _, row := range seedTaxonomies() {
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("%w: seed taxonomy %s: %v", domain.ErrRuleLoadFailure, row.Code, err)
			}
		}
		for _, row := range seedDiagnoses() {
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("%w: seed diagnosis %s: %v", domain.ErrRuleLoadFailure, row.Code, err)
			}
		}
		for _, row := range seedMacros() {
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("%w: seed macro %s: %v", domain.ErrRuleLoadFailure, row.Name, err)
			}
		}
		for _, row := range seedTiers() {
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("%w: seed tier %s: %v", domain.ErrRuleLoadFailure, row.Tier, err)
			}
		}
		return nil
	})
}

// defRow はシード定義1本分の行を組み立てる内部ヘルパーです。
func defRow(short, title, desc, low, med, high, force string, autoDefault domain.Level) sliderDefinitionRow {
	key, _ := domain.CanonicalKey(short)
	pillar, _ := domain.PillarOf(key)
	return sliderDefinitionRow{
		SliderKey:        string(key),
		Pillar:           string(pillar),
		UITitle:          title,
		UIDescription:    desc,
		InstructionLow:   low,
		InstructionMed:   med,
		InstructionHigh:  high,
		InstructionForce: force,
		AutoDefault:      autoDefault.String(),
	}
}

func seedSliderDefinitions() []sliderDefinitionRow {
	return []sliderDefinitionRow{
		// PHOTOSCALER
		defRow("p1", "Forensic Restoration", "Reconstruct degraded detail without inventing content",
			"Gently repair minor compression artifacts while keeping every original pixel structure intact.",
			"Repair visible degradation, scratches and compression damage, reconstructing plausible detail from surviving evidence.",
			"Aggressively reconstruct damaged regions from surrounding evidence; every repaired area must remain consistent with the original capture.",
			"EXECUTE FULL FORENSIC RESTORATION: reconstruct all damaged, torn, or degraded regions strictly from photographic evidence present in the frame. Invent nothing.",
			domain.LevelOff),
		defRow("p2", "Geometry Correction", "Straighten perspective and lens distortion",
			"Subtly level the horizon and relax obvious lens distortion.",
			"Correct converging verticals and barrel distortion to a natural standing viewpoint.",
			"Fully rectify perspective so planar surfaces read as true rectangles.",
			"RECTIFY GEOMETRY COMPLETELY: deskew, dewarp and flatten the subject plane to a frontal orthographic view.",
			domain.LevelOff),
		defRow("p3", "Clarity Boost", "Local contrast and midtone definition",
			"Add a whisper of midtone definition.",
			"Raise local contrast for crisp, dimensional midtones without halos.",
			"Strong local contrast; edges must stay halo-free and natural.",
			"MAXIMIZE CLARITY: push local contrast to the edge of realism while forbidding halos and crunchy artifacts.",
			domain.LevelOff),
		defRow("p4", "Era Restoration", "Undo age-related fading and chemical decay",
			"Lift the mildest signs of age fading.",
			"Neutralize yellowing and fading typical of aged prints, restoring period-accurate tonality.",
			"Fully reverse chemical decay, stains and silvering while preserving the period character of the capture.",
			"RESTORE TO CAPTURE DAY: reverse all age damage, fading, and discoloration to how the photograph looked when developed.",
			domain.LevelOff),
		defRow("p5", "Noise Reduction", "Suppress sensor and scan noise",
			"Light touch denoise; keep all fine texture.",
			"Remove luminance and chroma noise while preserving fine detail and natural texture.",
			"Deep denoise for severely noisy captures; recover texture rather than smearing it.",
			"ELIMINATE ALL NOISE: the result must be pristine, with texture reconstructed rather than blurred away.",
			domain.LevelLow),
		defRow("p6", "Generative Synthesis", "Rebuild regions too damaged to restore",
			"Permit tiny in-fills only where pixels are missing entirely.",
			"Synthesize missing regions coherently with surrounding content.",
			"Re-imagine heavily destroyed areas; seams to untouched regions must be invisible.",
			"FULL GENERATIVE REBUILD: re-synthesize the image where evidence is insufficient, holding composition and identity fixed.",
			domain.LevelOff),
		defRow("p7", "Film Grain", "Preserve or re-introduce photographic grain",
			"Retain the existing grain signature untouched.",
			"Preserve native grain; if denoising removed it, restore a matching grain structure.",
			"Emphasize an authentic silver-halide grain across the frame.",
			"APPLY STRONG FILM GRAIN: an unmistakable analog grain signature uniform across the frame.",
			domain.LevelOff),
		defRow("p8", "Micro Sharpness", "Edge acuity at pixel scale",
			"A gentle deconvolution pass on the finest edges.",
			"Recover micro-contrast and edge acuity lost to optics or resampling.",
			"Strong pixel-level sharpening; no ringing, no edge halos.",
			"MAXIMUM MICRO-SHARPNESS: every in-focus edge rendered with single-pixel acuity and zero ringing.",
			domain.LevelOff),
		defRow("p9", "Resolution Upscale", "Super-resolve beyond native pixel count",
			"Mild upsampling with faithful detail.",
			"Double the effective resolution, hallucinating only plausible sub-pixel detail.",
			"Strong super-resolution; synthesized detail must agree with the evidence at native scale.",
			"UPSCALE TO MAXIMUM: the highest output resolution available, all added detail strictly consistent with the source.",
			domain.LevelOff),

		// STYLESCALER
		defRow("s1", "Skin Refinement", "Retouch skin while keeping identity",
			"Even out skin tone very lightly; keep all permanent features.",
			"Clean transient blemishes; preserve pores, freckles and all permanent marks.",
			"Editorial-grade skin retouch; texture must survive, plastic smoothing is forbidden.",
			"FLAWLESS EDITORIAL SKIN: magazine-grade retouch with fully preserved pore-level texture and permanent identifying marks.",
			domain.LevelOff),
		defRow("s2", "Color Grading", "Overall palette and tonal mood",
			"A restrained, neutral-leaning grade.",
			"A balanced cinematic grade appropriate to the subject.",
			"A confident stylized grade with rich, separated color.",
			"COMMIT TO A SIGNATURE GRADE: a bold, cohesive palette applied across the entire frame.",
			domain.LevelOff),
		defRow("s3", "Style Transfer", "Re-render in a different artistic style",
			"A hint of painterly character in texture only.",
			"A clear stylistic treatment that keeps photographic structure.",
			"A strong artistic re-rendering of the scene.",
			"FULL STYLE TRANSFER: re-render the image entirely in the target style while preserving composition.",
			domain.LevelOff),
		defRow("s4", "Texture Enhance", "Surface material detail",
			"Slightly enrich dominant surface textures.",
			"Bring out fabric weave, wood grain and surface materials naturally.",
			"Pronounced tactile texture across all materials.",
			"MAXIMIZE SURFACE TEXTURE: every material rendered with heightened, physically plausible tactile detail.",
			domain.LevelOff),
		defRow("s5", "Background Cleanup", "Simplify and repair the background",
			"Remove small distracting specks from the background.",
			"Remove distracting background elements; fill with coherent surroundings.",
			"Deep background cleanup, keeping the original setting recognizable.",
			"PRISTINE BACKGROUND: remove all distractions and clutter, rebuilding a clean coherent backdrop.",
			domain.LevelOff),
		defRow("s6", "Smart Reframe", "Recompose the crop",
			"Nudge the crop toward a balanced composition.",
			"Recompose to a stronger crop, extending edges generatively when required.",
			"Boldly reframe for maximum compositional impact.",
			"RECOMPOSE FREELY: choose the strongest possible framing, outpainting beyond original borders as needed.",
			domain.LevelOff),
		defRow("s7", "Atmosphere & Depth", "Haze, depth separation and air",
			"A faint sense of atmospheric depth.",
			"Layered depth with gentle atmospheric falloff between planes.",
			"Strong atmospheric separation; background recedes into soft air.",
			"MAXIMUM ATMOSPHERE: deep, moody air and pronounced plane separation throughout the scene.",
			domain.LevelOff),
		defRow("s8", "Artistic Flair", "Expressive, interpretive finishing",
			"The lightest expressive finishing touch.",
			"A tasteful interpretive finish that elevates the image beyond a plain edit.",
			"A distinctive artistic statement in the finishing.",
			"UNRESTRAINED ARTISTIC FINISH: an expressive, gallery-grade interpretation of the scene.",
			domain.LevelOff),
		defRow("s9", "Material Render", "Physically based re-lighting of materials",
			"Subtly clarify how key materials catch light.",
			"Re-render metals, glass and liquids with physically correct response.",
			"All materials re-rendered with studio-grade physical accuracy.",
			"PHYSICALLY PERFECT MATERIALS: every surface rendered with reference-grade, physically based light response.",
			domain.LevelOff),

		// LIGHTSCALER
		defRow("l1", "Exposure Balance", "Global exposure normalization",
			"Trim global exposure toward neutral.",
			"Normalize exposure so the full tonal range is used without clipping.",
			"Rebuild a balanced exposure from a badly metered capture.",
			"PERFECT EXPOSURE: a technically ideal histogram with full shadow and highlight detail.",
			domain.LevelLow),
		defRow("l2", "Fill Light", "Open shadows without flattening",
			"Lift the deepest shadows barely perceptibly.",
			"Open shadow regions while keeping natural density and direction of light.",
			"Strong shadow recovery revealing detail in near-black regions.",
			"OPEN ALL SHADOWS: every shadow region readable, while the scene keeps believable depth.",
			domain.LevelOff),
		defRow("l3", "Highlight Recovery", "Reconstruct blown highlights",
			"Recover slightly hot highlights.",
			"Reconstruct detail inside clipped highlight regions from surrounding evidence.",
			"Aggressively rebuild blown skies and speculars with plausible detail.",
			"RECOVER ALL HIGHLIGHTS: no clipped region remains; reconstructed detail must match the scene.",
			domain.LevelOff),
		defRow("l4", "Volumetric Light", "Visible light rays and glow",
			"A trace of atmospheric glow around strong sources.",
			"Soft volumetric rays where the scene plausibly supports them.",
			"Pronounced god-rays and luminous atmosphere.",
			"DRAMATIC VOLUMETRICS: bold visible light shafts shaping the entire composition.",
			domain.LevelOff),
		defRow("l5", "White Balance", "Neutralize color casts",
			"Nudge white balance toward neutral.",
			"Correct the color cast to neutral whites under the dominant illuminant.",
			"Fully neutralize mixed-light casts region by region.",
			"ABSOLUTE NEUTRALITY: perfectly neutral whites and grays under every illuminant in the scene.",
			domain.LevelLow),
		defRow("l6", "Dramatic Contrast", "Deep tonal drama",
			"A touch of extra tonal punch.",
			"Confident contrast with rich blacks and luminous highlights.",
			"High-drama chiaroscuro tonality.",
			"MAXIMUM DRAMA: deep crushed blacks and brilliant highlights; text and fine markings must stay legible.",
			domain.LevelOff),
		defRow("l7", "Golden Hour", "Warm low-sun relight",
			"A faint warm bias in the light.",
			"Relight toward late-afternoon warmth with long soft shadows.",
			"Full golden-hour transformation of the scene lighting.",
			"COMMIT TO GOLDEN HOUR: the entire scene relit at low warm sun, shadows and speculars consistent.",
			domain.LevelOff),
		defRow("l8", "Studio Relight", "Controlled studio lighting setup",
			"Gently shape the existing light toward a cleaner setup.",
			"Relight the subject with a flattering studio key-and-fill arrangement.",
			"Full studio relight with controlled key, fill and rim.",
			"REBUILD THE LIGHTING RIG: a complete professional studio setup replaces the original illumination.",
			domain.LevelOff),
		defRow("l9", "Specular Control", "Manage reflections and hotspots",
			"Tame the harshest specular hotspots.",
			"Balance speculars on skin, glass and metal to a natural sheen.",
			"Precisely sculpted speculars across all reflective surfaces.",
			"TOTAL SPECULAR CONTROL: every reflection and hotspot deliberately placed and shaped.",
			domain.LevelOff),
	}
}

// taxRow はシードのタクソノミー行を組み立てる内部ヘルパーです。
func taxRow(code, name, group, visual, strategy string, cfg domain.SliderConfig) taxonomyRow {
	return taxonomyRow{RuleRow{
		Code:              code,
		CategoryName:      name,
		RuleGroup:         group,
		VisualDescription: visual,
		Strategy:          strategy,
		SliderConfigJSON:  encodeConfig(cfg),
	}}
}

func seedTaxonomies() []taxonomyRow {
	cfg := func(pairs map[string]domain.Level) domain.SliderConfig {
		out := make(domain.SliderConfig, len(pairs))
		for short, level := range pairs {
			key, _ := domain.CanonicalKey(short)
			out[key] = level
		}
		return out
	}

	return []taxonomyRow{
		taxRow("CAT01", "Portrait", "PEOPLE",
			"a single human face or upper body dominating the frame",
			"preserve identity above all; refine skin and light modestly",
			cfg(map[string]domain.Level{"s1": domain.LevelMed, "l2": domain.LevelLow, "l9": domain.LevelLow, "p5": domain.LevelLow})),
		taxRow("CAT02", "Group Photo", "PEOPLE",
			"multiple people posed or candid",
			"even exposure across faces; no per-face stylization",
			cfg(map[string]domain.Level{"l1": domain.LevelMed, "l2": domain.LevelMed, "p5": domain.LevelLow})),
		taxRow("CAT03", "Child Portrait", "PEOPLE",
			"an infant or child as the main subject",
			"minimal retouch; natural skin and light only",
			cfg(map[string]domain.Level{"l2": domain.LevelLow, "p5": domain.LevelLow})),
		taxRow("CAT04", "Wedding & Event", "PEOPLE",
			"formal celebration, dresses, venues, staged moments",
			"romantic but faithful; gentle glow, clean backgrounds",
			cfg(map[string]domain.Level{"s1": domain.LevelMed, "s5": domain.LevelLow, "l4": domain.LevelLow, "l7": domain.LevelLow})),
		taxRow("CAT05", "Landscape", "NATURE",
			"wide natural scenery, horizon, sky",
			"depth and atmosphere; protect sky gradients",
			cfg(map[string]domain.Level{"p3": domain.LevelMed, "s7": domain.LevelMed, "l3": domain.LevelMed, "l5": domain.LevelLow})),
		taxRow("CAT06", "Wildlife", "NATURE",
			"animals in natural habitat",
			"texture of fur and feather; fast-capture noise likely",
			cfg(map[string]domain.Level{"p5": domain.LevelMed, "p8": domain.LevelMed, "s4": domain.LevelMed})),
		taxRow("CAT07", "Macro & Flora", "NATURE",
			"close-up flowers, insects, small detail",
			"micro detail is the subject; maximize acuity",
			cfg(map[string]domain.Level{"p8": domain.LevelHigh, "s4": domain.LevelMed, "l9": domain.LevelLow})),
		taxRow("CAT08", "Architecture", "PLACES",
			"building exteriors, facades, structures",
			"true verticals; material honesty",
			cfg(map[string]domain.Level{"p2": domain.LevelHigh, "p3": domain.LevelMed, "s9": domain.LevelLow})),
		taxRow("CAT09", "Interior", "PLACES",
			"rooms, indoor spaces",
			"mixed-light correction; straight lines",
			cfg(map[string]domain.Level{"p2": domain.LevelMed, "l5": domain.LevelHigh, "l2": domain.LevelMed})),
		taxRow("CAT10", "Street & Urban", "PLACES",
			"candid city life, signage, vehicles, crowds",
			"grit is content; restrained cleanup only",
			cfg(map[string]domain.Level{"p3": domain.LevelLow, "p7": domain.LevelLow, "l6": domain.LevelLow})),
		taxRow("CAT11", "Night Scene", "PLACES",
			"low-light or night capture, artificial lights",
			"noise and blown point-lights; keep the night mood",
			cfg(map[string]domain.Level{"p5": domain.LevelHigh, "l3": domain.LevelMed, "l9": domain.LevelMed})),
		taxRow("CAT12", "Food", "STILL",
			"prepared dishes, ingredients, tableware",
			"appetizing warmth, tactile texture",
			cfg(map[string]domain.Level{"s4": domain.LevelHigh, "l7": domain.LevelLow, "l9": domain.LevelMed})),
		taxRow("CAT13", "Product", "STILL",
			"a manufactured object presented for sale",
			"catalog neutrality; clean background, true color",
			cfg(map[string]domain.Level{"s5": domain.LevelHigh, "s9": domain.LevelMed, "l5": domain.LevelHigh, "l8": domain.LevelMed})),
		taxRow("CAT14", "Artwork Reproduction", "FLAT",
			"a painting, drawing or print photographed flat",
			"faithful reproduction; geometry and color fidelity",
			cfg(map[string]domain.Level{"p2": domain.LevelHigh, "l5": domain.LevelHigh, "l9": domain.LevelMed})),
		taxRow("CAT15", "Document", "FLAT",
			"printed or handwritten text, certificates, pages",
			"legibility is the product; flatten and maximize text contrast",
			cfg(map[string]domain.Level{"p2": domain.LevelForce, "p3": domain.LevelHigh, "l5": domain.LevelMed})),
		taxRow("CAT16", "Vintage Photo", "ARCHIVE",
			"an aged photographic print, period clothing or settings",
			"era-faithful restoration; keep the analog soul",
			cfg(map[string]domain.Level{"p1": domain.LevelHigh, "p4": domain.LevelHigh, "p7": domain.LevelLow})),
		taxRow("CAT17", "Damaged Print", "ARCHIVE",
			"tears, creases, missing corners, heavy stains",
			"forensic repair first, enhancement second",
			cfg(map[string]domain.Level{"p1": domain.LevelForce, "p4": domain.LevelMed, "p5": domain.LevelMed})),
		taxRow("CAT18", "Scanned Film", "ARCHIVE",
			"slide or negative scan, sprocket borders, film grain",
			"respect the film stock; dust and scratch removal",
			cfg(map[string]domain.Level{"p1": domain.LevelMed, "p5": domain.LevelMed, "p7": domain.LevelMed, "l5": domain.LevelLow})),
		taxRow("CAT19", "Screenshot & Digital", "FLAT",
			"UI captures, digital renders, graphics",
			"pixel-exact edges; no photographic treatment",
			cfg(map[string]domain.Level{"p8": domain.LevelLow})),
		taxRow("CAT20", "Vehicle", "STILL",
			"cars, motorcycles, aircraft as the subject",
			"paint and chrome; controlled reflections",
			cfg(map[string]domain.Level{"s9": domain.LevelHigh, "l9": domain.LevelHigh, "s5": domain.LevelMed})),
		taxRow("CAT21", "ERROR_UNIDENTIFIED", "META",
			"the classifier could not identify the subject",
			"conservative defaults only; no stylization, no geometry changes",
			cfg(map[string]domain.Level{"p3": domain.LevelLow, "p5": domain.LevelLow, "l1": domain.LevelLow})),
	}
}

// diagRow はシードの診断行を組み立てる内部ヘルパーです。
func diagRow(code, name, visual, strategy string, cfg domain.SliderConfig) diagnosisRow {
	return diagnosisRow{RuleRow{
		Code:              code,
		CategoryName:      name,
		RuleGroup:         "DEFECT",
		VisualDescription: visual,
		Strategy:          strategy,
		SliderConfigJSON:  encodeConfig(cfg),
	}}
}

func seedDiagnoses() []diagnosisRow {
	cfg := func(pairs map[string]domain.Level) domain.SliderConfig {
		out := make(domain.SliderConfig, len(pairs))
		for short, level := range pairs {
			key, _ := domain.CanonicalKey(short)
			out[key] = level
		}
		return out
	}

	return []diagnosisRow{
		diagRow("IN02", "Compression Artifacts",
			"block artifacts, banding, mosquito noise around edges",
			"remove codec damage before any enhancement",
			cfg(map[string]domain.Level{"p1": domain.LevelMed, "p5": domain.LevelHigh, "p3": domain.LevelLow})),
		diagRow("IN03", "Sensor Noise",
			"luminance or chroma noise across the frame",
			"denoise while protecting texture",
			cfg(map[string]domain.Level{"p5": domain.LevelHigh})),
		diagRow("IN04", "Motion Blur",
			"directional smearing of the subject or frame",
			"deconvolve along the motion vector",
			cfg(map[string]domain.Level{"p1": domain.LevelHigh, "p8": domain.LevelHigh})),
		diagRow("IN05", "Out of Focus",
			"subject soft, focal plane missed",
			"recover acuity; re-synthesize micro-detail where evidence allows",
			cfg(map[string]domain.Level{"p1": domain.LevelHigh, "p8": domain.LevelHigh, "p9": domain.LevelMed})),
		diagRow("IN06", "Underexposure",
			"dark frame, crushed shadows, muddy tones",
			"rebuild exposure and open shadows",
			cfg(map[string]domain.Level{"l1": domain.LevelHigh, "l2": domain.LevelHigh})),
		diagRow("IN07", "Blown Highlights",
			"clipped whites, lost sky or skin detail",
			"reconstruct highlight detail from context",
			cfg(map[string]domain.Level{"l3": domain.LevelHigh, "l1": domain.LevelMed})),
		diagRow("IN08", "Color Cast",
			"uniform unnatural tint over the frame",
			"neutralize the illuminant cast",
			cfg(map[string]domain.Level{"l5": domain.LevelHigh})),
		diagRow("IN09", "Physical Damage",
			"tears, scratches, creases, missing emulsion",
			"forensic reconstruction of destroyed regions",
			cfg(map[string]domain.Level{"p1": domain.LevelForce, "p4": domain.LevelHigh})),
		diagRow("IN10", "Age Fading",
			"yellowing, faded density, chemical discoloration",
			"reverse age decay to capture-day tonality",
			cfg(map[string]domain.Level{"p4": domain.LevelForce, "s2": domain.LevelLow, "l5": domain.LevelMed})),
		diagRow("IN11", "Low Resolution",
			"small pixel dimensions, visible upscaling, soft detail",
			"super-resolve with evidence-bound detail",
			cfg(map[string]domain.Level{"p9": domain.LevelForce, "p8": domain.LevelMed})),
	}
}

func seedMacros() []macroRow {
	return []macroRow{
		{Name: "neg_identity_drift", Section: domain.SectionNegativePrompt, Ordinal: 1,
			Text: "different person, altered facial structure, changed ethnicity, changed age"},
		{Name: "neg_synthetic_look", Section: domain.SectionNegativePrompt, Ordinal: 2,
			Text: "plastic skin, waxy texture, airbrushed smoothing, uncanny valley"},
		{Name: "neg_generation_artifacts", Section: domain.SectionNegativePrompt, Ordinal: 3,
			Text: "extra fingers, warped hands, duplicated limbs, melted objects, garbled text"},
		{Name: "neg_watermark", Section: domain.SectionNegativePrompt, Ordinal: 4,
			Text: "watermark, signature, added logo, added caption, border, frame"},

		{Name: "gate_photorealism", Section: domain.SectionQualityGates, Ordinal: 1,
			Text: "The result must be indistinguishable from a photograph taken by a professional camera."},
		{Name: "gate_evidence", Section: domain.SectionQualityGates, Ordinal: 2,
			Text: "Every reconstructed region must be consistent with evidence visible in the source image."},
		{Name: "gate_ocr_fidelity", Section: domain.SectionQualityGates, Ordinal: 3,
			Text: "All text, logos, and fine markings present in the source must remain character-for-character legible."},
		{Name: "gate_no_crop_loss", Section: domain.SectionQualityGates, Ordinal: 4,
			Text: "No content present at the borders of the source may be silently cropped away unless reframing was requested."},
	}
}

func seedTiers() []tierRow {
	return []tierRow{
		{Tier: "AUTO", BatchLimit: 1, PreviewTokens: 1, RefineTokens: 2, UnlockTokens: 5, Tokens8K: 10},
		{Tier: "USER", BatchLimit: 1, PreviewTokens: 1, RefineTokens: 2, UnlockTokens: 5, Tokens8K: 10},
		{Tier: "PRO", BatchLimit: 6, PreviewTokens: 1, RefineTokens: 2, UnlockTokens: 4, Tokens8K: 8,
			AllowPresets: true, AllowDNAAnchor: true},
		{Tier: "PRO_LUX", BatchLimit: 12, PreviewTokens: 1, RefineTokens: 1, UnlockTokens: 3, Tokens8K: 6,
			AllowPresets: true, AllowDNAAnchor: true},
	}
}
