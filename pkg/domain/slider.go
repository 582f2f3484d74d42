package domain

import "sort"

// Pillar はスライダーが属する3つの直交した意図軸のいずれかを表します。
type Pillar string

const (
	// PillarPhotoscaler は技術的忠実度（復元・解像度・シャープネス）の軸です。
	PillarPhotoscaler Pillar = "PHOTOSCALER"
	// PillarStylescaler は美的スタイリング（肌・色・構図）の軸です。
	PillarStylescaler Pillar = "STYLESCALER"
	// PillarLightscaler は光（露出・コントラスト・ライティング）の軸です。
	PillarLightscaler Pillar = "LIGHTSCALER"
)

// Pillars は正規の出力順序でのピラー一覧です。マスタープロンプトの
// PHASE 1〜3 の並びはこの順序に固定されています。
var Pillars = []Pillar{PillarPhotoscaler, PillarStylescaler, PillarLightscaler}

// SliderKey はスライダーの安定した長形式の識別子です（全27キー）。
// 内部では常に長形式で扱い、短縮コード（p1..p9 / s1..s9 / l1..l9）は
// 境界での受け入れ時にのみ正規化します。
type SliderKey string

// PHOTOSCALER ピラーのスライダーキー。
const (
	SliderForensicRestoration SliderKey = "forensic_restoration" // p1
	SliderGeometryCorrection  SliderKey = "geometry_correction"  // p2
	SliderClarityBoost        SliderKey = "clarity_boost"        // p3
	SliderEraRestoration      SliderKey = "era_restoration"      // p4
	SliderNoiseReduction      SliderKey = "noise_reduction"      // p5
	SliderGenerativeSynthesis SliderKey = "generative_synthesis" // p6
	SliderFilmGrain           SliderKey = "film_grain"           // p7
	SliderMicroSharpness      SliderKey = "micro_sharpness"      // p8
	SliderResolutionUpscale   SliderKey = "resolution_upscale"   // p9
)

// STYLESCALER ピラーのスライダーキー。
const (
	SliderSkinRefinement    SliderKey = "skin_refinement"    // s1
	SliderColorGrading      SliderKey = "color_grading"      // s2
	SliderStyleTransfer     SliderKey = "style_transfer"     // s3
	SliderTextureEnhance    SliderKey = "texture_enhance"    // s4
	SliderBackgroundCleanup SliderKey = "background_cleanup" // s5
	SliderSmartReframe      SliderKey = "smart_reframe"      // s6
	SliderAtmosphereDepth   SliderKey = "atmosphere_depth"   // s7
	SliderArtisticFlair     SliderKey = "artistic_flair"     // s8
	SliderMaterialRender    SliderKey = "material_render"    // s9
)

// LIGHTSCALER ピラーのスライダーキー。
const (
	SliderExposureBalance   SliderKey = "exposure_balance"   // l1
	SliderFillLight         SliderKey = "fill_light"         // l2
	SliderHighlightRecovery SliderKey = "highlight_recovery" // l3
	SliderVolumetricLight   SliderKey = "volumetric_light"   // l4
	SliderWhiteBalance      SliderKey = "white_balance"      // l5
	SliderDramaticContrast  SliderKey = "dramatic_contrast"  // l6
	SliderGoldenHour        SliderKey = "golden_hour"        // l7
	SliderStudioRelight     SliderKey = "studio_relight"     // l8
	SliderSpecularControl   SliderKey = "specular_control"   // l9
)

// shortToLong は短縮コード→長形式キーの唯一の対応表です。
// 双方向の変換はすべてこのテーブルから導出します。
var shortToLong = map[string]SliderKey{
	"p1": SliderForensicRestoration,
	"p2": SliderGeometryCorrection,
	"p3": SliderClarityBoost,
	"p4": SliderEraRestoration,
	"p5": SliderNoiseReduction,
	"p6": SliderGenerativeSynthesis,
	"p7": SliderFilmGrain,
	"p8": SliderMicroSharpness,
	"p9": SliderResolutionUpscale,

	"s1": SliderSkinRefinement,
	"s2": SliderColorGrading,
	"s3": SliderStyleTransfer,
	"s4": SliderTextureEnhance,
	"s5": SliderBackgroundCleanup,
	"s6": SliderSmartReframe,
	"s7": SliderAtmosphereDepth,
	"s8": SliderArtisticFlair,
	"s9": SliderMaterialRender,

	"l1": SliderExposureBalance,
	"l2": SliderFillLight,
	"l3": SliderHighlightRecovery,
	"l4": SliderVolumetricLight,
	"l5": SliderWhiteBalance,
	"l6": SliderDramaticContrast,
	"l7": SliderGoldenHour,
	"l8": SliderStudioRelight,
	"l9": SliderSpecularControl,
}

var longToShort = func() map[SliderKey]string {
	m := make(map[SliderKey]string, len(shortToLong))
	for short, long := range shortToLong {
		m[long] = short
	}
	return m
}()

// sliderPillars は各キーの所属ピラーです。キーは必ずひとつのピラーに属します。
var sliderPillars = func() map[SliderKey]Pillar {
	m := make(map[SliderKey]Pillar, len(shortToLong))
	for short, long := range shortToLong {
		switch short[0] {
		case 'p':
			m[long] = PillarPhotoscaler
		case 's':
			m[long] = PillarStylescaler
		case 'l':
			m[long] = PillarLightscaler
		}
	}
	return m
}()

// CanonicalKey は短縮コードまたは長形式のどちらを受け取っても長形式キーへ
// 正規化します。未知のキーは ok=false を返し、呼び出し側で報告します。
func CanonicalKey(raw string) (SliderKey, bool) {
	if long, ok := shortToLong[raw]; ok {
		return long, true
	}
	if _, ok := longToShort[SliderKey(raw)]; ok {
		return SliderKey(raw), true
	}
	return "", false
}

// ShortCode は長形式キーを短縮コード（p1 など）へ変換します。
func ShortCode(key SliderKey) (string, bool) {
	short, ok := longToShort[key]
	return short, ok
}

// PillarOf はキーの所属ピラーを返します。
func PillarOf(key SliderKey) (Pillar, bool) {
	p, ok := sliderPillars[key]
	return p, ok
}

// IsKnownKey は長形式キーとして登録済みかどうかを返します。
func IsKnownKey(key SliderKey) bool {
	_, ok := longToShort[key]
	return ok
}

// AllSliderKeys は全27キーを正規順序（p1..p9, s1..s9, l1..l9）で返します。
func AllSliderKeys() []SliderKey {
	shorts := make([]string, 0, len(shortToLong))
	for short := range shortToLong {
		shorts = append(shorts, short)
	}
	sort.Slice(shorts, func(i, j int) bool {
		return shortOrder(shorts[i]) < shortOrder(shorts[j])
	})

	keys := make([]SliderKey, 0, len(shorts))
	for _, s := range shorts {
		keys = append(keys, shortToLong[s])
	}
	return keys
}

// PillarKeys は指定ピラーのキーを正規順序で返します。
// ピラーブロック内の行順はこの順序に固定されています。
func PillarKeys(p Pillar) []SliderKey {
	keys := make([]SliderKey, 0, 9)
	for _, key := range AllSliderKeys() {
		if sliderPillars[key] == p {
			keys = append(keys, key)
		}
	}
	return keys
}

// shortOrder は短縮コードをソート可能な整数へ変換する内部ヘルパーです。
// ピラー順（p → s → l）の後にコード番号順で並びます。
func shortOrder(short string) int {
	base := 0
	switch short[0] {
	case 'p':
		base = 0
	case 's':
		base = 100
	case 'l':
		base = 200
	}
	return base + int(short[1]-'0')
}
