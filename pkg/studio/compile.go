package studio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-photoscaler-kit/pkg/assembler"
	"github.com/shouni/go-photoscaler-kit/pkg/domain"
	"github.com/shouni/go-photoscaler-kit/pkg/identity"
	"github.com/shouni/go-photoscaler-kit/pkg/sanitizer"
	"github.com/shouni/go-photoscaler-kit/pkg/semantics"
	"github.com/shouni/go-photoscaler-kit/pkg/veto"
)

// CompileRequest は compile 操作の入力です。Config と RawConfig は
// どちらか一方を与えます。RawConfig は API 境界の生マップ（短縮キー、
// 整数レベル等の混在）を想定し、正規化の問題は debug に報告されます。
type CompileRequest struct {
	Config       domain.SliderConfig
	RawConfig    map[string]any
	Flags        domain.ConfigFlags
	Verdict      *domain.VisionVerdict
	HasDNAAnchor bool
	IncludeDebug bool
}

// CompileMetadata は応答メタデータです。キー名は公開面です。
type CompileMetadata struct {
	ActiveSliders     []string `json:"active_sliders"`
	ForceSliders      []string `json:"force_sliders"`
	IdentityLockLevel string   `json:"identity_lock_level"`
	Version           string   `json:"version"`
}

// CompileDebug は IncludeDebug 時だけ埋まる内訳です。
type CompileDebug struct {
	VetosApplied  []veto.Application `json:"vetos_applied"`
	ActiveSliders []string           `json:"active_sliders"`
	Sanitization  sanitizer.Stats    `json:"sanitization"`
	Validation    []string           `json:"validation"`
	InputIssues   []string           `json:"input_issues,omitempty"`
	Summary       semantics.Summary  `json:"summary"`
}

// CompileResult は compile 操作の応答です。
type CompileResult struct {
	Prompt         string          `json:"master_prompt"`
	Metadata       CompileMetadata `json:"metadata"`
	TokensEstimate int             `json:"tokens_estimate"`
	Debug          *CompileDebug   `json:"debug_info,omitempty"`
}

// Compile はスライダー構成をマスタープロンプトへ翻訳する決定論的
// パイプラインです: 正規化 → 拒否権 → セマンティック注入 →
// アイデンティティロック → セクション組み立て → サニタイズ。
func (s *Studio) Compile(ctx context.Context, req CompileRequest) (*CompileResult, error) {
	cfg := req.Config
	var inputIssues []string
	if cfg == nil {
		cfg, inputIssues = domain.ParseSliderConfig(req.RawConfig)
		for _, issue := range inputIssues {
			slog.WarnContext(ctx, "slider config issue", "issue", issue)
		}
	}

	resolved, applications := s.vetoes.Apply(ctx, cfg)

	definitions, err := s.rules.SliderDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	blocks, summary := semantics.NewInjector(definitions).Inject(ctx, resolved)

	verdict := domain.VisionVerdict{}
	if req.Verdict != nil {
		verdict = *req.Verdict
	}
	lock := identity.Resolve(resolved, verdict, req.HasDNAAnchor)

	doc, err := s.buildDocument(ctx, req.Flags, req.Verdict, lock, blocks)
	if err != nil {
		return nil, err
	}

	prompt, stats, err := s.sanitizer.Sanitize(doc, resolved.IsEmpty())
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	result := &CompileResult{
		Prompt: prompt,
		Metadata: CompileMetadata{
			ActiveSliders:     shortCodes(resolved.ActiveKeys()),
			ForceSliders:      shortCodes(resolved.ForceKeys()),
			IdentityLockLevel: string(lock.Level),
			Version:           domain.PromptVersion,
		},
		TokensEstimate: assembler.EstimateTextTokens(prompt),
	}

	if req.IncludeDebug {
		result.Debug = &CompileDebug{
			VetosApplied:  applications,
			ActiveSliders: shortCodes(resolved.ActiveKeys()),
			Sanitization:  stats,
			Validation:    stats.Issues,
			InputIssues:   inputIssues,
			Summary:       summary,
		}
	}

	slog.InfoContext(ctx, "prompt compiled",
		"active", len(result.Metadata.ActiveSliders),
		"force", len(result.Metadata.ForceSliders),
		"vetos", len(applications),
		"lock", lock.Level,
		"tokens", result.TokensEstimate)

	return result, nil
}

// buildDocument は8つの固定セクションへ本文を流し込みます。
func (s *Studio) buildDocument(ctx context.Context, flags domain.ConfigFlags, verdict *domain.VisionVerdict, lock identity.Lock, blocks semantics.Blocks) (*domain.MasterPrompt, error) {
	doc := domain.NewMasterPrompt()

	doc.SetSection(domain.SectionSystemOverride, systemOverrideLines(flags))
	doc.SetSection(domain.SectionIdentityLock, lock.Block)
	doc.SetSection(domain.SectionVisionSummary, visionSummaryLines(verdict))

	for _, pillar := range domain.Pillars {
		doc.SetSection(domain.PillarSection(pillar), blocks[pillar])
	}

	negatives, err := s.rules.SectionMacros(ctx, domain.SectionNegativePrompt)
	if err != nil {
		return nil, err
	}
	doc.SetSection(domain.SectionNegativePrompt, negatives)

	gates, err := s.rules.SectionMacros(ctx, domain.SectionQualityGates)
	if err != nil {
		return nil, err
	}
	if flags.OCRLock {
		gates = append(gates, "OCR LOCK is engaged: text legibility overrides every stylistic instruction above.")
	}
	doc.SetSection(domain.SectionQualityGates, gates)

	return doc, nil
}

// systemOverrideLines は文書冒頭の固定ディレクティブです。
func systemOverrideLines(flags domain.ConfigFlags) []string {
	lines := []string{
		"You are a professional photographic enhancement engine.",
		"Execute the phased instructions below exactly and in order. Lower-numbered phases take precedence on conflict.",
		"Produce a single photorealistic image. Do not reply with text.",
	}
	if flags.ForceReimagine {
		lines = append(lines, "Severity override: the source is critically degraded. Full generative reconstruction is authorized for this request.")
	}
	if flags.OCRLock {
		lines = append(lines, "OCR lock: the image contains text or logos that must remain perfectly legible.")
	}
	return lines
}

// visionSummaryLines はビジョン判定の要約セクションを組み立てます。
// 判定がなければ空のままにし、サニタイザーが [INACTIVE] を置きます。
func visionSummaryLines(verdict *domain.VisionVerdict) []string {
	if verdict == nil {
		return nil
	}
	lines := []string{fmt.Sprintf("Subject classification: %s.", verdict.CatCode)}
	if verdict.VisualSummary != "" {
		lines = append(lines, fmt.Sprintf("Scene: %s", verdict.VisualSummary))
	}
	if len(verdict.DetectedDefects) > 0 {
		lines = append(lines, fmt.Sprintf("Detected defects: %v (severity %d/10).", verdict.DetectedDefects, verdict.SeverityScore))
	}
	if verdict.Fallback {
		lines = append(lines, "Automated analysis was inconclusive; conservative defaults are in effect.")
	}
	return lines
}

// shortCodes は長形式キー列を短縮コード列へ変換します。
func shortCodes(keys []domain.SliderKey) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if short, ok := domain.ShortCode(key); ok {
			out = append(out, short)
		}
	}
	return out
}
