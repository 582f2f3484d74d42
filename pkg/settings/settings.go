// Package settings は、ビジョン判定からスライダー自動構成を組み立てます。
// タクソノミーのプリセットを土台に、検出された欠陥ごとの上書きと
// 深刻度・文字検出のフラグを順に重ねます。
package settings

import (
	"context"
	"log/slog"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// RuleSource は組み立てに必要なルール参照の最小面です。
// 実体は rulestore.Store が満たします。
type RuleSource interface {
	Taxonomy(ctx context.Context, code string) (domain.TaxonomyRule, bool, error)
	Diagnosis(ctx context.Context, code string) (domain.DiagnosisRule, bool, error)
}

// Assembler はビジョン判定 → SliderConfig の変換器です。
type Assembler struct {
	rules RuleSource
}

// NewAssembler は新しい Assembler を生成します。
func NewAssembler(rules RuleSource) *Assembler {
	return &Assembler{rules: rules}
}

// SeverityForceThreshold を超える深刻度は生成的再構築を強制します。
const SeverityForceThreshold = 7

// Assemble は空の構成から始めて以下を順に重ねます（後勝ち）:
//  1. タクソノミールールの slider_config
//  2. 検出欠陥ルールの slider_config（返却順）
//  3. severity_score > 7 → p6=FORCE + force_reimagine
//  4. has_text_or_logo → l6=FORCE + ocr_lock
func (a *Assembler) Assemble(ctx context.Context, verdict domain.VisionVerdict) (domain.SliderConfig, domain.ConfigFlags, error) {
	cfg := make(domain.SliderConfig)
	flags := domain.ConfigFlags{}

	// 1. タクソノミープリセット
	if verdict.CatCode != "" {
		rule, found, err := a.rules.Taxonomy(ctx, verdict.CatCode)
		if err != nil {
			return nil, flags, err
		}
		if found {
			cfg.Merge(rule.SliderConfig)
		} else {
			slog.WarnContext(ctx, "unknown taxonomy code in verdict", "cat_code", verdict.CatCode)
		}
	}

	// 2. 欠陥ごとの上書き（返却順。後の欠陥が先の欠陥を上書きします）
	for _, code := range verdict.DetectedDefects {
		rule, found, err := a.rules.Diagnosis(ctx, code)
		if err != nil {
			return nil, flags, err
		}
		if !found {
			slog.WarnContext(ctx, "unknown diagnosis code in verdict", "diag_code", code)
			continue
		}
		cfg.Merge(rule.SliderConfig)
	}

	// 3. 深刻度による生成的再構築の強制
	if verdict.SeverityScore > SeverityForceThreshold {
		cfg.Set(domain.SliderGenerativeSynthesis, domain.LevelForce)
		flags.ForceReimagine = true
	}

	// 4. 文字・ロゴの判読性ロック
	if verdict.HasTextOrLogo {
		cfg.Set(domain.SliderDramaticContrast, domain.LevelForce)
		flags.OCRLock = true
	}

	slog.InfoContext(ctx, "auto settings assembled",
		"cat_code", verdict.CatCode,
		"defects", len(verdict.DetectedDefects),
		"active", len(cfg.ActiveKeys()),
		"force_reimagine", flags.ForceReimagine,
		"ocr_lock", flags.OCRLock)

	return cfg, flags, nil
}
