package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-photoscaler-kit/internal/builder"
	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// ruleSnapshot は rules コマンドが吐き出すルールベースの全景なのだ。
type ruleSnapshot struct {
	SliderDefinitions []domain.SliderDefinition    `json:"slider_definitions"`
	Taxonomies        []domain.TaxonomyRule        `json:"taxonomies"`
	Diagnoses         []domain.DiagnosisRule       `json:"diagnoses"`
	Macros            []domain.Macro               `json:"macros"`
	Tiers             map[string]domain.TierConfig `json:"tiers"`
}

// RunRules はルールベース一式を読み直して検査し、全景JSONを出力するのだ。
// シードやDB移行の結果を目視確認するためのコマンドなのだ。
func RunRules(ctx context.Context, app *builder.AppContext) error {
	if err := app.Rules.Reload(ctx); err != nil {
		return fmt.Errorf("ルールベースの再読込に失敗したのだ: %w", err)
	}

	defs, err := app.Rules.SliderDefinitions(ctx)
	if err != nil {
		return err
	}
	taxonomies, err := app.Rules.Taxonomies(ctx)
	if err != nil {
		return err
	}
	diagnoses, err := app.Rules.Diagnoses(ctx)
	if err != nil {
		return err
	}
	macros, err := app.Rules.Macros(ctx)
	if err != nil {
		return err
	}
	tiers, err := app.Rules.Tiers(ctx)
	if err != nil {
		return err
	}

	// 定義は正規順序（p1..p9, s1..s9, l1..l9）で並べるのだ。
	ordered := make([]domain.SliderDefinition, 0, len(defs))
	var missing []domain.SliderKey
	for _, key := range domain.AllSliderKeys() {
		def, ok := defs[key]
		if !ok {
			missing = append(missing, key)
			continue
		}
		ordered = append(ordered, def)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: スライダー定義が欠けているのだ: %v", domain.ErrRuleLoadFailure, missing)
	}

	slog.Info("ルールベースを検査したのだ",
		"sliders", len(ordered),
		"taxonomies", len(taxonomies),
		"diagnoses", len(diagnoses),
		"macros", len(macros),
		"tiers", len(tiers))

	return printJSON(ruleSnapshot{
		SliderDefinitions: ordered,
		Taxonomies:        taxonomies,
		Diagnoses:         diagnoses,
		Macros:            macros,
		Tiers:             tiers,
	})
}
