// Package semantics は、解決済みスライダー構成をピラー別の指示ブロックへ
// 翻訳するセマンティックモーターです。アクティブなスライダーごとに
// レベル対応の指示テキストを1行だけ取り出します。
package semantics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// Blocks はピラーごとの指示行です。アクティブなスライダーを持たない
// ピラーは [INACTIVE] マーカー1行になります。
type Blocks map[domain.Pillar][]string

// Summary は注入結果の要約です。サニタイザーと観測ログが参照します。
type Summary struct {
	TotalActive  int                          `json:"total_active"`
	ByPillar     map[domain.Pillar]int        `json:"by_pillar"`
	ForceCount   int                          `json:"force_count"`
	Translations []domain.SemanticTranslation `json:"translations"`
}

// Injector はスライダー定義を参照してブロックを構築します。
type Injector struct {
	definitions map[domain.SliderKey]domain.SliderDefinition
}

// NewInjector は定義マップから Injector を生成します。
func NewInjector(definitions map[domain.SliderKey]domain.SliderDefinition) *Injector {
	return &Injector{definitions: definitions}
}

// Inject は OFF でない各スライダーの指示を、ピラー内の正規順序を保って
// 3ブロックへ振り分けます。定義が見つからないキーは警告して読み飛ばします。
func (in *Injector) Inject(ctx context.Context, cfg domain.SliderConfig) (Blocks, Summary) {
	blocks := make(Blocks, len(domain.Pillars))
	summary := Summary{
		ByPillar:     make(map[domain.Pillar]int, len(domain.Pillars)),
		Translations: make([]domain.SemanticTranslation, 0),
	}

	for _, pillar := range domain.Pillars {
		lines := make([]string, 0)

		for _, key := range domain.PillarKeys(pillar) {
			level := cfg.Get(key)
			if !level.IsActive() {
				continue
			}

			def, ok := in.definitions[key]
			if !ok {
				slog.WarnContext(ctx, "slider has no definition; skipped", "slider", key)
				continue
			}

			text := def.InstructionFor(level)
			if text == "" {
				slog.WarnContext(ctx, "slider instruction text is empty", "slider", key, "level", level.String())
				continue
			}

			lines = append(lines, formatInstruction(level, text))
			summary.TotalActive++
			summary.ByPillar[pillar]++
			if level == domain.LevelForce {
				summary.ForceCount++
			}
			summary.Translations = append(summary.Translations, domain.SemanticTranslation{
				SliderKey: key,
				Level:     level,
				Pillar:    pillar,
				Text:      text,
			})
		}

		if len(lines) == 0 {
			lines = []string{domain.InactiveMarker}
		}
		blocks[pillar] = lines
	}

	return blocks, summary
}

// formatInstruction は1本分の指示行を整形します。FORCE は強制指示で
// あることが下流モデルに伝わるよう接頭辞を変えます。
func formatInstruction(level domain.Level, text string) string {
	if level == domain.LevelForce {
		return fmt.Sprintf("- [FORCE] %s", text)
	}
	return fmt.Sprintf("- (%s) %s", level.String(), text)
}
