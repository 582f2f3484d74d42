package semantics

import (
	"context"
	"strings"
	"testing"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

func testDefinitions() map[domain.SliderKey]domain.SliderDefinition {
	return map[domain.SliderKey]domain.SliderDefinition{
		domain.SliderForensicRestoration: {
			SliderKey:        domain.SliderForensicRestoration,
			Pillar:           domain.PillarPhotoscaler,
			InstructionLow:   "gently repair surface damage",
			InstructionMed:   "repair scratches and restore faded regions",
			InstructionHigh:  "reconstruct damaged regions with archival fidelity",
			InstructionForce: "FORENSIC RESTORATION: reconstruct every damaged region",
		},
		domain.SliderFilmGrain: {
			SliderKey:      domain.SliderFilmGrain,
			Pillar:         domain.PillarPhotoscaler,
			InstructionMed: "keep a moderate analog grain structure",
		},
		domain.SliderDramaticContrast: {
			SliderKey:        domain.SliderDramaticContrast,
			Pillar:           domain.PillarLightscaler,
			InstructionForce: "MAXIMUM CONTRAST: carve deep blacks and brilliant highlights",
		},
	}
}

func TestInject(t *testing.T) {
	injector := NewInjector(testDefinitions())

	t.Run("アクティブなスライダーごとに1行だけ現れること", func(t *testing.T) {
		cfg := domain.SliderConfig{
			domain.SliderForensicRestoration: domain.LevelForce,
			domain.SliderFilmGrain:           domain.LevelMed,
			domain.SliderDramaticContrast:    domain.LevelForce,
		}

		blocks, summary := injector.Inject(context.Background(), cfg)

		photo := blocks[domain.PillarPhotoscaler]
		if len(photo) != 2 {
			t.Fatalf("PHOTOSCALER ブロックは2行のはずです: %v", photo)
		}
		if !strings.Contains(photo[0], "FORENSIC RESTORATION") {
			t.Errorf("p1 の FORCE テキストが先頭行にありません: %s", photo[0])
		}
		if summary.TotalActive != 3 || summary.ForceCount != 2 {
			t.Errorf("サマリーが不正です: %+v", summary)
		}
		if summary.ByPillar[domain.PillarPhotoscaler] != 2 {
			t.Errorf("by_pillar の集計が不正です: %+v", summary.ByPillar)
		}
	})

	t.Run("アクティブなスライダーのないピラーは INACTIVE マーカーになること", func(t *testing.T) {
		cfg := domain.SliderConfig{
			domain.SliderForensicRestoration: domain.LevelMed,
		}

		blocks, _ := injector.Inject(context.Background(), cfg)

		for _, pillar := range []domain.Pillar{domain.PillarStylescaler, domain.PillarLightscaler} {
			lines := blocks[pillar]
			if len(lines) != 1 || lines[0] != domain.InactiveMarker {
				t.Errorf("ピラー %s は [INACTIVE] 1行のはずです: %v", pillar, lines)
			}
		}
	})

	t.Run("FORCE 行には [FORCE] 接頭辞が付くこと", func(t *testing.T) {
		cfg := domain.SliderConfig{domain.SliderDramaticContrast: domain.LevelForce}

		blocks, _ := injector.Inject(context.Background(), cfg)

		light := blocks[domain.PillarLightscaler]
		if len(light) != 1 || !strings.HasPrefix(light[0], "- [FORCE] ") {
			t.Errorf("FORCE 接頭辞がありません: %v", light)
		}
	})

	t.Run("OFF のスライダーは行を生まないこと", func(t *testing.T) {
		cfg := domain.SliderConfig{
			domain.SliderForensicRestoration: domain.LevelForce,
			domain.SliderFilmGrain:           domain.LevelOff,
		}

		blocks, summary := injector.Inject(context.Background(), cfg)

		if len(blocks[domain.PillarPhotoscaler]) != 1 {
			t.Errorf("OFF の p7 が行を生みました: %v", blocks[domain.PillarPhotoscaler])
		}
		if summary.TotalActive != 1 {
			t.Errorf("OFF がサマリーに数えられました: %+v", summary)
		}
	})

	t.Run("定義のないアクティブキーは読み飛ばされること", func(t *testing.T) {
		cfg := domain.SliderConfig{
			domain.SliderGoldenHour: domain.LevelHigh, // 定義マップに存在しない
		}

		blocks, summary := injector.Inject(context.Background(), cfg)

		if summary.TotalActive != 0 {
			t.Errorf("定義なしキーが数えられました: %+v", summary)
		}
		light := blocks[domain.PillarLightscaler]
		if len(light) != 1 || light[0] != domain.InactiveMarker {
			t.Errorf("定義なしキーのみのピラーは INACTIVE のはずです: %v", light)
		}
	})
}
