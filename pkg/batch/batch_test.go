package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// instantWaiter は時間を進めないハートビートです。Wait の呼び出し回数
// だけを記録します。
type instantWaiter struct{ waits int }

func (w *instantWaiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.waits++
	return nil
}

func testRunner(w waiter) *Runner {
	return &Runner{limiter: w, seedFn: func() int32 { return 777 }}
}

func TestGenerationConfigFor(t *testing.T) {
	seedFn := func() int32 { return 123 }

	t.Run("FORENSICは決定論的であること", func(t *testing.T) {
		cfg := GenerationConfigFor(domain.BatchVariant{
			VariantType: domain.VariantAuto, VariantSubtype: domain.SubtypeForensic,
		}, 0, nil, seedFn)
		if cfg.Seed != domain.ForensicSeed || cfg.Temperature != ForensicTemperature {
			t.Errorf("FORENSIC: seed=%d temp=%f", cfg.Seed, cfg.Temperature)
		}
	})

	t.Run("CREATIVEは乱数シードと高温であること", func(t *testing.T) {
		cfg := GenerationConfigFor(domain.BatchVariant{
			VariantType: domain.VariantAuto, VariantSubtype: domain.SubtypeCreative,
		}, 1, nil, seedFn)
		if cfg.Seed != 123 || cfg.Temperature != CreativeTemperature {
			t.Errorf("CREATIVE: seed=%d temp=%f", cfg.Seed, cfg.Temperature)
		}
	})

	t.Run("BALANCEDは添字で温度が階段状に上がること", func(t *testing.T) {
		v := domain.BatchVariant{VariantType: domain.VariantAuto, VariantSubtype: domain.SubtypeBalanced}
		c0 := GenerationConfigFor(v, 0, nil, seedFn)
		c2 := GenerationConfigFor(v, 2, nil, seedFn)
		if c0.Temperature != 0.4 {
			t.Errorf("index 0 の温度: %f", c0.Temperature)
		}
		if c2.Temperature <= c0.Temperature {
			t.Errorf("温度が単調増加していません: %f -> %f", c0.Temperature, c2.Temperature)
		}
	})

	t.Run("PRESETは保存済みパラメータを優先すること", func(t *testing.T) {
		seed := int32(9)
		temp := float32(0.66)
		cfg := GenerationConfigFor(domain.BatchVariant{
			VariantType: domain.VariantPreset, VariantSubtype: "preset-1",
		}, 0, &domain.NanoParams{Seed: &seed, Temperature: &temp, AspectRatio: "16:9"}, seedFn)
		if cfg.Seed != 9 || cfg.Temperature != 0.66 || cfg.AspectRatio != "16:9" {
			t.Errorf("PRESET: %+v", cfg)
		}
		if cfg.Variant != "PRESET:preset-1" {
			t.Errorf("バリアントラベル: %s", cfg.Variant)
		}
	})

	t.Run("PRESETの欠損値は既定から補われること", func(t *testing.T) {
		cfg := GenerationConfigFor(domain.BatchVariant{
			VariantType: domain.VariantPreset, VariantSubtype: "preset-2",
		}, 0, &domain.NanoParams{}, seedFn)
		if cfg.Seed != 123 || cfg.Temperature != BalancedTemperature {
			t.Errorf("補完が不正です: %+v", cfg)
		}
	})
}

func TestRunnerRun(t *testing.T) {
	plan := domain.DefaultBatchPlan()

	t.Run("全成功でCOMPLETEDになること", func(t *testing.T) {
		w := &instantWaiter{}
		r := testRunner(w)

		results, state, err := r.Run(context.Background(), plan, nil,
			func(_ context.Context, i int, _ domain.BatchVariant, _ domain.GenerationConfig) (string, error) {
				return "gen-" + string(rune('a'+i)), nil
			})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if state != domain.BatchCompleted {
			t.Errorf("状態: %s", state)
		}
		if len(results) != 2 || !results[0].Success || !results[1].Success {
			t.Errorf("結果が不正です: %+v", results)
		}
		if w.waits != 2 {
			t.Errorf("ハートビート回数: 期待値 2, 実際の値 %d", w.waits)
		}
	})

	t.Run("1件の失敗ではバッチは止まらないこと", func(t *testing.T) {
		r := testRunner(&instantWaiter{})

		results, _, err := r.Run(context.Background(), plan, nil,
			func(_ context.Context, i int, _ domain.BatchVariant, _ domain.GenerationConfig) (string, error) {
				if i == 0 {
					return "", errors.New("engine hiccup")
				}
				return "gen-b", nil
			})
		if err != nil {
			t.Fatalf("部分失敗はエラーではないはずです: %v", err)
		}
		if results[0].State != domain.VariantFailed || results[1].State != domain.VariantDone {
			t.Errorf("状態列が不正です: %+v", results)
		}
	})

	t.Run("全滅で ErrGenerationFailure になること", func(t *testing.T) {
		r := testRunner(&instantWaiter{})

		_, state, err := r.Run(context.Background(), plan, nil,
			func(context.Context, int, domain.BatchVariant, domain.GenerationConfig) (string, error) {
				return "", errors.New("down")
			})
		if !errors.Is(err, domain.ErrGenerationFailure) {
			t.Errorf("ErrGenerationFailure が返るべきですが: %v", err)
		}
		if state != domain.BatchCompleted {
			t.Errorf("全滅でも終端状態は COMPLETED です: %s", state)
		}
	})

	t.Run("キャンセルは実行中を完走し残りをSKIPPEDにすること", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		r := testRunner(&instantWaiter{})

		bigPlan := domain.BatchPlan{
			{VariantType: domain.VariantAuto, VariantSubtype: domain.SubtypeForensic},
			{VariantType: domain.VariantAuto, VariantSubtype: domain.SubtypeBalanced},
			{VariantType: domain.VariantAuto, VariantSubtype: domain.SubtypeCreative},
		}

		results, state, err := r.Run(ctx, bigPlan, nil,
			func(_ context.Context, i int, _ domain.BatchVariant, _ domain.GenerationConfig) (string, error) {
				if i == 0 {
					cancel() // 1枚目の処理中にユーザーがキャンセル
				}
				return "gen", nil
			})
		if err != nil {
			t.Fatalf("キャンセルはエラーではないはずです: %v", err)
		}
		if state != domain.BatchCompleted {
			t.Errorf("状態: %s", state)
		}
		if results[0].State != domain.VariantDone {
			t.Errorf("実行中バリアントは完走すべきです: %+v", results[0])
		}
		if results[1].State != domain.VariantSkipped || results[2].State != domain.VariantSkipped {
			t.Errorf("残りは SKIPPED のはずです: %+v", results[1:])
		}
	})

	t.Run("キャンセル信号は投入済みの外部呼び出しへ伝播しないこと", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		r := testRunner(&instantWaiter{})

		bigPlan := domain.BatchPlan{
			{VariantType: domain.VariantAuto, VariantSubtype: domain.SubtypeForensic},
			{VariantType: domain.VariantAuto, VariantSubtype: domain.SubtypeBalanced},
			{VariantType: domain.VariantAuto, VariantSubtype: domain.SubtypeCreative},
		}

		// 実際の生成経路と同じく ctx に従う投入関数。遮蔽が無ければ
		// 1枚目が FAILED("context canceled") になってしまいます。
		results, state, err := r.Run(ctx, bigPlan, nil,
			func(callCtx context.Context, i int, _ domain.BatchVariant, _ domain.GenerationConfig) (string, error) {
				cancel() // 呼び出しが飛んでいる最中のキャンセル
				if err := callCtx.Err(); err != nil {
					return "", err
				}
				return "gen", nil
			})
		if err != nil {
			t.Fatalf("キャンセルはエラーではないはずです: %v", err)
		}
		if state != domain.BatchCompleted {
			t.Errorf("状態: %s", state)
		}
		if results[0].State != domain.VariantDone || !results[0].Success {
			t.Errorf("実行中バリアントは完走すべきです: %+v", results[0])
		}
		if results[0].Error != "" {
			t.Errorf("完走したバリアントにエラーが残っています: %q", results[0].Error)
		}
		if results[1].State != domain.VariantSkipped || results[2].State != domain.VariantSkipped {
			t.Errorf("残りは SKIPPED のはずです: %+v", results[1:])
		}
	})
}
