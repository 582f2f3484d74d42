// Package batch は、複数バリアントの生成を直列に投入するバッチ
// オーケストレーターです。バリアント間には最低間隔のハートビートを
// 置き、1件の失敗がバッチ全体を止めることはありません。
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/time/rate"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// HeartbeatInterval はバリアント投入の最低間隔です。生成エンジン側の
// レート制限を尊重するための値で、短縮してはいけません。
const HeartbeatInterval = 1500 * time.Millisecond

// 既定の温度。FORENSIC は決定論に寄せ、CREATIVE は探索に寄せます。
const (
	ForensicTemperature = 0.1
	BalancedTemperature = 0.4
	CreativeTemperature = 0.8

	// BalancedTemperatureStep は BALANCED バリアントの添字ごとの温度増分です。
	BalancedTemperatureStep = 0.1
)

// GenerationConfigFor はバリアント種別と添字から投入パラメータを
// 導出します。PRESET は保存済み nano_params を優先し、欠けた値だけを
// 既定から補います。
func GenerationConfigFor(v domain.BatchVariant, index int, nano *domain.NanoParams, seedFn func() int32) domain.GenerationConfig {
	cfg := domain.GenerationConfig{Variant: string(v.VariantSubtype)}

	if v.VariantType == domain.VariantPreset {
		cfg.Variant = fmt.Sprintf("PRESET:%s", v.VariantSubtype)
		cfg.Seed = seedFn()
		cfg.Temperature = BalancedTemperature
		if nano != nil {
			if nano.Seed != nil {
				cfg.Seed = *nano.Seed
			}
			if nano.Temperature != nil {
				cfg.Temperature = *nano.Temperature
			}
			cfg.AspectRatio = nano.AspectRatio
			cfg.ImageSize = nano.ImageSize
		}
		return cfg
	}

	switch v.VariantSubtype {
	case domain.SubtypeForensic:
		cfg.Seed = domain.ForensicSeed
		cfg.Temperature = ForensicTemperature
	case domain.SubtypeCreative:
		cfg.Seed = seedFn()
		cfg.Temperature = CreativeTemperature
	case domain.SubtypeBalanced:
		cfg.Seed = seedFn()
		cfg.Temperature = float32(BalancedTemperature + BalancedTemperatureStep*float64(index))
	default:
		cfg.Seed = seedFn()
		cfg.Temperature = BalancedTemperature
	}
	return cfg
}

// RandomSeed は非決定論バリアント用のシード供給源です。
func RandomSeed() int32 {
	return rand.Int31()
}

// SubmitFunc は1バリアント分のコンパイルと生成を実行します。
// 成功時は生成 ID を返します。
type SubmitFunc func(ctx context.Context, index int, variant domain.BatchVariant, cfg domain.GenerationConfig) (string, error)

// waiter は rate.Limiter の差し替え点です。テストでは時間を進めない
// フェイクを注入します。
type waiter interface {
	Wait(ctx context.Context) error
}

// Runner はバッチ実行機です。
type Runner struct {
	limiter waiter
	seedFn  func() int32
}

// NewRunner は実時間のハートビートを持つ Runner を生成します。
func NewRunner() *Runner {
	return &Runner{
		limiter: rate.NewLimiter(rate.Every(HeartbeatInterval), 1),
		seedFn:  RandomSeed,
	}
}

// Run は計画を直列に実行します。
//
//   - バリアントの失敗は記録して続行します。
//   - キャンセルは「実行中を完走し、残りを SKIPPED」です。キャンセルの
//     判定はバリアント間でのみ行い、投入済みの外部呼び出しには信号を
//     伝播させません。この場合も終端状態は COMPLETED で、エラーには
//     なりません。
//   - 全バリアントが失敗した場合のみ ErrGenerationFailure を返します。
func (r *Runner) Run(ctx context.Context, plan domain.BatchPlan, nano *domain.NanoParams, submit SubmitFunc) ([]domain.VariantResult, domain.BatchState, error) {
	results := make([]domain.VariantResult, 0, len(plan))
	cancelled := false
	failures := 0

	for i, variant := range plan {
		label := string(variant.VariantSubtype)

		if cancelled || ctx.Err() != nil {
			cancelled = true
			results = append(results, domain.VariantResult{
				Index: i, Variant: label, State: domain.VariantSkipped,
			})
			continue
		}

		// ハートビート。初回は即時に通り、以降は最低間隔が空きます。
		if err := r.limiter.Wait(ctx); err != nil {
			cancelled = true
			results = append(results, domain.VariantResult{
				Index: i, Variant: label, State: domain.VariantSkipped,
			})
			continue
		}

		cfg := GenerationConfigFor(variant, i, nano, r.seedFn)
		slog.InfoContext(ctx, "submitting batch variant",
			"index", i,
			"variant", cfg.Variant,
			"seed", cfg.Seed,
			"temperature", cfg.Temperature)

		// 投入済みバリアントはキャンセルから遮蔽して完走させます。
		// 呼び出し単体の上限はアダプター側のタイムアウトが守ります。
		generationID, err := submit(context.WithoutCancel(ctx), i, variant, cfg)
		if err != nil {
			failures++
			slog.WarnContext(ctx, "batch variant failed", "index", i, "variant", cfg.Variant, "error", err)
			results = append(results, domain.VariantResult{
				Index: i, Variant: cfg.Variant, State: domain.VariantFailed, Error: err.Error(),
			})
			continue
		}

		results = append(results, domain.VariantResult{
			Index: i, Variant: cfg.Variant, State: domain.VariantDone,
			Success: true, GenerationID: generationID,
		})
	}

	if len(plan) > 0 && failures == len(plan) {
		return results, domain.BatchCompleted, fmt.Errorf("%w: all %d variants failed", domain.ErrGenerationFailure, failures)
	}
	return results, domain.BatchCompleted, nil
}
