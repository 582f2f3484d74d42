package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-photoscaler-kit/internal/builder"
	"github.com/shouni/go-photoscaler-kit/pkg/domain"
	"github.com/shouni/go-photoscaler-kit/pkg/studio"
)

// RunBatch は解析からバリアント群の生成までを一括で実行するのだ。
// まだアップロードされていない画像が指定されたら、先に analyze を
// 走らせてからバッチへ進むのだ。
func RunBatch(ctx context.Context, app *builder.AppContext) error {
	data, err := loadImageBytes(app)
	if err != nil {
		return err
	}
	if len(data) == 0 && app.Options.ImageRef == "" {
		return fmt.Errorf("バッチ対象の画像（--image または --image-file）を指定してほしいのだ")
	}

	analyzed, err := app.Studio.Analyze(ctx, studio.AnalyzeRequest{
		ImageRef:  app.Options.ImageRef,
		ImageData: data,
		UserID:    app.Options.UserID,
		Tier:      app.Options.Tier,
	})
	if err != nil {
		return fmt.Errorf("前段の解析に失敗したのだ: %w", err)
	}

	plan := buildPlan(app.Options.BatchCount, app.Options.PresetID)
	slog.Info("バッチ生成を開始するのだ",
		"upload_id", analyzed.UploadID,
		"tier", app.Options.Tier,
		"variants", len(plan),
		"anchor", app.Options.UseAnchor)

	// 生成画像は逐次 --output-dir へ保存し、そのパスが台帳の
	// output_ref になるのだ。
	sink := func(generationID, mimeType string, data []byte) (string, error) {
		path, err := saveImage(app.Options.OutputDir, generationID, mimeType, data)
		if err != nil {
			return "", err
		}
		slog.Info("画像を保存したのだ", "path", path)
		return path, nil
	}

	result, err := app.Studio.Batch(ctx, studio.BatchRequest{
		UploadID:  analyzed.UploadID,
		Tier:      app.Options.Tier,
		Plan:      plan,
		PresetID:  app.Options.PresetID,
		UseAnchor: app.Options.UseAnchor,
		Sink:      sink,
	})
	if err != nil {
		// 部分失敗は結果に載っているので、全滅と中断だけがここへ来るのだ
		slog.Error("バッチが失敗したのだ", "state", result.State, "error", err)
		return err
	}

	for _, variant := range result.Results {
		if !variant.Success {
			continue
		}
		slog.Info("バリアント完了なのだ", "index", variant.Index, "variant", variant.Variant, "generation_id", variant.GenerationID)
	}

	return printJSON(result)
}

// buildPlan は --count と --preset からバッチ計画を組み立てるのだ。
// 3枚目以降は BALANCED で埋め、温度が階段状に上がるのだ。
func buildPlan(count int, presetID string) domain.BatchPlan {
	if presetID != "" {
		return domain.BatchPlan{
			{VariantType: domain.VariantPreset, VariantSubtype: domain.VariantSubtype(presetID)},
		}
	}
	if count <= 0 {
		return nil // studio 側の既定（FORENSIC + CREATIVE）に任せるのだ
	}

	subtypes := []domain.VariantSubtype{domain.SubtypeForensic, domain.SubtypeCreative}
	plan := make(domain.BatchPlan, 0, count)
	for i := 0; i < count; i++ {
		subtype := domain.SubtypeBalanced
		if i < len(subtypes) {
			subtype = subtypes[i]
		}
		plan = append(plan, domain.BatchVariant{VariantType: domain.VariantAuto, VariantSubtype: subtype})
	}
	return plan
}
