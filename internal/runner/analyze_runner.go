package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-photoscaler-kit/internal/builder"
	"github.com/shouni/go-photoscaler-kit/pkg/studio"
)

// RunAnalyze は画像の正規化・分類・推奨構成の導出までを実行するのだ。
// 応答はそのまま compile コマンドの入力に使える形で標準出力へ出すのだ。
func RunAnalyze(ctx context.Context, app *builder.AppContext) error {
	data, err := loadImageBytes(app)
	if err != nil {
		return err
	}
	if len(data) == 0 && app.Options.ImageRef == "" {
		return fmt.Errorf("解析する画像（--image または --image-file）を指定してほしいのだ")
	}

	slog.Info("画像解析を開始するのだ",
		"image_file", app.Options.ImageFile,
		"user", app.Options.UserID)

	result, err := app.Studio.Analyze(ctx, studio.AnalyzeRequest{
		ImageRef:  app.Options.ImageRef,
		ImageData: data,
		UserID:    app.Options.UserID,
		Tier:      app.Options.Tier,
	})
	if err != nil {
		return fmt.Errorf("解析に失敗したのだ: %w", err)
	}

	slog.Info("解析が完了したのだ",
		"upload_id", result.UploadID,
		"cat_code", result.Verdict.CatCode,
		"severity", result.Verdict.SeverityScore,
		"fallback", result.Verdict.Fallback)

	return printJSON(result)
}
