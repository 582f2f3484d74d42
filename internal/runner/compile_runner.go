package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-photoscaler-kit/internal/builder"
	"github.com/shouni/go-photoscaler-kit/pkg/studio"
)

// RunCompile はスライダー構成JSONをマスタープロンプトへコンパイルするのだ。
// ネットワークもAPIキーも使わない、完全にローカルな決定論の工程なのだ。
func RunCompile(ctx context.Context, app *builder.AppContext) error {
	raw, err := loadRawConfig(app.Options.ConfigFile)
	if err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("コンパイルする構成（--config）を指定してほしいのだ")
	}

	slog.Info("プロンプトをコンパイルするのだ",
		"config_file", app.Options.ConfigFile,
		"debug", app.Options.IncludeDebug)

	result, err := app.Studio.Compile(ctx, studio.CompileRequest{
		RawConfig:    raw,
		IncludeDebug: app.Options.IncludeDebug,
	})
	if err != nil {
		return fmt.Errorf("コンパイルに失敗したのだ: %w", err)
	}

	slog.Info("コンパイルが完了したのだ",
		"active", len(result.Metadata.ActiveSliders),
		"force", len(result.Metadata.ForceSliders),
		"lock", result.Metadata.IdentityLockLevel,
		"tokens", result.TokensEstimate)

	return printJSON(result)
}
