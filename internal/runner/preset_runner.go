package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shouni/go-photoscaler-kit/internal/builder"
	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// RunPresetSave はプリセット定義JSONを読み込み、層の許可を確認した上で
// ルールストアへ保存するのだ。採番されたIDを標準出力へ返すのだ。
func RunPresetSave(ctx context.Context, app *builder.AppContext) error {
	preset, err := loadPresetFile(app.Options.ConfigFile)
	if err != nil {
		return err
	}
	if preset == nil {
		return fmt.Errorf("保存するプリセット定義（--config）を指定してほしいのだ")
	}
	if preset.UserID == "" {
		preset.UserID = app.Options.UserID
	}

	id, err := app.Studio.SavePreset(ctx, app.Options.Tier, *preset)
	if err != nil {
		return fmt.Errorf("プリセットの保存に失敗したのだ: %w", err)
	}

	slog.Info("プリセットを保存したのだ",
		"preset_id", id,
		"name", preset.Name,
		"tier", app.Options.Tier)

	preset.ID = id
	return printJSON(preset)
}

// RunPresetShow は保存済みプリセットを --preset のIDで引いて表示するのだ。
func RunPresetShow(ctx context.Context, app *builder.AppContext) error {
	if app.Options.PresetID == "" {
		return fmt.Errorf("表示するプリセット（--preset）を指定してほしいのだ")
	}

	preset, found, err := app.Rules.LoadPreset(ctx, app.Options.PresetID)
	if err != nil {
		return fmt.Errorf("プリセットの読み出しに失敗したのだ: %w", err)
	}
	if !found {
		return fmt.Errorf("プリセット %q は見つからないのだ", app.Options.PresetID)
	}

	return printJSON(preset)
}

// loadPresetFile はプリセット定義JSON（'-'で標準入力）を読むのだ。
func loadPresetFile(path string) (*domain.Preset, error) {
	if path == "" {
		return nil, nil
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("プリセットファイルを読めないのだ: %w", err)
	}

	var preset domain.Preset
	if err := json.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("プリセットJSONのパースに失敗したのだ: %w", err)
	}
	return &preset, nil
}
