package cmd

import (
	"github.com/shouni/go-photoscaler-kit/internal/runner"

	"github.com/spf13/cobra"
)

// presetCmd は、保存済みプリセットを扱うサブコマンド群の親なのだ。
var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "スライダー構成のプリセットを保存・表示するのだ。",
}

// presetSaveCmd は、プリセット定義JSONをルールストアへ保存するのだ。
// プリセットの保存は PRO 以上の層にだけ許されているのだ。
var presetSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "プリセット定義JSON（--config）を保存するのだ。",
	RunE:  presetSaveCommand,
}

// presetShowCmd は、保存済みプリセットを --preset のIDで表示するのだ。
var presetShowCmd = &cobra.Command{
	Use:   "show",
	Short: "保存済みプリセット（--preset）を表示するのだ。",
	RunE:  presetShowCommand,
}

func init() {
	presetCmd.AddCommand(presetSaveCmd, presetShowCmd)
}

// presetSaveCommand は、preset save サブコマンドの実行ロジック本体なのだ。
func presetSaveCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}

	return runner.RunPresetSave(ctx, app)
}

// presetShowCommand は、preset show サブコマンドの実行ロジック本体なのだ。
func presetShowCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}

	return runner.RunPresetShow(ctx, app)
}
