package cmd

import (
	"github.com/shouni/go-photoscaler-kit/internal/runner"

	"github.com/spf13/cobra"
)

// analyzeCmd は、画像の正規化とビジョン分類だけを実行するサブコマンドなのだ。
// 生成トークンを使わずに、推奨スライダー構成を先に確かめたいときに便利なのだ。
var analyzeCmd = &cobra.Command{
	Use:     "analyze",
	Short:   "画像を解析して分類と推奨構成を出すのだ。",
	PreRunE: preRunAppE,
	RunE:    analyzeCommand,
}

// analyzeCommand は、analyze サブコマンドの実行ロジック本体なのだ。
func analyzeCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}

	return runner.RunAnalyze(ctx, app)
}
