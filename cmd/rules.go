package cmd

import (
	"github.com/shouni/go-photoscaler-kit/internal/runner"

	"github.com/spf13/cobra"
)

// rulesCmd は、ルールベース一式を読み直して全景を表示するサブコマンドなのだ。
// シード投入やDB移行のあとに、中身を目視確認するためのものなのだ。
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "スライダー定義・分類規則・マクロ・層設定の全景を出力するのだ。",
	RunE:  rulesCommand,
}

// rulesCommand は、rules サブコマンドの実行ロジック本体なのだ。
func rulesCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}

	return runner.RunRules(ctx, app)
}
