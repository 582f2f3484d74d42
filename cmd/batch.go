package cmd

import (
	"github.com/shouni/go-photoscaler-kit/internal/runner"

	"github.com/spf13/cobra"
)

// batchCmd は、解析からバリアント群の生成までを一括で実行するサブコマンドなのだ。
// 生成結果は --output-dir へ保存され、台帳にも追記されるのだ。
var batchCmd = &cobra.Command{
	Use:     "batch",
	Short:   "解析・コンパイル・バリアント生成を一括で実行するのだ。",
	PreRunE: preRunAppE,
	RunE:    batchCommand,
}

// batchCommand は、batch サブコマンドの実行ロジック本体なのだ。
func batchCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}

	return runner.RunBatch(ctx, app)
}
