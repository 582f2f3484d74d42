package cmd

import (
	"github.com/shouni/go-photoscaler-kit/internal/runner"

	"github.com/spf13/cobra"
)

// compileCmd は、スライダー構成JSONをマスタープロンプトへ変換するサブコマンドなのだ。
// ネットワークを使わない決定論の工程なので、APIキーなしで動くのだ。
var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "スライダー構成をマスタープロンプトへコンパイルするのだ。",
	Long: `スライダー構成JSON（--config）を読み込み、拒否権の適用、指示文ブロックの
注入、同一性ロックの解決、サニタイズまでを通してマスタープロンプトを出力するのだ。
--debug を付けると、どの拒否権が効いたかの内訳も見られるのだ。`,
	RunE: compileCommand,
}

// compileCommand は、compile サブコマンドの実行ロジック本体なのだ。
func compileCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := buildApp(ctx)
	if err != nil {
		return err
	}

	return runner.RunCompile(ctx, app)
}
