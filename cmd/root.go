package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/go-photoscaler-kit/internal/builder"
	"github.com/shouni/go-photoscaler-kit/internal/config"

	"github.com/spf13/cobra"
)

// opts は全サブコマンドで共有する実行時パラメータなのだ。
var opts config.Options

// rootCmd は、アプリケーション全体のエントリポイントとなるコマンドなのだ。
var rootCmd = &cobra.Command{
	Use:   "photoscaler",
	Short: "画像の鑑識的な復元・強調プロンプトをコンパイルして生成まで面倒を見るのだ。",
	Long: `写真を解析して損傷や劣化を分類し、27本のスライダー構成から
決定論的なマスタープロンプトをコンパイルし、生成エンジンへ投入するのだ。
analyze → compile → batch の順に使うと全工程を味わえるのだ。`,
	SilenceUsage: true,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags() {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.ImageRef, "image", "u", "", "画像の参照（data URL か http(s) URL）なのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.ImageFile, "image-file", "f", "", "ローカル画像ファイルのパスなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "スライダー構成JSONのパス（'-'で標準入力なのだ）。")

	// --- 実行時の挙動設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.Tier, "tier", "t", config.DefaultTier, "利用者層（AUTO / USER / PRO / PRO_LUX）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.UserID, "user", config.DefaultUserID, "操作主体のユーザーIDなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.PresetID, "preset", "p", "", "使用する保存済みプリセットのIDなのだ。")
	rootCmd.PersistentFlags().BoolVar(&opts.UseAnchor, "anchor", false, "DNAアンカー（顔の切り出し）を添付するのだ。")
	rootCmd.PersistentFlags().BoolVar(&opts.IncludeDebug, "debug", false, "応答に debug_info を含めるのだ。")
	rootCmd.PersistentFlags().IntVarP(&opts.BatchCount, "count", "n", 0, "バッチのバリアント数（0で層ごとの既定）なのだ。")

	// --- 出力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "生成画像を保存するディレクトリなのだ。")
}

// preRunAppE は、Gemini API を呼ぶコマンドの実行前チェックなのだ。
// compile と rules は完全ローカルなので、このチェックは付けないのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	if os.Getenv("GEMINI_API_KEYS") == "" && os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}
	return nil
}

// buildApp は環境変数とフラグから依存グラフを組み立てるのだ。
func buildApp(ctx context.Context) (*builder.AppContext, error) {
	cfg := config.LoadConfig()
	cfg.Options = opts
	return builder.NewAppContext(ctx, cfg)
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addAppFlags()
	rootCmd.AddCommand(analyzeCmd, compileCmd, batchCmd, presetCmd, rulesCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("コマンドが失敗したのだ", "error", err)
		os.Exit(1)
	}
}
