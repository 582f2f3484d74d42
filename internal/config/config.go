package config

import (
	"strings"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultVisionModel = "gemini-3-flash-preview"
	DefaultImageModel  = "gemini-3-pro-image-preview"
	DefaultDatabase    = "photoscaler.db" // SQLite のローカルファイルなのだ
	DefaultTier        = "USER"
	DefaultOutputDir   = "output/images"
	DefaultUserID      = "local"
)

// Config はアプリケーション全体の環境設定（APIキーやモデル名）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKeys []string // 複数キーのローテーションに対応しているのだ
	VisionModel   string
	ImageModel    string
	DatabaseDSN   string

	Options Options
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKeys: splitKeys(envutil.GetEnv("GEMINI_API_KEYS", envutil.GetEnv("GEMINI_API_KEY", ""))),
		VisionModel:   envutil.GetEnv("VISION_GEMINI_MODEL", DefaultVisionModel),
		ImageModel:    envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
		DatabaseDSN:   envutil.GetEnv("PHOTOSCALER_DB", DefaultDatabase),
	}
}

// splitKeys はカンマ区切りのAPIキー列を個々のキーへ分解するのだ。
func splitKeys(raw string) []string {
	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := strings.TrimSpace(p); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Options は CLI フラグから渡される実行時のパラメータなのだ。
type Options struct {
	// ソース入力関連
	ImageRef   string // --image: data URL / http(s) URL
	ImageFile  string // --image-file: ローカルファイルのパス
	ConfigFile string // --config: スライダー構成JSONのパス（'-'で標準入力なのだ）

	// 実行時の挙動設定
	Tier         string // --tier
	UserID       string // --user
	PresetID     string // --preset
	UseAnchor    bool   // --anchor: DNAアンカーを添付するのだ
	IncludeDebug bool   // --debug: debug_info を応答に含めるのだ
	BatchCount   int    // --count: バッチのバリアント数なのだ

	// 出力関連
	OutputDir string // --output-dir: 生成画像の保存先なのだ
}
