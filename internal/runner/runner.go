package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/go-photoscaler-kit/internal/builder"
)

// loadImageBytes は --image-file（ローカル）を優先して画像バイト列を読むのだ。
// ファイル指定がなければ空を返し、呼び出し側が --image の参照解決に回すのだ。
func loadImageBytes(app *builder.AppContext) ([]byte, error) {
	if app.Options.ImageFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(app.Options.ImageFile)
	if err != nil {
		return nil, fmt.Errorf("画像ファイルを読めないのだ: %w", err)
	}
	return data, nil
}

// loadRawConfig はスライダー構成JSON（'-'で標準入力）を生マップで読むのだ。
// 正規化と検証は studio 側の責務なので、ここではパースだけなのだ。
func loadRawConfig(path string) (map[string]any, error) {
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
		return nil, fmt.Errorf("構成ファイルを読めないのだ: %w", err)
	}

	raw := make(map[string]any)
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("構成JSONのパースに失敗したのだ: %w", err)
	}
	return raw, nil
}

// printJSON は応答を整形して標準出力へ書くのだ。
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("応答のエンコードに失敗したのだ: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// saveImage は生成画像を出力ディレクトリへ保存し、パスを返すのだ。
func saveImage(dir, generationID, mimeType string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("出力ディレクトリを作れないのだ: %w", err)
	}

	ext := ".png"
	if strings.Contains(mimeType, "jpeg") {
		ext = ".jpg"
	}
	path := filepath.Join(dir, generationID+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("画像の保存に失敗したのだ: %w", err)
	}
	return path, nil
}
