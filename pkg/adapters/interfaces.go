// Package adapters は、外部モデルサービスへの狭い契約と、その
// Gemini 実装を提供します。コアは本パッケージのインターフェース
// だけに依存し、実サービスの SDK 型を持ち込みません。
package adapters

import (
	"context"

	"github.com/shouni/go-photoscaler-kit/pkg/assembler"
)

// VisionModel はビジョン LLM への契約です。判定スキーマの JSON を含む
// テキストを返します。パースと検証は呼び出し側（vision パッケージ）の
// 責務です。
type VisionModel interface {
	Classify(ctx context.Context, systemPrompt string, image []byte, mimeType string) (string, error)
}

// GenerationRequest は画像生成1回分の入力です。
type GenerationRequest struct {
	Parts       []assembler.Part
	Seed        int32
	Temperature float32
	AspectRatio string
	ImageSize   string
}

// GenerationResult は生成エンジンの出力です。
type GenerationResult struct {
	ImageData []byte
	MIMEType  string
	OutputRef string
}

// ImageGenerator は画像生成エンジンへの契約です。共有かつ無状態で、
// 並行呼び出しに耐える必要があります。
type ImageGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
}
