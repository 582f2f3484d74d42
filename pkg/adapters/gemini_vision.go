package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"google.golang.org/genai"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// VisionAttempts はキーをローテーションしながらの最大試行回数です。
const VisionAttempts = 3

// GeminiVision は VisionModel の Gemini 実装です。API キーは
// ローテーションプールから引き、クライアントはキーごとに遅延生成して
// 再利用します。
type GeminiVision struct {
	pool  *KeyPool
	model string

	mu      sync.Mutex
	clients map[string]*genai.Client
}

// NewGeminiVision は新しい GeminiVision を生成します。
func NewGeminiVision(pool *KeyPool, model string) *GeminiVision {
	return &GeminiVision{
		pool:    pool,
		model:   model,
		clients: make(map[string]*genai.Client),
	}
}

// Classify はシステム指示とサムネイル画像を送り、判定テキストを返します。
// クォータ失敗ではキーを休ませ、最大3回まで別キーで再試行します。
func (v *GeminiVision) Classify(ctx context.Context, systemPrompt string, image []byte, mimeType string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= VisionAttempts; attempt++ {
		key, err := v.pool.Next()
		if err != nil {
			return "", fmt.Errorf("%w: no usable api key: %v", domain.ErrVisionFailure, err)
		}

		client, err := v.clientFor(ctx, key)
		if err != nil {
			lastErr = err
			continue
		}

		contents := []*genai.Content{
			genai.NewContentFromParts([]*genai.Part{
				genai.NewPartFromBytes(image, mimeType),
			}, genai.RoleUser),
		}
		config := &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			Temperature:       genai.Ptr(float32(0.1)),
			ResponseMIMEType:  "application/json",
		}

		resp, err := client.Models.GenerateContent(ctx, v.model, contents, config)
		if err != nil {
			lastErr = err
			if IsQuotaError(err) {
				v.pool.ReportQuotaFailure(key)
				slog.WarnContext(ctx, "vision key cooled down after quota failure", "attempt", attempt)
				continue
			}
			slog.WarnContext(ctx, "vision call failed", "attempt", attempt, "error", err)
			continue
		}

		text := resp.Text()
		if text == "" {
			lastErr = fmt.Errorf("empty vision response")
			continue
		}
		return text, nil
	}

	return "", fmt.Errorf("%w: %v", domain.ErrVisionFailure, lastErr)
}

// clientFor はキーに対応するクライアントを遅延生成して返します。
func (v *GeminiVision) clientFor(ctx context.Context, key string) (*genai.Client, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if client, ok := v.clients[key]; ok {
		return client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: key})
	if err != nil {
		return nil, fmt.Errorf("genai client init: %w", err)
	}
	v.clients[key] = client
	return client, nil
}
