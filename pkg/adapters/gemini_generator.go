package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/shouni/go-photoscaler-kit/pkg/assembler"
	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// GenerationTimeout は生成呼び出し1回のハードリミットです。
const GenerationTimeout = 120 * time.Second

// GenerationAttempts はキーをローテーションしながらの最大試行回数です。
const GenerationAttempts = 3

// generateCall は genai への実呼び出しの差し替え点です。テストでは
// ネットワークに出ないフェイクを注入します。
type generateCall func(ctx context.Context, client *genai.Client, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiGenerator は ImageGenerator の Gemini 実装です。
type GeminiGenerator struct {
	pool  *KeyPool
	model string
	call  generateCall

	mu      sync.Mutex
	clients map[string]*genai.Client
}

// NewGeminiGenerator は新しい GeminiGenerator を生成します。
func NewGeminiGenerator(pool *KeyPool, model string) *GeminiGenerator {
	return &GeminiGenerator{
		pool:    pool,
		model:   model,
		call:    callGemini,
		clients: make(map[string]*genai.Client),
	}
}

func callGemini(ctx context.Context, client *genai.Client, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return client.Models.GenerateContent(ctx, model, contents, config)
}

// Generate はマルチモーダルなパート列を送信し、生成画像を返します。
// クォータ失敗ではキーを休ませ、最大3回まで別キーで再試行します。
// それ以外の失敗は即座に ErrGenerationFailure に包んで返します。
func (g *GeminiGenerator) Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, GenerationTimeout)
	defer cancel()

	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, part := range req.Parts {
		switch part.Kind {
		case assembler.PartText:
			parts = append(parts, genai.NewPartFromText(part.Text))
		case assembler.PartImage:
			parts = append(parts, genai.NewPartFromBytes(part.Data, part.MIMEType))
		}
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	config := generationConfig(req)

	var lastErr error
	for attempt := 1; attempt <= GenerationAttempts; attempt++ {
		key, err := g.pool.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: no usable api key: %v", domain.ErrQuotaExceeded, err)
		}

		client, err := g.clientFor(ctx, key)
		if err != nil {
			lastErr = err
			continue
		}

		slog.InfoContext(ctx, "submitting generation request",
			"model", g.model,
			"attempt", attempt,
			"parts", len(parts),
			"seed", req.Seed,
			"temperature", req.Temperature)

		resp, err := g.call(ctx, client, g.model, contents, config)
		if err != nil {
			if IsQuotaError(err) {
				g.pool.ReportQuotaFailure(key)
				lastErr = err
				slog.WarnContext(ctx, "generation key cooled down after quota failure", "attempt", attempt)
				continue
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailure, err)
		}

		image := firstImagePart(resp)
		if image == nil {
			return nil, fmt.Errorf("%w: response contains no image part", domain.ErrGenerationFailure)
		}

		return &GenerationResult{
			ImageData: image.Data,
			MIMEType:  image.MIMEType,
		}, nil
	}

	return nil, fmt.Errorf("%w: %v", domain.ErrQuotaExceeded, lastErr)
}

// generationConfig は要求を genai の呼び出し設定へ写します。アスペクト比
// と出力サイズは、どちらかが指定されたときだけ ImageConfig を立てます。
func generationConfig(req GenerationRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
		Seed:        genai.Ptr(req.Seed),
	}
	if req.AspectRatio != "" || req.ImageSize != "" {
		config.ImageConfig = &genai.ImageConfig{
			AspectRatio: req.AspectRatio,
			ImageSize:   req.ImageSize,
		}
	}
	return config
}

// firstImagePart は応答から最初の画像パートを取り出します。
func firstImagePart(resp *genai.GenerateContentResponse) *genai.Blob {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData
			}
		}
	}
	return nil
}

func (g *GeminiGenerator) clientFor(ctx context.Context, key string) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if client, ok := g.clients[key]; ok {
		return client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: key})
	if err != nil {
		return nil, fmt.Errorf("genai client init: %w", err)
	}
	g.clients[key] = client
	return client, nil
}
