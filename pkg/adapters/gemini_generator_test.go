package adapters

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/shouni/go-photoscaler-kit/pkg/assembler"
	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// testGenerator はネットワークに出ないフェイク呼び出しを差した実装を
// 返します。クライアント生成も飛ばすため、キーは事前登録しておきます。
func testGenerator(keys []string, call generateCall) *GeminiGenerator {
	clients := make(map[string]*genai.Client, len(keys))
	for _, k := range keys {
		clients[k] = nil
	}
	return &GeminiGenerator{
		pool:    NewKeyPool(keys),
		model:   "test-image-model",
		call:    call,
		clients: clients,
	}
}

func imageResponse(data []byte, mimeType string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{
				{InlineData: &genai.Blob{Data: data, MIMEType: mimeType}},
			}}},
		},
	}
}

func TestGenerationConfig(t *testing.T) {
	t.Run("アスペクト比と出力サイズが呼び出し設定に載ること", func(t *testing.T) {
		config := generationConfig(GenerationRequest{
			Seed:        42,
			Temperature: 0.1,
			AspectRatio: "16:9",
			ImageSize:   "2K",
		})
		if config.Seed == nil || *config.Seed != 42 {
			t.Errorf("シード: %+v", config.Seed)
		}
		if config.Temperature == nil || *config.Temperature != 0.1 {
			t.Errorf("温度: %+v", config.Temperature)
		}
		if config.ImageConfig == nil {
			t.Fatal("ImageConfig が構築されていません")
		}
		if config.ImageConfig.AspectRatio != "16:9" || config.ImageConfig.ImageSize != "2K" {
			t.Errorf("ImageConfig: %+v", config.ImageConfig)
		}
	})

	t.Run("未指定ならImageConfigを立てないこと", func(t *testing.T) {
		config := generationConfig(GenerationRequest{Seed: 1, Temperature: 0.4})
		if config.ImageConfig != nil {
			t.Errorf("ImageConfig は不要のはずです: %+v", config.ImageConfig)
		}
	})
}

func TestGeminiGeneratorRetry(t *testing.T) {
	req := GenerationRequest{
		Parts:       []assembler.Part{{Kind: assembler.PartText, Text: "prompt"}},
		Seed:        42,
		Temperature: 0.1,
	}

	t.Run("クォータ失敗はキーを替えて最大3回まで再試行すること", func(t *testing.T) {
		calls := 0
		g := testGenerator([]string{"key-a", "key-b", "key-c"}, func(context.Context, *genai.Client, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			calls++
			return nil, errors.New("429 RESOURCE_EXHAUSTED")
		})

		_, err := g.Generate(context.Background(), req)
		if !errors.Is(err, domain.ErrQuotaExceeded) {
			t.Errorf("ErrQuotaExceeded が返るべきですが: %v", err)
		}
		if calls != GenerationAttempts {
			t.Errorf("試行回数: 期待値 %d, 実際の値 %d", GenerationAttempts, calls)
		}
	})

	t.Run("クォータ失敗後に別キーで成功できること", func(t *testing.T) {
		calls := 0
		g := testGenerator([]string{"key-a", "key-b"}, func(context.Context, *genai.Client, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("quota exceeded for key")
			}
			return imageResponse([]byte("png-bytes"), "image/png"), nil
		})

		result, err := g.Generate(context.Background(), req)
		if err != nil {
			t.Fatalf("再試行で成功するはずです: %v", err)
		}
		if string(result.ImageData) != "png-bytes" || result.MIMEType != "image/png" {
			t.Errorf("結果が不正です: %+v", result)
		}
		if calls != 2 {
			t.Errorf("試行回数: 期待値 2, 実際の値 %d", calls)
		}
	})

	t.Run("クォータ以外の失敗は再試行せず即座に返すこと", func(t *testing.T) {
		calls := 0
		g := testGenerator([]string{"key-a", "key-b"}, func(context.Context, *genai.Client, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			calls++
			return nil, errors.New("invalid argument")
		})

		_, err := g.Generate(context.Background(), req)
		if !errors.Is(err, domain.ErrGenerationFailure) {
			t.Errorf("ErrGenerationFailure が返るべきですが: %v", err)
		}
		if calls != 1 {
			t.Errorf("試行回数: 期待値 1, 実際の値 %d", calls)
		}
	})

	t.Run("画像パートの無い応答は失敗になること", func(t *testing.T) {
		g := testGenerator([]string{"key-a"}, func(context.Context, *genai.Client, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return &genai.GenerateContentResponse{}, nil
		})

		_, err := g.Generate(context.Background(), req)
		if !errors.Is(err, domain.ErrGenerationFailure) {
			t.Errorf("ErrGenerationFailure が返るべきですが: %v", err)
		}
	})
}
