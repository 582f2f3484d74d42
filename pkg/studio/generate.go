package studio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shouni/go-photoscaler-kit/pkg/adapters"
	"github.com/shouni/go-photoscaler-kit/pkg/assembler"
	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// ImageSink は生成画像バイト列の保存先です。保存先の参照（パスや
// オブジェクトキー）を返し、それが台帳の output_ref になります。
// nil の場合、バイト列は応答に載るだけで保存されません。
type ImageSink func(generationID, mimeType string, data []byte) (string, error)

// GenerateRequest は単発生成の入力です。
type GenerateRequest struct {
	UploadID   string
	Tier       string
	Config     domain.SliderConfig
	Flags      domain.ConfigFlags
	Verdict    *domain.VisionVerdict
	UseAnchor  bool
	IsPreview  bool
	Generation domain.GenerationConfig
	Sink       ImageSink
}

// GenerateResult は単発生成の応答です。
type GenerateResult struct {
	GenerationID string                  `json:"generation_id"`
	ImageData    []byte                  `json:"-"`
	MIMEType     string                  `json:"mime_type"`
	Record       domain.GenerationRecord `json:"record"`
	Compile      *CompileResult          `json:"compile"`
}

// Generate はコンパイル済みプロンプトとメインキャンバス（必要なら
// DNA アンカー）を生成エンジンへ投入し、結果を台帳へ追記します。
func (s *Studio) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	upload, found, err := s.repos.GetUpload(ctx, req.UploadID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: upload %q not found", domain.ErrInvalidImage, req.UploadID)
	}

	tierCfg, ok, err := s.rules.TierConfig(ctx, req.Tier)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: unknown tier %q", domain.ErrValidationFailure, req.Tier)
	}

	useAnchor := req.UseAnchor && tierCfg.AllowDNAAnchor
	if req.UseAnchor && !tierCfg.AllowDNAAnchor {
		slog.WarnContext(ctx, "dna anchor requested but not allowed for tier", "tier", req.Tier)
	}

	compiled, err := s.Compile(ctx, CompileRequest{
		Config:       req.Config,
		Flags:        req.Flags,
		Verdict:      req.Verdict,
		HasDNAAnchor: useAnchor,
	})
	if err != nil {
		return nil, err
	}

	var anchor []byte
	if useAnchor {
		anchor, err = s.anchorFor(req.UploadID, upload.Data)
		if err != nil {
			// アンカー切り出しの失敗は生成を止めません。
			slog.WarnContext(ctx, "anchor crop failed; generating without anchor", "error", err)
			anchor = nil
		}
	}

	payload := assembler.Build(compiled.Prompt, upload.Data, upload.MIMEType, anchor, "image/jpeg")

	result, err := s.generator.Generate(ctx, adapters.GenerationRequest{
		Parts:       payload.Parts,
		Seed:        req.Generation.Seed,
		Temperature: req.Generation.Temperature,
		AspectRatio: req.Generation.AspectRatio,
		ImageSize:   req.Generation.ImageSize,
	})
	if err != nil {
		return nil, err
	}

	tokens := tierCfg.Tokens8K
	if req.IsPreview {
		tokens = tierCfg.PreviewTokens
	}

	generationID := uuid.NewString()
	outputRef := result.OutputRef
	if req.Sink != nil {
		ref, err := req.Sink(generationID, result.MIMEType, result.ImageData)
		if err != nil {
			return nil, fmt.Errorf("image sink: %w", err)
		}
		outputRef = ref
	}

	record := domain.GenerationRecord{
		GenerationID: generationID,
		UploadID:     req.UploadID,
		PromptUsed:   compiled.Prompt,
		ConfigUsed:   req.Generation,
		OutputRef:    outputRef,
		IsPreview:    req.IsPreview,
		TokensSpent:  tokens,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repos.SaveGeneration(ctx, record); err != nil {
		return nil, err
	}

	return &GenerateResult{
		GenerationID: record.GenerationID,
		ImageData:    result.ImageData,
		MIMEType:     result.MIMEType,
		Record:       record,
		Compile:      compiled,
	}, nil
}

// anchorFor はアップロードから DNA アンカーを切り出します。同一
// アップロードに対する並行要求は singleflight で1回に畳まれます。
func (s *Studio) anchorFor(uploadID string, data []byte) ([]byte, error) {
	v, err, _ := s.anchors.Do(uploadID, func() (any, error) {
		return s.normalizer.AnchorCrop(data, nil)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// BatchRequest はバッチ操作の入力です。
type BatchRequest struct {
	UploadID  string
	Tier      string
	Plan      domain.BatchPlan
	PresetID  string
	UseAnchor bool
	Sink      ImageSink
}

// BatchResult はバッチ操作の応答です。
type BatchResult struct {
	State   domain.BatchState      `json:"state"`
	Results []domain.VariantResult `json:"results"`
	Verdict domain.VisionVerdict   `json:"verdict"`
}

// Batch は解析からバリアント群の直列生成までを一括で実行します。
// 正規化・ビジョンの致命的失敗は ABORTED、それ以外は COMPLETED です。
func (s *Studio) Batch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	upload, found, err := s.repos.GetUpload(ctx, req.UploadID)
	if err != nil {
		return &BatchResult{State: domain.BatchAborted}, err
	}
	if !found {
		return &BatchResult{State: domain.BatchAborted},
			fmt.Errorf("%w: upload %q not found", domain.ErrInvalidImage, req.UploadID)
	}

	tierCfg, ok, err := s.rules.TierConfig(ctx, req.Tier)
	if err != nil {
		return &BatchResult{State: domain.BatchAborted}, err
	}
	if !ok {
		return &BatchResult{State: domain.BatchAborted},
			fmt.Errorf("%w: unknown tier %q", domain.ErrValidationFailure, req.Tier)
	}

	// 直近の判定を再利用し、なければここで分類します。
	verdict, haveVerdict, err := s.repos.LatestAnalysis(ctx, req.UploadID)
	if err != nil {
		return &BatchResult{State: domain.BatchAborted}, err
	}
	if !haveVerdict {
		verdict, err = s.vision.Analyze(ctx, upload.Thumbnail, "image/jpeg")
		if err != nil {
			return &BatchResult{State: domain.BatchAborted}, err
		}
		if _, err := s.repos.SaveAnalysis(ctx, req.UploadID, verdict); err != nil {
			return &BatchResult{State: domain.BatchAborted}, err
		}
	}

	baseCfg, flags, err := s.settings.Assemble(ctx, verdict)
	if err != nil {
		return &BatchResult{State: domain.BatchAborted}, err
	}

	plan := req.Plan
	if len(plan) == 0 {
		plan = domain.DefaultBatchPlan()
	}
	if len(plan) > tierCfg.BatchLimit {
		slog.InfoContext(ctx, "batch plan truncated to tier limit",
			"requested", len(plan), "limit", tierCfg.BatchLimit, "tier", req.Tier)
		plan = plan.Truncate(tierCfg.BatchLimit)
	}

	// PRESET バリアント用の保存済みパラメータ。
	var nano *domain.NanoParams
	var presetSliders domain.SliderConfig
	if req.PresetID != "" {
		preset, found, err := s.rules.LoadPreset(ctx, req.PresetID)
		if err != nil {
			return &BatchResult{State: domain.BatchAborted}, err
		}
		if found {
			nano = preset.NanoParams
			presetSliders = preset.Sliders
		} else {
			slog.WarnContext(ctx, "preset not found; preset variants fall back to auto settings", "preset_id", req.PresetID)
		}
	}

	submit := func(ctx context.Context, index int, variant domain.BatchVariant, genCfg domain.GenerationConfig) (string, error) {
		cfg := baseCfg.Clone()
		if variant.VariantType == domain.VariantPreset && presetSliders != nil {
			cfg.Merge(presetSliders)
		}
		if variant.Overrides != nil {
			cfg.Merge(variant.Overrides)
		}

		result, err := s.Generate(ctx, GenerateRequest{
			UploadID:   req.UploadID,
			Tier:       req.Tier,
			Config:     cfg,
			Flags:      flags,
			Verdict:    &verdict,
			UseAnchor:  req.UseAnchor,
			Generation: genCfg,
			Sink:       req.Sink,
		})
		if err != nil {
			return "", err
		}
		return result.GenerationID, nil
	}

	results, state, err := s.runner.Run(ctx, plan, nano, submit)
	return &BatchResult{State: state, Results: results, Verdict: verdict}, err
}
