// Package studio は、画像強化プロンプトのコンパイルと生成の全工程を
// ひとつの内向き契約にまとめるファサードです。CLI も将来のサーバーも
// この面だけを呼びます。
package studio

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/shouni/go-photoscaler-kit/pkg/adapters"
	"github.com/shouni/go-photoscaler-kit/pkg/batch"
	"github.com/shouni/go-photoscaler-kit/pkg/domain"
	"github.com/shouni/go-photoscaler-kit/pkg/normalizer"
	"github.com/shouni/go-photoscaler-kit/pkg/persistence"
	"github.com/shouni/go-photoscaler-kit/pkg/rulestore"
	"github.com/shouni/go-photoscaler-kit/pkg/sanitizer"
	"github.com/shouni/go-photoscaler-kit/pkg/settings"
	"github.com/shouni/go-photoscaler-kit/pkg/veto"
	"github.com/shouni/go-photoscaler-kit/pkg/vision"
)

// Studio は全コンポーネントを束ねる実行体です。
type Studio struct {
	normalizer *normalizer.Normalizer
	vision     *vision.Orchestrator
	settings   *settings.Assembler
	vetoes     *veto.Engine
	sanitizer  *sanitizer.Sanitizer
	rules      *rulestore.Store
	repos      *persistence.Repos
	generator  adapters.ImageGenerator
	runner     *batch.Runner

	// anchors は同一アップロードへの並行アンカー切り出しを1回に
	// 畳みます。
	anchors singleflight.Group
}

// New は Studio を組み立てます。
func New(rules *rulestore.Store, repos *persistence.Repos, model adapters.VisionModel, generator adapters.ImageGenerator) *Studio {
	return &Studio{
		normalizer: normalizer.New(),
		vision:     vision.NewOrchestrator(model, rules),
		settings:   settings.NewAssembler(rules),
		vetoes:     veto.NewEngine(),
		sanitizer:  sanitizer.New(),
		rules:      rules,
		repos:      repos,
		generator:  generator,
		runner:     batch.NewRunner(),
	}
}

// AnalyzeRequest は analyze 操作の入力です。ImageData が与えられれば
// そのまま使い、なければ ImageRef（data URL / http URL）を解決します。
type AnalyzeRequest struct {
	ImageRef  string
	ImageData []byte
	UserID    string
	Tier      string
}

// AnalyzeResult は analyze 操作の応答です。
type AnalyzeResult struct {
	UploadID        string               `json:"upload_id"`
	AnalysisID      string               `json:"analysis_id"`
	Verdict         domain.VisionVerdict `json:"verdict"`
	SuggestedConfig domain.SliderConfig  `json:"suggested_config"`
	Flags           domain.ConfigFlags   `json:"flags"`
	Hash            string               `json:"hash"`
	TierMode        string               `json:"tier_mode"`
}

// Analyze は入力画像を正規化・台帳記録し、ビジョン分類から推奨
// スライダー構成を導出します。正規化の失敗だけが致命的です。
func (s *Studio) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	data := req.ImageData
	if len(data) == 0 {
		resolved, err := s.normalizer.Resolve(ctx, req.ImageRef)
		if err != nil {
			return nil, err
		}
		data = resolved
	}

	norm, err := s.normalizer.Normalize(ctx, data)
	if err != nil {
		return nil, err
	}

	uploadID, err := s.repos.SaveUpload(ctx, persistence.UploadRecord{
		UserID:    req.UserID,
		Hash:      norm.Hash,
		MIMEType:  norm.MIMEType,
		Width:     norm.Width,
		Height:    norm.Height,
		ByteSize:  len(norm.Data),
		Data:      norm.Data,
		Thumbnail: norm.Thumbnail,
	})
	if err != nil {
		return nil, err
	}

	verdict, err := s.vision.Analyze(ctx, norm.Thumbnail, norm.MIMEType)
	if err != nil {
		// ルールストアが読めない場合のみここへ来ます。
		return nil, err
	}

	analysisID, err := s.repos.SaveAnalysis(ctx, uploadID, verdict)
	if err != nil {
		return nil, err
	}

	cfg, flags, err := s.settings.Assemble(ctx, verdict)
	if err != nil {
		return nil, err
	}

	return &AnalyzeResult{
		UploadID:        uploadID,
		AnalysisID:      analysisID,
		Verdict:         verdict,
		SuggestedConfig: cfg,
		Flags:           flags,
		Hash:            norm.Hash,
		TierMode:        req.Tier,
	}, nil
}

// SavePreset はプリセット保存を層の許可で保護して永続化します。
func (s *Studio) SavePreset(ctx context.Context, tier string, preset domain.Preset) (string, error) {
	tierCfg, ok, err := s.rules.TierConfig(ctx, tier)
	if err != nil {
		return "", err
	}
	if !ok || !tierCfg.AllowPresets {
		return "", fmt.Errorf("%w: tier %q may not save presets", domain.ErrValidationFailure, tier)
	}

	if preset.ID == "" {
		preset.ID = uuid.NewString()
	}
	if err := s.rules.SavePreset(ctx, preset); err != nil {
		return "", err
	}
	return preset.ID, nil
}
