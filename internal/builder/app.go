package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-photoscaler-kit/internal/config"
	"github.com/shouni/go-photoscaler-kit/pkg/adapters"
	"github.com/shouni/go-photoscaler-kit/pkg/persistence"
	"github.com/shouni/go-photoscaler-kit/pkg/rulestore"
	"github.com/shouni/go-photoscaler-kit/pkg/studio"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各ランナーに渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config  *config.Config // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、モデル名など）。
	Options config.Options // Optionsは、コマンドラインから渡された実行時の設定です（層、入力パスなど）。
	Studio  *studio.Studio // Studioは、コンパイルと生成の全工程を束ねるファサードです。
	Rules   *rulestore.Store
	Repos   *persistence.Repos
}

// NewAppContext は依存グラフを組み立てて AppContext を返すのだ。
// ルールストアのウォームロードに失敗したら、ここで即座に落とすのだ。
func NewAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	store, err := rulestore.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("ルールストアを開けないのだ: %w", err)
	}
	if err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("ルール表のロードに失敗したのだ: %w", err)
	}

	repos := persistence.New(store.DB())
	if err := repos.Migrate(); err != nil {
		return nil, fmt.Errorf("台帳の準備に失敗したのだ: %w", err)
	}

	pool := adapters.NewKeyPool(cfg.GeminiAPIKeys)
	visionModel := adapters.NewGeminiVision(pool, cfg.VisionModel)
	generator := adapters.NewGeminiGenerator(pool, cfg.ImageModel)

	return &AppContext{
		Config:  cfg,
		Options: cfg.Options,
		Studio:  studio.New(store, repos, visionModel, generator),
		Rules:   store,
		Repos:   repos,
	}, nil
}
