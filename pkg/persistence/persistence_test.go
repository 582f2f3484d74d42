package persistence

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

func openTestRepos(t *testing.T) *Repos {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("テスト用DBを開けません: %v", err)
	}
	repos := New(db)
	if err := repos.Migrate(); err != nil {
		t.Fatalf("マイグレーションに失敗: %v", err)
	}
	return repos
}

func TestUploads(t *testing.T) {
	repos := openTestRepos(t)
	ctx := context.Background()

	t.Run("保存と取得の往復", func(t *testing.T) {
		id, err := repos.SaveUpload(ctx, UploadRecord{
			UserID:   "user-1",
			Hash:     "abc123",
			MIMEType: "image/jpeg",
			Width:    800,
			Height:   600,
			ByteSize: 12345,
		})
		if err != nil {
			t.Fatalf("保存に失敗: %v", err)
		}
		if id == "" {
			t.Fatal("IDが採番されていません")
		}

		got, found, err := repos.GetUpload(ctx, id)
		if err != nil || !found {
			t.Fatalf("取得に失敗: found=%v err=%v", found, err)
		}
		if got.Hash != "abc123" || got.Width != 800 {
			t.Errorf("取得内容が不正です: %+v", got)
		}
	})

	t.Run("ハッシュで重複を検出できること", func(t *testing.T) {
		_, found, err := repos.FindUploadByHash(ctx, "user-1", "abc123")
		if err != nil || !found {
			t.Errorf("既存ハッシュが見つかりません: found=%v err=%v", found, err)
		}
		_, found, _ = repos.FindUploadByHash(ctx, "user-1", "nothere")
		if found {
			t.Error("存在しないハッシュが見つかっています")
		}
	})
}

func TestAnalyses(t *testing.T) {
	repos := openTestRepos(t)
	ctx := context.Background()

	verdict := domain.VisionVerdict{
		CatCode:       "CAT16",
		SeverityScore: 6,
		HasPerson:     true,
		VisualSummary: "a faded family portrait from the 1960s",
	}

	if _, err := repos.SaveAnalysis(ctx, "upload-1", verdict); err != nil {
		t.Fatalf("保存に失敗: %v", err)
	}

	got, found, err := repos.LatestAnalysis(ctx, "upload-1")
	if err != nil || !found {
		t.Fatalf("最新判定の取得に失敗: found=%v err=%v", found, err)
	}
	if got.CatCode != "CAT16" || !got.HasPerson {
		t.Errorf("判定が復元されていません: %+v", got)
	}

	t.Run("判定のないアップロードは found=false になること", func(t *testing.T) {
		if _, found, err := repos.LatestAnalysis(ctx, "upload-none"); err != nil || found {
			t.Errorf("found=%v err=%v", found, err)
		}
	})
}

func TestGenerations(t *testing.T) {
	repos := openTestRepos(t)
	ctx := context.Background()

	record := domain.GenerationRecord{
		UploadID:   "upload-1",
		PromptUsed: "=== SYSTEM OVERRIDE ===\n...",
		ConfigUsed: domain.GenerationConfig{
			Seed:        domain.ForensicSeed,
			Temperature: 0.1,
			Variant:     "FORENSIC",
		},
		OutputRef:   "outputs/xyz.jpg",
		TokensSpent: 3,
	}

	if err := repos.SaveGeneration(ctx, record); err != nil {
		t.Fatalf("保存に失敗: %v", err)
	}

	records, err := repos.ListGenerations(ctx, "upload-1")
	if err != nil {
		t.Fatalf("一覧取得に失敗: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("件数: 期待値 1, 実際の値 %d", len(records))
	}
	got := records[0]
	if got.GenerationID == "" {
		t.Error("IDが採番されていません")
	}
	if got.ConfigUsed.Seed != domain.ForensicSeed || got.ConfigUsed.Variant != "FORENSIC" {
		t.Errorf("生成パラメータが復元されていません: %+v", got.ConfigUsed)
	}
}
