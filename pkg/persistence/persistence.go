// Package persistence は、アップロード・分析・生成の追記専用レコードを
// gorm で永続化します。行は一度書いたら更新しません。訂正は新しい行の
// 追記で表現します。
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// UploadRecord は正規化済み入力画像1件の台帳です。
type UploadRecord struct {
	ID        string    `gorm:"primaryKey;column:id"`
	UserID    string    `gorm:"column:user_id;index"`
	Hash      string    `gorm:"column:hash;index"`
	MIMEType  string    `gorm:"column:mime_type"`
	Width     int       `gorm:"column:width"`
	Height    int       `gorm:"column:height"`
	ByteSize  int       `gorm:"column:byte_size"`
	IsAnchor  bool      `gorm:"column:is_anchor"`
	Data      []byte    `gorm:"column:data"`
	Thumbnail []byte    `gorm:"column:thumbnail"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (UploadRecord) TableName() string { return "uploads" }

// AnalysisRecord はビジョン判定1件の台帳です。判定本体は JSON で保持します。
type AnalysisRecord struct {
	ID          string    `gorm:"primaryKey;column:id"`
	UploadID    string    `gorm:"column:upload_id;index"`
	VerdictJSON string    `gorm:"column:verdict"`
	Fallback    bool      `gorm:"column:fallback"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (AnalysisRecord) TableName() string { return "analyses" }

// generationRow は domain.GenerationRecord の行表現です。
type generationRow struct {
	GenerationID string    `gorm:"primaryKey;column:generation_id"`
	UploadID     string    `gorm:"column:upload_id;index"`
	PromptUsed   string    `gorm:"column:prompt_used"`
	ConfigJSON   string    `gorm:"column:config_used"`
	OutputRef    string    `gorm:"column:output_ref"`
	IsPreview    bool      `gorm:"column:is_preview"`
	TokensSpent  int       `gorm:"column:tokens_spent"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (generationRow) TableName() string { return "generations" }

// Repos は追記専用テーブル群への書き込み面です。
type Repos struct {
	db *gorm.DB
}

// New は Repos を生成します。
func New(db *gorm.DB) *Repos {
	return &Repos{db: db}
}

// Migrate は台帳テーブルのスキーマを適用します。
func (r *Repos) Migrate() error {
	if err := r.db.AutoMigrate(&UploadRecord{}, &AnalysisRecord{}, &generationRow{}); err != nil {
		return fmt.Errorf("persistence migrate: %w", err)
	}
	return nil
}

// SaveUpload はアップロード台帳へ1行追記し、採番した ID を返します。
func (r *Repos) SaveUpload(ctx context.Context, record UploadRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.CreatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return record.ID, nil
}

// GetUpload は ID でアップロード行を引きます。
func (r *Repos) GetUpload(ctx context.Context, id string) (UploadRecord, bool, error) {
	var record UploadRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return UploadRecord{}, false, nil
	}
	if err != nil {
		return UploadRecord{}, false, fmt.Errorf("get upload %s: %w", id, err)
	}
	return record, true, nil
}

// FindUploadByHash は内容ハッシュの一致する既存行を引きます。
// 同一画像の重複アップロードの検出に使います。
func (r *Repos) FindUploadByHash(ctx context.Context, userID, hash string) (UploadRecord, bool, error) {
	var record UploadRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND hash = ?", userID, hash).
		Order("created_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return UploadRecord{}, false, nil
	}
	if err != nil {
		return UploadRecord{}, false, fmt.Errorf("find upload by hash: %w", err)
	}
	return record, true, nil
}

// SaveAnalysis はビジョン判定を追記し、採番した ID を返します。
func (r *Repos) SaveAnalysis(ctx context.Context, uploadID string, verdict domain.VisionVerdict) (string, error) {
	data, err := json.Marshal(verdict)
	if err != nil {
		return "", fmt.Errorf("encode verdict: %w", err)
	}
	record := AnalysisRecord{
		ID:          uuid.NewString(),
		UploadID:    uploadID,
		VerdictJSON: string(data),
		Fallback:    verdict.Fallback,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("save analysis: %w", err)
	}
	return record.ID, nil
}

// LatestAnalysis はアップロードに対する最新のビジョン判定を返します。
func (r *Repos) LatestAnalysis(ctx context.Context, uploadID string) (domain.VisionVerdict, bool, error) {
	var record AnalysisRecord
	err := r.db.WithContext(ctx).
		Where("upload_id = ?", uploadID).
		Order("created_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.VisionVerdict{}, false, nil
	}
	if err != nil {
		return domain.VisionVerdict{}, false, fmt.Errorf("latest analysis: %w", err)
	}

	var verdict domain.VisionVerdict
	if err := json.Unmarshal([]byte(record.VerdictJSON), &verdict); err != nil {
		return domain.VisionVerdict{}, false, fmt.Errorf("decode verdict: %w", err)
	}
	return verdict, true, nil
}

// SaveGeneration は生成結果の台帳へ1行追記します。
func (r *Repos) SaveGeneration(ctx context.Context, record domain.GenerationRecord) error {
	data, err := json.Marshal(record.ConfigUsed)
	if err != nil {
		return fmt.Errorf("encode generation config: %w", err)
	}
	row := generationRow{
		GenerationID: record.GenerationID,
		UploadID:     record.UploadID,
		PromptUsed:   record.PromptUsed,
		ConfigJSON:   string(data),
		OutputRef:    record.OutputRef,
		IsPreview:    record.IsPreview,
		TokensSpent:  record.TokensSpent,
		CreatedAt:    record.CreatedAt,
	}
	if row.GenerationID == "" {
		row.GenerationID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save generation: %w", err)
	}
	return nil
}

// ListGenerations はアップロードに紐づく生成履歴を新しい順で返します。
func (r *Repos) ListGenerations(ctx context.Context, uploadID string) ([]domain.GenerationRecord, error) {
	var rows []generationRow
	err := r.db.WithContext(ctx).
		Where("upload_id = ?", uploadID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}

	records := make([]domain.GenerationRecord, 0, len(rows))
	for _, row := range rows {
		var cfg domain.GenerationConfig
		if row.ConfigJSON != "" {
			if err := json.Unmarshal([]byte(row.ConfigJSON), &cfg); err != nil {
				return nil, fmt.Errorf("decode generation config: %w", err)
			}
		}
		records = append(records, domain.GenerationRecord{
			GenerationID: row.GenerationID,
			UploadID:     row.UploadID,
			PromptUsed:   row.PromptUsed,
			ConfigUsed:   cfg,
			OutputRef:    row.OutputRef,
			IsPreview:    row.IsPreview,
			TokensSpent:  row.TokensSpent,
			CreatedAt:    row.CreatedAt,
		})
	}
	return records, nil
}
