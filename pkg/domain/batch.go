package domain

import "time"

// VariantType はバッチ内の1バリアントの構成元です。
type VariantType string

const (
	VariantAuto   VariantType = "AUTO"   // タクソノミー＋診断から導出
	VariantPreset VariantType = "PRESET" // 保存済みプリセットから導出
)

// VariantSubtype は AUTO バリアントの生成姿勢、または PRESET の ID です。
type VariantSubtype string

const (
	SubtypeForensic VariantSubtype = "FORENSIC"
	SubtypeBalanced VariantSubtype = "BALANCED"
	SubtypeCreative VariantSubtype = "CREATIVE"
)

// ForensicSeed は FORENSIC バリアントの決定論的シードです。
const ForensicSeed int32 = 42

// BatchVariant はバッチ計画の1要素です。
type BatchVariant struct {
	VariantType    VariantType    `json:"variant_type"`
	VariantSubtype VariantSubtype `json:"variant_subtype"`
	Overrides      SliderConfig   `json:"overrides,omitempty"`
}

// BatchPlan はひとつのリクエストが生成するバリアントの順序付きリストです。
type BatchPlan []BatchVariant

// DefaultBatchPlan は計画未指定時の既定（FORENSIC と CREATIVE の2枚）です。
func DefaultBatchPlan() BatchPlan {
	return BatchPlan{
		{VariantType: VariantAuto, VariantSubtype: SubtypeForensic},
		{VariantType: VariantAuto, VariantSubtype: SubtypeCreative},
	}
}

// Truncate は層の上限を超える計画を切り詰めます。拒否はしません。
func (p BatchPlan) Truncate(limit int) BatchPlan {
	if limit <= 0 || len(p) <= limit {
		return p
	}
	return p[:limit]
}

// BatchState はバッチの状態機械の状態です。
type BatchState string

const (
	BatchCreated   BatchState = "CREATED"
	BatchAnalyzing BatchState = "ANALYZING"
	BatchCompleted BatchState = "COMPLETED" // 全バリアント試行済み（部分失敗を含む）
	BatchAborted   BatchState = "ABORTED"   // ビジョン/正規化の致命的失敗
)

// VariantState はバリアント単体の状態です。
type VariantState string

const (
	VariantQueued  VariantState = "QUEUED"
	VariantRunning VariantState = "RUNNING"
	VariantDone    VariantState = "DONE"
	VariantFailed  VariantState = "FAILED"
	VariantSkipped VariantState = "SKIPPED" // キャンセルにより未投入
)

// GenerationConfig は1バリアントの投入時パラメータです。
type GenerationConfig struct {
	Seed        int32   `json:"seed"`
	Temperature float32 `json:"temperature"`
	Variant     string  `json:"variant"`
	AspectRatio string  `json:"aspect_ratio,omitempty"`
	ImageSize   string  `json:"image_size,omitempty"`
}

// GenerationRecord は1バリアントの生成結果の永続化レコードです。
type GenerationRecord struct {
	GenerationID string           `json:"generation_id"`
	UploadID     string           `json:"upload_id"`
	PromptUsed   string           `json:"prompt_used"`
	ConfigUsed   GenerationConfig `json:"config_used"`
	OutputRef    string           `json:"output_ref"`
	IsPreview    bool             `json:"is_preview"`
	TokensSpent  int              `json:"tokens_spent"`
	CreatedAt    time.Time        `json:"created_at"`
}

// VariantResult はバッチ応答に載せる1バリアント分の結果です。
type VariantResult struct {
	Index        int          `json:"index"`
	Variant      string       `json:"variant"`
	State        VariantState `json:"state"`
	Success      bool         `json:"success"`
	GenerationID string       `json:"generation_id,omitempty"`
	Error        string       `json:"error,omitempty"`
}
