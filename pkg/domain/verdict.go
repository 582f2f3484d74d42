package domain

import "fmt"

// FallbackCategoryCode はビジョン解析が失敗した際に採用する安全側の
// 分類コードです（ERROR_UNIDENTIFIED）。
const FallbackCategoryCode = "CAT21"

// FallbackSeverity はフォールバック判定の深刻度です。
const FallbackSeverity = 5

// VisionVerdict はビジョン LLM が返す構造化された分類結果です。
type VisionVerdict struct {
	CatCode         string   `json:"cat_code"`
	DetectedDefects []string `json:"detected_defects"`
	HasTextOrLogo   bool     `json:"has_text_or_logo"`
	SeverityScore   int      `json:"severity_score"` // 1..10
	HasPerson       bool     `json:"has_person"`
	VisualSummary   string   `json:"visual_summary"`
	Reasoning       string   `json:"reasoning"`

	// FacialMarks は保持すべき顔の特徴（ほくろ、傷跡など）の明示列挙です。
	FacialMarks []string `json:"facial_marks,omitempty"`

	// Fallback はビジョン呼び出しの失敗により安全側の既定値が
	// 採用されたことを示すメタフラグです。
	Fallback bool `json:"fallback,omitempty"`
}

// FallbackVerdict はビジョン失敗時の安全な既定判定を生成します。
func FallbackVerdict(reason string) VisionVerdict {
	return VisionVerdict{
		CatCode:         FallbackCategoryCode,
		DetectedDefects: []string{},
		SeverityScore:   FallbackSeverity,
		VisualSummary:   "unidentified subject",
		Reasoning:       fmt.Sprintf("fallback verdict: %s", reason),
		Fallback:        true,
	}
}

// ClampSeverity は深刻度を 1..10 の範囲へ丸めます。
func ClampSeverity(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// IdentityContext はアイデンティティロック解決に渡される値の束です。
type IdentityContext struct {
	HasFace                 bool
	FacialMarks             []string
	GeometricChangesEnabled bool
	RiskLevel               string
	HasDNAAnchor            bool
}

// IdentityLockLevel は保存制約ブロックの厳格度です。
type IdentityLockLevel string

const (
	IdentityLockNone     IdentityLockLevel = "NONE"
	IdentityLockRelaxed  IdentityLockLevel = "RELAXED"
	IdentityLockStandard IdentityLockLevel = "STANDARD"
	IdentityLockMaximum  IdentityLockLevel = "MAXIMUM"
)
