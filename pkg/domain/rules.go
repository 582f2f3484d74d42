package domain

// SliderDefinition はスライダー1本の定義行です。実行時には不変で、
// ルールストアから一度だけ読み込まれます。
type SliderDefinition struct {
	SliderKey     SliderKey `json:"slider_key"`
	Pillar        Pillar    `json:"pillar"`
	UITitle       string    `json:"ui_title"`
	UIDescription string    `json:"ui_description"`

	// レベル別の指示テキスト。ブロックインジェクターはアクティブな
	// スライダーごとに該当レベルの1行だけを取り出します。
	InstructionOff   string `json:"instruction_off"`
	InstructionLow   string `json:"instruction_low"`
	InstructionMed   string `json:"instruction_med"`
	InstructionHigh  string `json:"instruction_high"`
	InstructionForce string `json:"instruction_force"`

	AutoDefault Level `json:"auto_default"`
}

// InstructionFor は指定レベルに対応する指示テキストを返します。
func (d SliderDefinition) InstructionFor(level Level) string {
	switch level {
	case LevelLow:
		return d.InstructionLow
	case LevelMed:
		return d.InstructionMed
	case LevelHigh:
		return d.InstructionHigh
	case LevelForce:
		return d.InstructionForce
	default:
		return d.InstructionOff
	}
}

// TaxonomyRule は被写体分類（CAT01..CAT21 の21カテゴリ）の1件です。
type TaxonomyRule struct {
	Code              string       `json:"code"`
	CategoryName      string       `json:"category_name"`
	Group             string       `json:"group"`
	VisualDescription string       `json:"visual_description"`
	Strategy          string       `json:"strategy"`
	SliderConfig      SliderConfig `json:"slider_config"`
}

// DiagnosisRule は画像欠陥診断（IN02..IN11 の10種）の1件です。
// 形状は TaxonomyRule と同一です。
type DiagnosisRule struct {
	Code              string       `json:"code"`
	CategoryName      string       `json:"category_name"`
	Group             string       `json:"group"`
	VisualDescription string       `json:"visual_description"`
	Strategy          string       `json:"strategy"`
	SliderConfig      SliderConfig `json:"slider_config"`
}

// Macro は NEGATIVE PROMPT や QUALITY GATES へ注入される再利用可能な
// 指示フラグメントです。
type Macro struct {
	Name    string `json:"name"`
	Section string `json:"section"` // 注入先セクション名
	Text    string `json:"text"`
	Ordinal int    `json:"ordinal"`
}

// TierConfig はユーザー層ごとの制限とトークン料率です。
type TierConfig struct {
	Tier           string `json:"tier"`
	BatchLimit     int    `json:"batch_limit"`
	PreviewTokens  int    `json:"preview_tokens"`
	RefineTokens   int    `json:"refine_tokens"`
	UnlockTokens   int    `json:"unlock_tokens"`
	Tokens8K       int    `json:"tokens_8k"`
	AllowPresets   bool   `json:"allow_presets"`
	AllowDNAAnchor bool   `json:"allow_dna_anchor"`
}

// Preset はユーザーが保存したスライダー構成と生成パラメータです。
type Preset struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Name         string         `json:"name"`
	Sliders      SliderConfig   `json:"sliders"`
	Anchors      []string       `json:"anchors"`
	NanoParams   *NanoParams    `json:"nano_params,omitempty"`
	ReferenceRef string         `json:"reference_ref,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// NanoParams はプリセットに保存される生成エンジン向けパラメータです。
type NanoParams struct {
	Seed        *int32   `json:"seed,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
	AspectRatio string   `json:"aspect_ratio,omitempty"`
	ImageSize   string   `json:"image_size,omitempty"`
}
