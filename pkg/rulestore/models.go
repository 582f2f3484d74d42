package rulestore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// sliderDefinitionRow はスライダー定義テーブルの1行です。
type sliderDefinitionRow struct {
	SliderKey        string `gorm:"primaryKey;column:slider_key"`
	Pillar           string `gorm:"column:pillar;index"`
	UITitle          string `gorm:"column:ui_title"`
	UIDescription    string `gorm:"column:ui_description"`
	InstructionOff   string `gorm:"column:instruction_off"`
	InstructionLow   string `gorm:"column:instruction_low"`
	InstructionMed   string `gorm:"column:instruction_med"`
	InstructionHigh  string `gorm:"column:instruction_high"`
	InstructionForce string `gorm:"column:instruction_force"`
	AutoDefault      string `gorm:"column:auto_default"`
}

func (sliderDefinitionRow) TableName() string { return "slider_definitions" }

func (r sliderDefinitionRow) toDomain() (domain.SliderDefinition, error) {
	key, ok := domain.CanonicalKey(r.SliderKey)
	if !ok {
		return domain.SliderDefinition{}, fmt.Errorf("unknown slider key in row: %q", r.SliderKey)
	}
	pillar, ok := domain.PillarOf(key)
	if !ok {
		return domain.SliderDefinition{}, fmt.Errorf("slider key without pillar: %q", r.SliderKey)
	}
	level, _ := domain.ParseLevel(r.AutoDefault)
	return domain.SliderDefinition{
		SliderKey:        key,
		Pillar:           pillar,
		UITitle:          r.UITitle,
		UIDescription:    r.UIDescription,
		InstructionOff:   r.InstructionOff,
		InstructionLow:   r.InstructionLow,
		InstructionMed:   r.InstructionMed,
		InstructionHigh:  r.InstructionHigh,
		InstructionForce: r.InstructionForce,
		AutoDefault:      level,
	}, nil
}

// RuleRow はタクソノミーと診断で共用する行形状です。スライダー構成は
// 「短縮コード → レベル名」の JSON で保持し、読み出し時に正規化します。
type RuleRow struct {
	Code              string `gorm:"primaryKey;column:code"`
	CategoryName      string `gorm:"column:category_name"`
	RuleGroup         string `gorm:"column:rule_group"`
	VisualDescription string `gorm:"column:visual_description"`
	Strategy          string `gorm:"column:strategy"`
	SliderConfigJSON  string `gorm:"column:slider_config"`
}

type taxonomyRow struct {
	RuleRow `gorm:"embedded"`
}

func (taxonomyRow) TableName() string { return "taxonomy_rules" }

type diagnosisRow struct {
	RuleRow `gorm:"embedded"`
}

func (diagnosisRow) TableName() string { return "diagnosis_rules" }

func (r RuleRow) decodeConfig() (domain.SliderConfig, error) {
	if r.SliderConfigJSON == "" {
		return make(domain.SliderConfig), nil
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(r.SliderConfigJSON), &raw); err != nil {
		return nil, fmt.Errorf("rule %s: slider_config decode: %w", r.Code, err)
	}
	cfg, issues := domain.ParseSliderConfig(raw)
	if len(issues) > 0 {
		return nil, fmt.Errorf("rule %s: invalid slider_config: %v", r.Code, issues)
	}
	return cfg, nil
}

// encodeConfig はシードデータの書き込みで使う対になる変換です。
func encodeConfig(cfg domain.SliderConfig) string {
	raw := make(map[string]string, len(cfg))
	for key, level := range cfg {
		short, ok := domain.ShortCode(key)
		if !ok {
			continue
		}
		raw[short] = level.String()
	}
	data, _ := json.Marshal(raw)
	return string(data)
}

// macroRow は再利用可能な指示フラグメントの1行です。
type macroRow struct {
	Name    string `gorm:"primaryKey;column:name"`
	Section string `gorm:"column:section;index"`
	Text    string `gorm:"column:text"`
	Ordinal int    `gorm:"column:ordinal"`
}

func (macroRow) TableName() string { return "macros" }

// tierRow はユーザー層設定の1行です。
type tierRow struct {
	Tier           string `gorm:"primaryKey;column:tier"`
	BatchLimit     int    `gorm:"column:batch_limit"`
	PreviewTokens  int    `gorm:"column:preview_tokens"`
	RefineTokens   int    `gorm:"column:refine_tokens"`
	UnlockTokens   int    `gorm:"column:unlock_tokens"`
	Tokens8K       int    `gorm:"column:tokens_8k"`
	AllowPresets   bool   `gorm:"column:allow_presets"`
	AllowDNAAnchor bool   `gorm:"column:allow_dna_anchor"`
}

func (tierRow) TableName() string { return "tier_configs" }

func (r tierRow) toDomain() domain.TierConfig {
	return domain.TierConfig{
		Tier:           r.Tier,
		BatchLimit:     r.BatchLimit,
		PreviewTokens:  r.PreviewTokens,
		RefineTokens:   r.RefineTokens,
		UnlockTokens:   r.UnlockTokens,
		Tokens8K:       r.Tokens8K,
		AllowPresets:   r.AllowPresets,
		AllowDNAAnchor: r.AllowDNAAnchor,
	}
}

// presetRow はユーザー保存プリセットの1行です。
type presetRow struct {
	ID           string    `gorm:"primaryKey;column:id"`
	UserID       string    `gorm:"column:user_id;index"`
	Name         string    `gorm:"column:name"`
	SlidersJSON  string    `gorm:"column:sliders"`
	AnchorsJSON  string    `gorm:"column:anchors"`
	NanoParams   string    `gorm:"column:nano_params"`
	ReferenceRef string    `gorm:"column:reference_ref"`
	MetadataJSON string    `gorm:"column:metadata"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (presetRow) TableName() string { return "presets" }

func (r presetRow) toDomain() (domain.Preset, error) {
	preset := domain.Preset{
		ID:           r.ID,
		UserID:       r.UserID,
		Name:         r.Name,
		ReferenceRef: r.ReferenceRef,
	}

	if r.SlidersJSON != "" {
		var raw map[string]any
		if err := json.Unmarshal([]byte(r.SlidersJSON), &raw); err != nil {
			return domain.Preset{}, fmt.Errorf("preset %s: sliders decode: %w", r.ID, err)
		}
		cfg, issues := domain.ParseSliderConfig(raw)
		if len(issues) > 0 {
			return domain.Preset{}, fmt.Errorf("preset %s: invalid sliders: %v", r.ID, issues)
		}
		preset.Sliders = cfg
	}

	if r.AnchorsJSON != "" {
		if err := json.Unmarshal([]byte(r.AnchorsJSON), &preset.Anchors); err != nil {
			return domain.Preset{}, fmt.Errorf("preset %s: anchors decode: %w", r.ID, err)
		}
	}

	if r.NanoParams != "" {
		var params domain.NanoParams
		if err := json.Unmarshal([]byte(r.NanoParams), &params); err != nil {
			return domain.Preset{}, fmt.Errorf("preset %s: nano_params decode: %w", r.ID, err)
		}
		preset.NanoParams = &params
	}

	if r.MetadataJSON != "" {
		if err := json.Unmarshal([]byte(r.MetadataJSON), &preset.Metadata); err != nil {
			return domain.Preset{}, fmt.Errorf("preset %s: metadata decode: %w", r.ID, err)
		}
	}

	return preset, nil
}

// presetRowFrom は保存時の対になる変換です。
func presetRowFrom(p domain.Preset) (presetRow, error) {
	row := presetRow{
		ID:           p.ID,
		UserID:       p.UserID,
		Name:         p.Name,
		ReferenceRef: p.ReferenceRef,
		SlidersJSON:  encodeConfig(p.Sliders),
	}

	if len(p.Anchors) > 0 {
		data, err := json.Marshal(p.Anchors)
		if err != nil {
			return presetRow{}, fmt.Errorf("preset %s: anchors encode: %w", p.ID, err)
		}
		row.AnchorsJSON = string(data)
	}

	if p.NanoParams != nil {
		data, err := json.Marshal(p.NanoParams)
		if err != nil {
			return presetRow{}, fmt.Errorf("preset %s: nano_params encode: %w", p.ID, err)
		}
		row.NanoParams = string(data)
	}

	if len(p.Metadata) > 0 {
		data, err := json.Marshal(p.Metadata)
		if err != nil {
			return presetRow{}, fmt.Errorf("preset %s: metadata encode: %w", p.ID, err)
		}
		row.MetadataJSON = string(data)
	}

	return row, nil
}
