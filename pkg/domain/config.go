package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// SliderConfig はスライダーキー → Level の写像です。
// キーが存在しないことは OFF と等価です。キーは常に長形式で保持します。
type SliderConfig map[SliderKey]Level

// ConfigFlags は自動設定の過程で立つ少数のメタフラグです。
type ConfigFlags struct {
	ForceReimagine bool `json:"force_reimagine"` // severity_score > 7 で生成的再構築を強制
	OCRLock        bool `json:"ocr_lock"`        // 文字・ロゴ検出時の判読性ロック
}

// Get は指定キーの Level を返します。未設定キーは OFF です。
func (c SliderConfig) Get(key SliderKey) Level {
	return c[key]
}

// Set は Level を設定します。OFF の明示設定も保持します（veto の痕跡を残すため）。
func (c SliderConfig) Set(key SliderKey, level Level) {
	c[key] = level
}

// Clone は防御的コピーを返します。
func (c SliderConfig) Clone() SliderConfig {
	copied := make(SliderConfig, len(c))
	for k, v := range c {
		copied[k] = v
	}
	return copied
}

// Merge は other の各エントリを c へ上書きコピーします（後勝ち）。
func (c SliderConfig) Merge(other SliderConfig) {
	for k, v := range other {
		c[k] = v
	}
}

// ActiveKeys は OFF でないキーを正規順序で返します。
func (c SliderConfig) ActiveKeys() []SliderKey {
	keys := make([]SliderKey, 0, len(c))
	for _, key := range AllSliderKeys() {
		if c[key].IsActive() {
			keys = append(keys, key)
		}
	}
	return keys
}

// ForceKeys は FORCE のキーを正規順序で返します。
func (c SliderConfig) ForceKeys() []SliderKey {
	keys := make([]SliderKey, 0, len(c))
	for _, key := range AllSliderKeys() {
		if c[key] == LevelForce {
			keys = append(keys, key)
		}
	}
	return keys
}

// IsEmpty は有効な（OFF でない）スライダーがひとつもないことを表します。
func (c SliderConfig) IsEmpty() bool {
	for _, v := range c {
		if v.IsActive() {
			return false
		}
	}
	return true
}

// String はデバッグ用の短縮コード表現（例: "p1=FORCE p7=HIGH"）を返します。
func (c SliderConfig) String() string {
	parts := make([]string, 0, len(c))
	for _, key := range c.ActiveKeys() {
		short, _ := ShortCode(key)
		parts = append(parts, fmt.Sprintf("%s=%s", short, c[key]))
	}
	sort.Strings(parts)
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

// ParseSliderConfig は API 境界の生マップ（短縮・長形式キー混在、値は
// 整数・浮動小数・シンボル名のいずれか）を正規化された SliderConfig へ
// 変換します。未知のキーは黙って捨てず、issues として報告します。
// 整数は 0..10 へクランプ、非整数の数値は検証エラーとして報告します。
func ParseSliderConfig(raw map[string]any) (SliderConfig, []string) {
	cfg := make(SliderConfig, len(raw))
	issues := make([]string, 0)

	// マップの反復順序は不定なので、報告順を安定させるためにキーを整列します。
	rawKeys := make([]string, 0, len(raw))
	for k := range raw {
		rawKeys = append(rawKeys, k)
	}
	sort.Strings(rawKeys)

	for _, rawKey := range rawKeys {
		key, ok := CanonicalKey(rawKey)
		if !ok {
			issues = append(issues, fmt.Sprintf("unknown slider key: %q", rawKey))
			continue
		}

		level, err := coerceLevel(raw[rawKey])
		if err != nil {
			issues = append(issues, fmt.Sprintf("slider %q: %v", rawKey, err))
			continue
		}
		cfg[key] = level
	}

	return cfg, issues
}

// coerceLevel は境界で受け取った値を Level へ変換する内部ヘルパーです。
func coerceLevel(v any) (Level, error) {
	switch value := v.(type) {
	case int:
		return LevelFromInt(value), nil
	case int64:
		return LevelFromInt(int(value)), nil
	case float64:
		// JSON 経由の数値は float64 で届きます。整数値のみ受け入れます。
		if value != math.Trunc(value) {
			return LevelOff, fmt.Errorf("non-integer level value %v", value)
		}
		return LevelFromInt(int(value)), nil
	case json.Number:
		n, err := value.Int64()
		if err != nil {
			return LevelOff, fmt.Errorf("non-integer level value %q", value.String())
		}
		return LevelFromInt(int(n)), nil
	case string:
		if level, ok := ParseLevel(value); ok {
			return level, nil
		}
		return LevelOff, fmt.Errorf("unrecognised level name %q", value)
	case Level:
		return value, nil
	default:
		return LevelOff, fmt.Errorf("unsupported level type %T", v)
	}
}
