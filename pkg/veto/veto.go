// Package veto は、スライダー構成上の論理矛盾を解決する拒否権エンジンです。
// ルールは (名前, 述語, アクション) の宣言的なテーブルとして保持し、
// 1回の前方スイープで適用します。エンジンは冪等です。
package veto

import (
	"context"
	"log/slog"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// Action はルール成立時に特定スライダーへ強制されるレベルです。
type Action struct {
	SliderKey   domain.SliderKey
	ForcedLevel domain.Level
	Reason      string
}

// Rule は拒否権ルール1件です。述語は SliderConfig 上の純粋関数であり、
// 各ルールは先行ルールの適用結果を見ます。
type Rule struct {
	Name    string
	Trigger func(domain.SliderConfig) bool
	Actions []Action
}

// Application は適用されたアクション1件の記録です。デバッグ出力と
// 観測ログの両方に使われます。
type Application struct {
	Rule     string       `json:"rule"`
	Slider   string       `json:"slider"`
	Original domain.Level `json:"original"`
	Forced   domain.Level `json:"forced"`
	Reason   string       `json:"reason"`
}

// Rules は正規の拒否権ルールセットです。順序に意味があります。
// ルール名はデバッグ出力の公開面であり、プロンプトバージョンを
// 上げずに改名してはいけません。
func Rules() []Rule {
	return []Rule{
		{
			Name: "Forensic Paradox",
			Trigger: func(c domain.SliderConfig) bool {
				return c.Get(domain.SliderForensicRestoration) == domain.LevelForce
			},
			Actions: []Action{
				{domain.SliderFilmGrain, domain.LevelOff, "forensic restoration demands a clean signal; synthetic grain would contaminate the evidence"},
				{domain.SliderMicroSharpness, domain.LevelForce, "forensic restoration requires maximum edge definition"},
			},
		},
		{
			Name: "Tyranny of Drama",
			Trigger: func(c domain.SliderConfig) bool {
				return c.Get(domain.SliderDramaticContrast) == domain.LevelForce
			},
			Actions: []Action{
				{domain.SliderFillLight, domain.LevelOff, "forced contrast owns the shadows; fill light would flatten the drama"},
			},
		},
		{
			Name: "Geometry vs Reframe",
			Trigger: func(c domain.SliderConfig) bool {
				return c.Get(domain.SliderGeometryCorrection) == domain.LevelForce &&
					c.Get(domain.SliderSmartReframe) == domain.LevelForce
			},
			Actions: []Action{
				{domain.SliderSmartReframe, domain.LevelOff, "forced geometry correction and forced reframing fight over the canvas; geometry wins"},
			},
		},
		{
			Name: "Clarity vs Atmosphere",
			Trigger: func(c domain.SliderConfig) bool {
				return c.Get(domain.SliderClarityBoost) >= domain.LevelHigh &&
					c.Get(domain.SliderAtmosphereDepth) >= domain.LevelHigh
			},
			Actions: []Action{
				{domain.SliderAtmosphereDepth, domain.LevelMed, "high clarity dissolves haze; atmosphere is capped to keep both readable"},
			},
		},
		{
			Name: "Synthetic Skin kills Grain",
			Trigger: func(c domain.SliderConfig) bool {
				return c.Get(domain.SliderSkinRefinement) == domain.LevelForce
			},
			Actions: []Action{
				{domain.SliderFilmGrain, domain.LevelOff, "fully synthetic skin cannot carry photographic grain without looking pasted"},
			},
		},
		{
			Name: "Chronos dampens Volumetrics",
			Trigger: func(c domain.SliderConfig) bool {
				return c.Get(domain.SliderEraRestoration) == domain.LevelForce
			},
			Actions: []Action{
				{domain.SliderVolumetricLight, domain.LevelLow, "era-faithful restoration tolerates only subtle volumetric effects"},
			},
		},
	}
}

// Engine は拒否権ルールの適用器です。
type Engine struct {
	rules []Rule
}

// NewEngine は正規ルールセットを持つエンジンを生成します。
func NewEngine() *Engine {
	return &Engine{rules: Rules()}
}

// NewEngineWithRules はテストや将来のルール差し替えのための注入口です。
func NewEngineWithRules(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Apply は構成のコピーに対して全ルールを順に1回だけ適用し、
// 解決済み構成と適用記録を返します。入力は変更しません。
//
// 先行アクションが OFF へ強制したキーを、後続アクションが非 OFF へ
// 蘇生させることはありません（OFF 強制は最終決定）。
func (e *Engine) Apply(ctx context.Context, cfg domain.SliderConfig) (domain.SliderConfig, []Application) {
	resolved := cfg.Clone()
	applied := make([]Application, 0)
	vetoedOff := make(map[domain.SliderKey]struct{})

	for _, rule := range e.rules {
		if !rule.Trigger(resolved) {
			continue
		}
		for _, action := range rule.Actions {
			if _, locked := vetoedOff[action.SliderKey]; locked && action.ForcedLevel != domain.LevelOff {
				slog.DebugContext(ctx, "veto action skipped: key already forced OFF",
					"rule", rule.Name, "slider", action.SliderKey)
				continue
			}

			original := resolved.Get(action.SliderKey)
			if original == action.ForcedLevel {
				continue
			}

			resolved.Set(action.SliderKey, action.ForcedLevel)
			if action.ForcedLevel == domain.LevelOff {
				vetoedOff[action.SliderKey] = struct{}{}
			}

			short, _ := domain.ShortCode(action.SliderKey)
			app := Application{
				Rule:     rule.Name,
				Slider:   short,
				Original: original,
				Forced:   action.ForcedLevel,
				Reason:   action.Reason,
			}
			applied = append(applied, app)

			slog.InfoContext(ctx, "veto applied",
				"rule", app.Rule,
				"slider", app.Slider,
				"original", app.Original.String(),
				"forced", app.Forced.String(),
				"reason", app.Reason)
		}
	}

	return resolved, applied
}
