// Package identity は、アイデンティティ保存制約ブロックを導出します。
// 厳格度は拒否権適用後のスライダー構成と顔の有無からの純粋関数であり、
// 保存も設定もされません。
package identity

import (
	"fmt"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// Lock はロック解決の結果です。Block はマスタープロンプトの
// IDENTITY LOCK セクションへそのまま注入されます。
type Lock struct {
	Level   domain.IdentityLockLevel
	Context domain.IdentityContext
	Block   []string
}

// Resolve は拒否権適用後の構成と判定からロックを計算します。
// SliderConfig を変更することはありません。
//
// 判定の優先順位:
//  1. 顔なし → NONE（捏造のみ禁じる短いブロック）
//  2. p6 ≥ HIGH または p1 ≥ HIGH → RELAXED
//  3. p2 > OFF または s6 > OFF → STANDARD
//  4. それ以外 → MAXIMUM（顔は読み取り専用）
func Resolve(cfg domain.SliderConfig, verdict domain.VisionVerdict, hasDNAAnchor bool) Lock {
	ictx := domain.IdentityContext{
		HasFace:                 verdict.HasPerson,
		FacialMarks:             verdict.FacialMarks,
		GeometricChangesEnabled: cfg.Get(domain.SliderGeometryCorrection).IsActive() || cfg.Get(domain.SliderSmartReframe).IsActive(),
		HasDNAAnchor:            hasDNAAnchor,
	}

	level := resolveLevel(cfg, verdict)
	ictx.RiskLevel = string(level)

	return Lock{
		Level:   level,
		Context: ictx,
		Block:   buildBlock(level, ictx),
	}
}

func resolveLevel(cfg domain.SliderConfig, verdict domain.VisionVerdict) domain.IdentityLockLevel {
	if !verdict.HasPerson {
		return domain.IdentityLockNone
	}
	if cfg.Get(domain.SliderGenerativeSynthesis) >= domain.LevelHigh ||
		cfg.Get(domain.SliderForensicRestoration) >= domain.LevelHigh {
		return domain.IdentityLockRelaxed
	}
	if cfg.Get(domain.SliderGeometryCorrection).IsActive() ||
		cfg.Get(domain.SliderSmartReframe).IsActive() {
		return domain.IdentityLockStandard
	}
	return domain.IdentityLockMaximum
}

// buildBlock は許可・禁止される編集を平文で列挙するブロックを組み立てます。
func buildBlock(level domain.IdentityLockLevel, ictx domain.IdentityContext) []string {
	lines := []string{fmt.Sprintf("Preservation level: %s.", level)}

	switch level {
	case domain.IdentityLockNone:
		lines = append(lines,
			"No human face was detected in this image.",
			"Forbidden: inventing people, faces, or readable personal details that are not present in the source.")

	case domain.IdentityLockRelaxed:
		lines = append(lines,
			"A person is present and heavy reconstruction is authorized.",
			"Allowed: rebuilding damaged or missing facial regions, plausible detail synthesis, era-appropriate reconstruction.",
			"Forbidden: changing the apparent identity, age, ethnicity, or bone structure of the subject.",
			"The reconstructed face must remain recognisable as the same individual.")

	case domain.IdentityLockStandard:
		lines = append(lines,
			"A person is present and structural edits (geometry, reframing) are enabled.",
			"Allowed: perspective correction, recomposition, crop changes, lighting adjustments around the subject.",
			"Forbidden: altering facial proportions, expressions, skin tone, or distinguishing features.",
			"Structural edits are allowed but identity must remain immediately recognisable.")

	case domain.IdentityLockMaximum:
		lines = append(lines,
			"A person is present. The face is READ-ONLY.",
			"Allowed: pixel-level enhancements only — denoising, sharpening, colour correction, exposure.",
			"Forbidden: any change to facial geometry, features, expression, skin texture character, age, or identity.")
	}

	if len(ictx.FacialMarks) > 0 {
		lines = append(lines, "Preserve these specific marks exactly as they appear:")
		for _, mark := range ictx.FacialMarks {
			lines = append(lines, fmt.Sprintf("  * %s", mark))
		}
	}

	if ictx.HasDNAAnchor && level != domain.IdentityLockNone {
		lines = append(lines,
			"A facial reference crop is attached to this request. Treat that crop as the absolute biometric ground truth: every facial detail in the output must match it.")
	}

	return lines
}
