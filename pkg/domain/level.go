package domain

import (
	"fmt"
	"strings"
)

// Level はスライダーの5段階のシンボリックな強度です。
// ルール述語と指示テキストの参照はすべてこの5値を正とし、
// 整数 0..10 は境界での受け入れ表現にすぎません。
type Level int

const (
	LevelOff Level = iota
	LevelLow
	LevelMed
	LevelHigh
	// LevelForce は大文字の強制指示を表す最上位レベルです。
	// 整数表現は常に 10 です（移植元では 9 と 10 が混在していたため 10 に統一）。
	LevelForce
)

// levelNames は Level → 表示名の対応です。
var levelNames = map[Level]string{
	LevelOff:   "OFF",
	LevelLow:   "LOW",
	LevelMed:   "MED",
	LevelHigh:  "HIGH",
	LevelForce: "FORCE",
}

// levelInts は Level → 代表整数の対応です。往復変換のテストで使用します。
var levelInts = map[Level]int{
	LevelOff:   0,
	LevelLow:   2,
	LevelMed:   5,
	LevelHigh:  8,
	LevelForce: 10,
}

// String は Level の表示名（OFF/LOW/MED/HIGH/FORCE）を返します。
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Int は Level の代表整数（0, 2, 5, 8, 10）を返します。
func (l Level) Int() int {
	return levelInts[l]
}

// IsActive は OFF 以外かどうかを返します。
func (l Level) IsActive() bool {
	return l != LevelOff
}

// LevelFromInt は整数 0..10 を Level へ変換します。対応は全域かつ単調です:
// 0→OFF, 1–3→LOW, 4–6→MED, 7–9→HIGH, 10→FORCE。
// 範囲外は端へクランプします（負→OFF, 10超→FORCE）。
func LevelFromInt(v int) Level {
	switch {
	case v <= 0:
		return LevelOff
	case v <= 3:
		return LevelLow
	case v <= 6:
		return LevelMed
	case v <= 9:
		return LevelHigh
	default:
		return LevelForce
	}
}

// ParseLevel はシンボル名（大文字小文字を問わない）から Level を解釈します。
func ParseLevel(name string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "OFF":
		return LevelOff, true
	case "LOW":
		return LevelLow, true
	case "MED", "MEDIUM":
		return LevelMed, true
	case "HIGH":
		return LevelHigh, true
	case "FORCE", "MAX":
		return LevelForce, true
	}
	return LevelOff, false
}
