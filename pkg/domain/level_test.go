package domain

import "testing"

func TestLevelFromInt(t *testing.T) {
	t.Run("0..10の対応が仕様どおりであること", func(t *testing.T) {
		expected := map[int]Level{
			0: LevelOff,
			1: LevelLow, 2: LevelLow, 3: LevelLow,
			4: LevelMed, 5: LevelMed, 6: LevelMed,
			7: LevelHigh, 8: LevelHigh, 9: LevelHigh,
			10: LevelForce,
		}
		for v, want := range expected {
			if got := LevelFromInt(v); got != want {
				t.Errorf("LevelFromInt(%d): 期待値 %s, 実際の値 %s", v, want, got)
			}
		}
	})

	t.Run("対応が単調であること", func(t *testing.T) {
		prev := LevelFromInt(0)
		for v := 1; v <= 10; v++ {
			cur := LevelFromInt(v)
			if cur < prev {
				t.Errorf("単調性が崩れています: LevelFromInt(%d)=%s < LevelFromInt(%d)=%s", v, cur, v-1, prev)
			}
			prev = cur
		}
	})

	t.Run("範囲外は端へクランプされること", func(t *testing.T) {
		if got := LevelFromInt(-5); got != LevelOff {
			t.Errorf("負の値は OFF にクランプされるべきですが %s でした", got)
		}
		if got := LevelFromInt(99); got != LevelForce {
			t.Errorf("10超は FORCE にクランプされるべきですが %s でした", got)
		}
	})
}

func TestLevelRoundTrip(t *testing.T) {
	// Level ↔ 代表整数 {OFF:0, LOW:2, MED:5, HIGH:8, FORCE:10} の往復
	for _, level := range []Level{LevelOff, LevelLow, LevelMed, LevelHigh, LevelForce} {
		if got := LevelFromInt(level.Int()); got != level {
			t.Errorf("%s の往復が一致しません: Int()=%d → %s", level, level.Int(), got)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"off":   LevelOff,
		"LOW":   LevelLow,
		"Med":   LevelMed,
		"high":  LevelHigh,
		"FORCE": LevelForce,
	}
	for name, want := range cases {
		got, ok := ParseLevel(name)
		if !ok || got != want {
			t.Errorf("ParseLevel(%q): 期待値 %s, 実際の値 %s (ok=%v)", name, want, got, ok)
		}
	}

	if _, ok := ParseLevel("ULTRA"); ok {
		t.Error("未知のレベル名が受理されました")
	}
}
