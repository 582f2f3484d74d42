package domain

import "testing"

func TestSliderKeyAliases(t *testing.T) {
	t.Run("27キーすべてで短縮⇔長形式が全単射であること", func(t *testing.T) {
		keys := AllSliderKeys()
		if len(keys) != 27 {
			t.Fatalf("キー総数が27ではありません: %d", len(keys))
		}

		seen := make(map[string]struct{})
		for _, key := range keys {
			short, ok := ShortCode(key)
			if !ok {
				t.Fatalf("キー %q に短縮コードがありません", key)
			}
			if _, dup := seen[short]; dup {
				t.Fatalf("短縮コード %q が重複しています", short)
			}
			seen[short] = struct{}{}

			back, ok := CanonicalKey(short)
			if !ok || back != key {
				t.Errorf("往復が一致しません: %q → %q → %q", key, short, back)
			}
		}
	})

	t.Run("長形式も境界で受け入れられること", func(t *testing.T) {
		key, ok := CanonicalKey("forensic_restoration")
		if !ok || key != SliderForensicRestoration {
			t.Errorf("長形式の正規化に失敗しました: %q", key)
		}
	})

	t.Run("未知のキーは拒否されること", func(t *testing.T) {
		if _, ok := CanonicalKey("p10"); ok {
			t.Error("p10 が受理されました")
		}
		if _, ok := CanonicalKey("mystery_slider"); ok {
			t.Error("未登録キーが受理されました")
		}
	})
}

func TestPillarAssignment(t *testing.T) {
	t.Run("各キーがちょうどひとつのピラーに属すること", func(t *testing.T) {
		counts := map[Pillar]int{}
		for _, key := range AllSliderKeys() {
			pillar, ok := PillarOf(key)
			if !ok {
				t.Fatalf("キー %q のピラーが未定義です", key)
			}
			counts[pillar]++
		}
		for _, p := range Pillars {
			if counts[p] != 9 {
				t.Errorf("ピラー %s のキー数が9ではありません: %d", p, counts[p])
			}
		}
	})

	t.Run("ピラー内の正規順序が短縮コード順であること", func(t *testing.T) {
		keys := PillarKeys(PillarLightscaler)
		if len(keys) != 9 {
			t.Fatalf("LIGHTSCALER のキー数が9ではありません: %d", len(keys))
		}
		if keys[0] != SliderExposureBalance || keys[5] != SliderDramaticContrast {
			t.Errorf("正規順序が期待と異なります: %v", keys)
		}
	})
}
