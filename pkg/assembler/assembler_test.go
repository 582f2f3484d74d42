package assembler

import (
	"strings"
	"testing"
)

func TestBuild(t *testing.T) {
	prompt := strings.Repeat("enhance ", 100) // 800文字 → 200トークン
	main := []byte{0xFF, 0xD8, 0xFF}
	anchor := []byte{0xFF, 0xD8, 0xFE}

	t.Run("アンカーなしは [テキスト, メイン画像] の2パートであること", func(t *testing.T) {
		payload := Build(prompt, main, "image/jpeg", nil, "")

		if len(payload.Parts) != 2 {
			t.Fatalf("パート数: 期待値 2, 実際の値 %d", len(payload.Parts))
		}
		if payload.Parts[0].Kind != PartText || payload.Parts[1].Kind != PartImage {
			t.Errorf("パートの順序が不正です: %+v", payload.Parts)
		}
		if payload.HasAnchor() {
			t.Error("アンカーなしなのに HasAnchor が真です")
		}
	})

	t.Run("アンカーありは [アンカー画像, 誘導テキスト] が後置されること", func(t *testing.T) {
		payload := Build(prompt, main, "image/jpeg", anchor, "image/jpeg")

		if len(payload.Parts) != 4 {
			t.Fatalf("パート数: 期待値 4, 実際の値 %d", len(payload.Parts))
		}
		if payload.Parts[2].Kind != PartImage || payload.Parts[3].Kind != PartText {
			t.Errorf("アンカー対の順序が不正です: %+v", payload.Parts[2:])
		}
		if !strings.Contains(payload.Parts[3].Text, "biometric ground truth") {
			t.Error("アンカー誘導テキストが欠けています")
		}
		if !payload.HasAnchor() {
			t.Error("HasAnchor が偽です")
		}
	})

	t.Run("トークン見積もりが文字数÷4と画像258の和であること", func(t *testing.T) {
		payload := Build(prompt, main, "image/jpeg", nil, "")
		want := len(prompt)/4 + ImageTokenCost
		if payload.TokensEstimate != want {
			t.Errorf("見積もり: 期待値 %d, 実際の値 %d", want, payload.TokensEstimate)
		}

		withAnchor := Build(prompt, main, "image/jpeg", anchor, "image/jpeg")
		wantAnchor := len(prompt)/4 + 2*ImageTokenCost + len(AnchorGuidance)/4
		if withAnchor.TokensEstimate != wantAnchor {
			t.Errorf("アンカーあり見積もり: 期待値 %d, 実際の値 %d", wantAnchor, withAnchor.TokensEstimate)
		}
	})
}
