package sanitizer

import (
	"errors"
	"strings"
	"testing"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// buildDoc は検証を通る最小の文書を組み立てるテストヘルパーです。
func buildDoc() *domain.MasterPrompt {
	doc := domain.NewMasterPrompt()
	doc.SetSection(domain.SectionSystemOverride, []string{
		"You are a forensic photo enhancement engine.",
		"Follow every block below in order.",
	})
	doc.SetSection(domain.SectionIdentityLock, []string{"Preservation level: MAXIMUM."})
	doc.SetSection(domain.SectionVisionSummary, []string{"A faded studio portrait from the 1970s."})
	doc.SetSection(domain.SectionPhotoscalerBlock, []string{"- (MED) repair scratches and restore faded regions"})
	doc.SetSection(domain.SectionStylescalerBlock, []string{domain.InactiveMarker})
	doc.SetSection(domain.SectionLightscalerBlock, []string{domain.InactiveMarker})
	doc.SetSection(domain.SectionNegativePrompt, []string{"no plastic skin, no halo artifacts"})
	doc.SetSection(domain.SectionQualityGates, []string{"output must be print-grade at 300 dpi"})
	return doc
}

func TestSanitizeHappyPath(t *testing.T) {
	s := New()

	rendered, stats, err := s.Sanitize(buildDoc(), false)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	t.Run("全セクション見出しが正規順序で現れること", func(t *testing.T) {
		lastIdx := -1
		for _, name := range domain.SectionOrder {
			idx := strings.Index(rendered, "=== "+name+" ===")
			if idx < 0 {
				t.Fatalf("セクション %q がありません", name)
			}
			if idx <= lastIdx {
				t.Errorf("セクション %q の順序が不正です", name)
			}
			lastIdx = idx
		}
	})

	t.Run("3連続以上の空行が存在しないこと", func(t *testing.T) {
		if strings.Contains(rendered, "\n\n\n") {
			t.Error("3連続の空行が残っています")
		}
	})

	t.Run("統計の行数が記録されること", func(t *testing.T) {
		if stats.LinesBefore == 0 || stats.LinesAfter == 0 {
			t.Errorf("行数統計が空です: %+v", stats)
		}
	})
}

func TestDuplicateRemoval(t *testing.T) {
	s := New()

	t.Run("大文字小文字・空白の揺れを含む重複行が除去されること", func(t *testing.T) {
		doc := buildDoc()
		doc.SetSection(domain.SectionQualityGates, []string{
			"output must be print-grade at 300 dpi",
			"Output  must be PRINT-GRADE at 300 dpi",
			"no banding in gradients",
		})

		rendered, stats, err := s.Sanitize(doc, false)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if stats.RedundanciesRemoved != 1 {
			t.Errorf("重複除去数: 期待値 1, 実際の値 %d", stats.RedundanciesRemoved)
		}
		if strings.Count(strings.ToLower(rendered), "print-grade") != 1 {
			t.Error("重複行が残っています")
		}
	})

	t.Run("INACTIVE マーカーは複数セクションにあっても除去されないこと", func(t *testing.T) {
		rendered, _, err := s.Sanitize(buildDoc(), false)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if strings.Count(rendered, domain.InactiveMarker) != 2 {
			t.Errorf("[INACTIVE] は2箇所残るはずです: %d", strings.Count(rendered, domain.InactiveMarker))
		}
	})
}

func TestEmptySubsectionRemoval(t *testing.T) {
	s := New()
	doc := buildDoc()
	doc.SetSection(domain.SectionLightscalerBlock, []string{
		"ATMOSPHERE:",
		"",
		"CONTRAST:",
		"- (HIGH) carve deep blacks",
	})

	rendered, stats, err := s.Sanitize(doc, false)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if stats.EmptySectionsRemoved != 1 {
		t.Errorf("空サブ見出し除去数: 期待値 1, 実際の値 %d", stats.EmptySectionsRemoved)
	}
	if strings.Contains(rendered, "ATMOSPHERE:") {
		t.Error("本文のない ATMOSPHERE: 見出しが残っています")
	}
	if !strings.Contains(rendered, "CONTRAST:") {
		t.Error("本文のある CONTRAST: 見出しが消えました")
	}
}

func TestBlankLineCollapse(t *testing.T) {
	s := New()
	doc := buildDoc()
	doc.SetSection(domain.SectionVisionSummary, []string{
		"line one",
		"", "", "", "",
		"line two",
	})

	rendered, _, err := s.Sanitize(doc, false)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if strings.Contains(rendered, "\n\n\n") {
		t.Error("空行の連続が畳まれていません")
	}
	if !strings.Contains(rendered, "line one\n\nline two") {
		t.Error("空行1行への畳み込みが期待と異なります")
	}
}

func TestValidation(t *testing.T) {
	s := New()

	t.Run("中身のない文書は ValidationFailure になること", func(t *testing.T) {
		doc := domain.NewMasterPrompt() // すべて空 → [INACTIVE] だけの文書
		_, stats, err := s.Sanitize(doc, false)
		if !errors.Is(err, domain.ErrValidationFailure) {
			t.Fatalf("ErrValidationFailure が返るべきですが: %v", err)
		}
		if len(stats.Issues) == 0 {
			t.Error("issues が空です")
		}
	})

	t.Run("空構成ならピラー全INACTIVEでも許容されること", func(t *testing.T) {
		doc := buildDoc()
		doc.SetSection(domain.SectionPhotoscalerBlock, []string{domain.InactiveMarker})

		_, _, err := s.Sanitize(doc, true)
		if err != nil {
			t.Errorf("空構成では検証を通るべきです: %v", err)
		}
	})

	t.Run("非空構成でピラー全INACTIVEは検証エラーになること", func(t *testing.T) {
		doc := buildDoc()
		doc.SetSection(domain.SectionPhotoscalerBlock, []string{domain.InactiveMarker})

		_, stats, err := s.Sanitize(doc, false)
		if !errors.Is(err, domain.ErrValidationFailure) {
			t.Fatalf("ErrValidationFailure が返るべきですが: %v", err)
		}
		found := false
		for _, issue := range stats.Issues {
			if strings.Contains(issue, "pillar") {
				found = true
			}
		}
		if !found {
			t.Errorf("ピラーに関する issue がありません: %v", stats.Issues)
		}
	})
}

func TestMultiSpaceNormalization(t *testing.T) {
	s := New()
	doc := buildDoc()
	doc.SetSection(domain.SectionVisionSummary, []string{"a   portrait    with   gaps"})

	rendered, _, err := s.Sanitize(doc, false)
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if !strings.Contains(rendered, "a portrait with gaps") {
		t.Error("連続スペースが正規化されていません")
	}
}
