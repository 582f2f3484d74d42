package vision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// fakeModel は VisionModel のテストダブルです。
type fakeModel struct {
	response  string
	err       error
	gotPrompt string
}

func (f *fakeModel) Classify(_ context.Context, systemPrompt string, _ []byte, _ string) (string, error) {
	f.gotPrompt = systemPrompt
	return f.response, f.err
}

// fakeRules は RuleSource のテストダブルです。
type fakeRules struct{}

func (fakeRules) Taxonomies(context.Context) ([]domain.TaxonomyRule, error) {
	return []domain.TaxonomyRule{
		{Code: "CAT01", CategoryName: "Portrait", Group: "PEOPLE", VisualDescription: "a single human face", Strategy: "preserve identity"},
		{Code: "CAT15", CategoryName: "Document", Group: "FLAT", VisualDescription: "printed or written text", Strategy: "maximise legibility"},
		{Code: "CAT21", CategoryName: "ERROR_UNIDENTIFIED", Group: "META", VisualDescription: "unclassifiable", Strategy: "conservative defaults"},
	}, nil
}

func (fakeRules) Diagnoses(context.Context) ([]domain.DiagnosisRule, error) {
	return []domain.DiagnosisRule{
		{Code: "IN03", CategoryName: "Noise", VisualDescription: "sensor noise", Strategy: "denoise"},
		{Code: "IN07", CategoryName: "Blur", VisualDescription: "motion blur", Strategy: "deblur"},
	}, nil
}

func TestAnalyze(t *testing.T) {
	img := []byte{0xFF, 0xD8}

	t.Run("正常なJSON応答がパースされること", func(t *testing.T) {
		model := &fakeModel{response: `{"cat_code":"CAT01","detected_defects":["IN03"],"has_text_or_logo":false,"severity_score":6,"has_person":true,"visual_summary":"a portrait","reasoning":"face detected"}`}
		o := NewOrchestrator(model, fakeRules{})

		verdict, err := o.Analyze(context.Background(), img, "image/jpeg")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if verdict.CatCode != "CAT01" || !verdict.HasPerson || verdict.SeverityScore != 6 {
			t.Errorf("判定内容が不正です: %+v", verdict)
		}
		if verdict.Fallback {
			t.Error("正常応答なのにフォールバック扱いです")
		}
	})

	t.Run("dossier に全コードが列挙されること", func(t *testing.T) {
		model := &fakeModel{response: `{"cat_code":"CAT01","severity_score":5}`}
		o := NewOrchestrator(model, fakeRules{})
		o.Analyze(context.Background(), img, "image/jpeg")

		for _, code := range []string{"CAT01", "CAT15", "CAT21", "IN03", "IN07"} {
			if !strings.Contains(model.gotPrompt, code) {
				t.Errorf("dossier にコード %s がありません", code)
			}
		}
	})

	t.Run("コードフェンス付きJSONも受理されること", func(t *testing.T) {
		model := &fakeModel{response: "Here is my analysis:\n```json\n{\"cat_code\":\"CAT15\",\"severity_score\":4,\"has_text_or_logo\":true}\n```"}
		o := NewOrchestrator(model, fakeRules{})

		verdict, err := o.Analyze(context.Background(), img, "image/jpeg")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if verdict.CatCode != "CAT15" || !verdict.HasTextOrLogo {
			t.Errorf("フェンス付き応答のパースに失敗: %+v", verdict)
		}
	})

	t.Run("不正なJSONはフォールバック判定になること", func(t *testing.T) {
		model := &fakeModel{response: "I could not really decide, sorry."}
		o := NewOrchestrator(model, fakeRules{})

		verdict, err := o.Analyze(context.Background(), img, "image/jpeg")
		if err != nil {
			t.Fatalf("フォールバックでも error は nil のはずです: %v", err)
		}
		if verdict.CatCode != domain.FallbackCategoryCode || verdict.SeverityScore != domain.FallbackSeverity {
			t.Errorf("フォールバック判定が不正です: %+v", verdict)
		}
		if !verdict.Fallback {
			t.Error("Fallback フラグが立っていません")
		}
	})

	t.Run("モデル失敗もフォールバック判定になること", func(t *testing.T) {
		model := &fakeModel{err: errors.New("deadline exceeded")}
		o := NewOrchestrator(model, fakeRules{})

		verdict, err := o.Analyze(context.Background(), img, "image/jpeg")
		if err != nil {
			t.Fatalf("フォールバックでも error は nil のはずです: %v", err)
		}
		if !verdict.Fallback || verdict.CatCode != "CAT21" {
			t.Errorf("フォールバック判定が不正です: %+v", verdict)
		}
	})

	t.Run("未知コードは警告付きで除去されること", func(t *testing.T) {
		model := &fakeModel{response: `{"cat_code":"CAT99","detected_defects":["IN03","IN99"],"severity_score":15}`}
		o := NewOrchestrator(model, fakeRules{})

		verdict, err := o.Analyze(context.Background(), img, "image/jpeg")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if verdict.CatCode != domain.FallbackCategoryCode {
			t.Errorf("未知の cat_code は CAT21 へ置換されるべきです: %s", verdict.CatCode)
		}
		if len(verdict.DetectedDefects) != 1 || verdict.DetectedDefects[0] != "IN03" {
			t.Errorf("未知の診断コードが残っています: %v", verdict.DetectedDefects)
		}
		if verdict.SeverityScore != 10 {
			t.Errorf("深刻度はクランプされるべきです: %d", verdict.SeverityScore)
		}
	})
}
