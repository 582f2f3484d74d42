package settings

import (
	"context"
	"testing"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// fakeRules はテスト用のインメモリ RuleSource です。
type fakeRules struct {
	taxonomies map[string]domain.TaxonomyRule
	diagnoses  map[string]domain.DiagnosisRule
}

func (f *fakeRules) Taxonomy(_ context.Context, code string) (domain.TaxonomyRule, bool, error) {
	r, ok := f.taxonomies[code]
	return r, ok, nil
}

func (f *fakeRules) Diagnosis(_ context.Context, code string) (domain.DiagnosisRule, bool, error) {
	r, ok := f.diagnoses[code]
	return r, ok, nil
}

func newFakeRules() *fakeRules {
	return &fakeRules{
		taxonomies: map[string]domain.TaxonomyRule{
			"CAT01": {
				Code: "CAT01",
				SliderConfig: domain.SliderConfig{
					domain.SliderForensicRestoration: domain.LevelMed,
					domain.SliderNoiseReduction:      domain.LevelLow,
				},
			},
			"CAT15": {
				Code: "CAT15",
				SliderConfig: domain.SliderConfig{
					domain.SliderGeometryCorrection: domain.LevelForce,
				},
			},
		},
		diagnoses: map[string]domain.DiagnosisRule{
			"IN03": {
				Code: "IN03",
				SliderConfig: domain.SliderConfig{
					domain.SliderNoiseReduction: domain.LevelHigh,
				},
			},
			"IN07": {
				Code: "IN07",
				SliderConfig: domain.SliderConfig{
					domain.SliderNoiseReduction:    domain.LevelForce,
					domain.SliderResolutionUpscale: domain.LevelHigh,
				},
			},
		},
	}
}

func TestAssembleLayering(t *testing.T) {
	assembler := NewAssembler(newFakeRules())

	t.Run("タクソノミー→欠陥の順で後勝ちに重なること", func(t *testing.T) {
		verdict := domain.VisionVerdict{
			CatCode:         "CAT01",
			DetectedDefects: []string{"IN03", "IN07"},
			SeverityScore:   4,
		}

		cfg, flags, err := assembler.Assemble(context.Background(), verdict)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}

		// IN03 の HIGH を IN07 の FORCE が上書きする
		if cfg.Get(domain.SliderNoiseReduction) != domain.LevelForce {
			t.Errorf("p5 は FORCE のはずですが %s でした", cfg.Get(domain.SliderNoiseReduction))
		}
		// タクソノミー由来の値は欠陥に触れられない限り残る
		if cfg.Get(domain.SliderForensicRestoration) != domain.LevelMed {
			t.Errorf("p1 は MED のはずですが %s でした", cfg.Get(domain.SliderForensicRestoration))
		}
		if flags.ForceReimagine || flags.OCRLock {
			t.Errorf("フラグは立たないはずです: %+v", flags)
		}
	})

	t.Run("severity>7 で p6=FORCE と force_reimagine が立つこと", func(t *testing.T) {
		verdict := domain.VisionVerdict{CatCode: "CAT01", SeverityScore: 8}

		cfg, flags, err := assembler.Assemble(context.Background(), verdict)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if cfg.Get(domain.SliderGenerativeSynthesis) != domain.LevelForce {
			t.Error("p6 が FORCE になっていません")
		}
		if !flags.ForceReimagine {
			t.Error("force_reimagine が立っていません")
		}
	})

	t.Run("境界値 severity=7 では発火しないこと", func(t *testing.T) {
		verdict := domain.VisionVerdict{CatCode: "CAT01", SeverityScore: 7}

		cfg, flags, _ := assembler.Assemble(context.Background(), verdict)
		if cfg.Get(domain.SliderGenerativeSynthesis).IsActive() || flags.ForceReimagine {
			t.Error("severity=7 は閾値ちょうどであり発火してはいけません")
		}
	})

	t.Run("文字検出で l6=FORCE と ocr_lock が立つこと", func(t *testing.T) {
		verdict := domain.VisionVerdict{
			CatCode:       "CAT15",
			HasTextOrLogo: true,
			SeverityScore: 6,
		}

		cfg, flags, _ := assembler.Assemble(context.Background(), verdict)
		if cfg.Get(domain.SliderDramaticContrast) != domain.LevelForce {
			t.Error("l6 が FORCE になっていません")
		}
		if cfg.Get(domain.SliderGeometryCorrection) != domain.LevelForce {
			t.Error("CAT15 の p2=FORCE が反映されていません")
		}
		if !flags.OCRLock {
			t.Error("ocr_lock が立っていません")
		}
	})

	t.Run("未知のコードは黙って無視され構成は継続すること", func(t *testing.T) {
		verdict := domain.VisionVerdict{
			CatCode:         "CAT99",
			DetectedDefects: []string{"IN99", "IN03"},
			SeverityScore:   3,
		}

		cfg, _, err := assembler.Assemble(context.Background(), verdict)
		if err != nil {
			t.Fatalf("未知コードはエラーにしてはいけません: %v", err)
		}
		if cfg.Get(domain.SliderNoiseReduction) != domain.LevelHigh {
			t.Error("既知の欠陥 IN03 は適用されるべきです")
		}
	})
}
