// Package vision は、ビジョン LLM による画像分類・欠陥診断を
// オーケストレートします。失敗はフォールバック判定へ吸収され、
// 呼び出し側へ例外を投げることはありません。
package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/shouni/go-photoscaler-kit/pkg/adapters"
	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// jsonBlockRegex は LLM がコードフェンスで包んで返した JSON を取り出します。
var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")

// RuleSource は診断書（dossier）の構築に必要なルール参照の最小面です。
type RuleSource interface {
	Taxonomies(ctx context.Context) ([]domain.TaxonomyRule, error)
	Diagnoses(ctx context.Context) ([]domain.DiagnosisRule, error)
}

// Orchestrator はビジョン呼び出しの司令塔です。
type Orchestrator struct {
	model adapters.VisionModel
	rules RuleSource
}

// NewOrchestrator は新しい Orchestrator を生成します。
func NewOrchestrator(model adapters.VisionModel, rules RuleSource) *Orchestrator {
	return &Orchestrator{model: model, rules: rules}
}

// Analyze はサムネイル画像を分類し、検証済みの VisionVerdict を返します。
// LLM の失敗・不正な JSON はフォールバック判定（CAT21, severity 5）で
// 吸収します。error を返すのはルールストア自体が読めない場合だけです。
func (o *Orchestrator) Analyze(ctx context.Context, thumbnail []byte, mimeType string) (domain.VisionVerdict, error) {
	dossier, known, err := o.buildDossier(ctx)
	if err != nil {
		return domain.VisionVerdict{}, err
	}

	raw, err := o.model.Classify(ctx, dossier, thumbnail, mimeType)
	if err != nil {
		slog.WarnContext(ctx, "vision call failed; using fallback verdict", "error", err)
		return domain.FallbackVerdict(err.Error()), nil
	}

	verdict, parseErr := parseVerdict(raw)
	if parseErr != nil {
		slog.WarnContext(ctx, "vision response unparsable; using fallback verdict", "error", parseErr)
		return domain.FallbackVerdict(parseErr.Error()), nil
	}

	return o.validateVerdict(ctx, verdict, known), nil
}

// knownCodes は dossier 構築時に控えた正当なコード集合です。
type knownCodes struct {
	categories map[string]struct{}
	diagnoses  map[string]struct{}
}

// buildDossier は全タクソノミーと全診断を列挙するシステム指示を
// 組み立てます。LLM にはこの中のコードだけで答えるよう求めます。
func (o *Orchestrator) buildDossier(ctx context.Context) (string, knownCodes, error) {
	taxonomies, err := o.rules.Taxonomies(ctx)
	if err != nil {
		return "", knownCodes{}, fmt.Errorf("%w: taxonomies: %v", domain.ErrRuleLoadFailure, err)
	}
	diagnoses, err := o.rules.Diagnoses(ctx)
	if err != nil {
		return "", knownCodes{}, fmt.Errorf("%w: diagnoses: %v", domain.ErrRuleLoadFailure, err)
	}

	known := knownCodes{
		categories: make(map[string]struct{}, len(taxonomies)),
		diagnoses:  make(map[string]struct{}, len(diagnoses)),
	}

	var b strings.Builder
	b.WriteString("You are a forensic photo triage expert. Classify the image and diagnose its defects.\n\n")
	b.WriteString("SUBJECT CATEGORIES (choose exactly one cat_code):\n")
	for _, t := range taxonomies {
		known.categories[t.Code] = struct{}{}
		fmt.Fprintf(&b, "- %s %s [%s]: %s. Strategy: %s\n",
			t.Code, t.CategoryName, t.Group, t.VisualDescription, t.Strategy)
	}

	b.WriteString("\nDEFECT DIAGNOSES (list every diag code that applies, possibly none):\n")
	for _, d := range diagnoses {
		known.diagnoses[d.Code] = struct{}{}
		fmt.Fprintf(&b, "- %s %s: %s. Strategy: %s\n",
			d.Code, d.CategoryName, d.VisualDescription, d.Strategy)
	}

	b.WriteString(`
Respond with a single strict JSON object and nothing else:
{
  "cat_code": "CATxx",
  "detected_defects": ["INxx", ...],
  "has_text_or_logo": bool,
  "severity_score": 1-10,
  "has_person": bool,
  "facial_marks": ["...", ...],
  "visual_summary": "one sentence",
  "reasoning": "short justification"
}`)

	return b.String(), known, nil
}

// parseVerdict は応答テキストから JSON 本体を取り出してデコードします。
func parseVerdict(raw string) (domain.VisionVerdict, error) {
	raw = strings.TrimSpace(raw)

	if m := jsonBlockRegex.FindStringSubmatch(raw); len(m) == 2 {
		raw = m[1]
	}
	// フェンスなしで前後に散文が付くケースに備え、最外の波括弧を切り出します
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		raw = raw[start : end+1]
	}

	var verdict domain.VisionVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return domain.VisionVerdict{}, fmt.Errorf("verdict decode: %w", err)
	}
	return verdict, nil
}

// validateVerdict は既知コード集合に対する検証です。未知のコードは
// 警告して落とし、黙殺はしません。
func (o *Orchestrator) validateVerdict(ctx context.Context, verdict domain.VisionVerdict, known knownCodes) domain.VisionVerdict {
	if _, ok := known.categories[verdict.CatCode]; !ok {
		slog.WarnContext(ctx, "unknown cat_code from vision model; falling back", "cat_code", verdict.CatCode)
		verdict.CatCode = domain.FallbackCategoryCode
	}

	kept := make([]string, 0, len(verdict.DetectedDefects))
	for _, code := range verdict.DetectedDefects {
		if _, ok := known.diagnoses[code]; !ok {
			slog.WarnContext(ctx, "unknown diag code dropped from verdict", "diag_code", code)
			continue
		}
		kept = append(kept, code)
	}
	verdict.DetectedDefects = kept

	verdict.SeverityScore = domain.ClampSeverity(verdict.SeverityScore)
	return verdict
}
