// Package sanitizer は、組み立て済みのマスタープロンプト文書を
// 平文化・浄化・検証します。移植元の平文正規表現ベースの実装は
// 脆弱だったため、セクションノード上の構造的なパスで置き換えています。
package sanitizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// 検証境界。最終成果物の総文字数はこの範囲に収まる必要があります。
const (
	MinPromptLength = 100
	MaxPromptLength = 50000
)

// Stats はサニタイズの統計です。debug_info.sanitization に載ります。
type Stats struct {
	RedundanciesRemoved  int      `json:"redundancies_removed"`
	EmptySectionsRemoved int      `json:"empty_sections_removed"`
	LinesBefore          int      `json:"lines_before"`
	LinesAfter           int      `json:"lines_after"`
	Issues               []string `json:"issues"`
}

// Sanitizer はマスタープロンプトの浄化器です。
type Sanitizer struct{}

// New は Sanitizer を生成します。
func New() *Sanitizer {
	return &Sanitizer{}
}

var multiSpaceRe = regexp.MustCompile(`[ \t]{2,}`)

// subheaderRe はセクション内のサブ見出し（例: "ATMOSPHERE:"）に
// 一致します。直後に本文を持たないサブ見出しは構造的に除去されます。
var subheaderRe = regexp.MustCompile(`^[A-Z][A-Z0-9 /&-]*:$`)

// Sanitize は文書を正規順序で平文化し、重複・空行・空セクションを
// 除去したうえで検証します。configEmpty は全スライダー OFF の構成で
// あったことを示し、ピラーブロック空の検証を免除します。
func (s *Sanitizer) Sanitize(doc *domain.MasterPrompt, configEmpty bool) (string, Stats, error) {
	stats := Stats{Issues: make([]string, 0)}

	for _, name := range domain.SectionOrder {
		stats.LinesBefore += len(doc.Sections[name])
	}

	// セクションノード上での浄化。見出しと [INACTIVE] マーカーは
	// 公開面なので決して除去しません。
	seen := make(map[string]struct{})
	cleaned := make(map[string][]string, len(domain.SectionOrder))

	for _, name := range domain.SectionOrder {
		lines := doc.Sections[name]
		out := make([]string, 0, len(lines))

		for _, line := range lines {
			line = multiSpaceRe.ReplaceAllString(strings.TrimRight(line, " \t"), " ")

			if line == domain.InactiveMarker {
				out = append(out, line)
				continue
			}
			if line == "" {
				out = append(out, line)
				continue
			}

			// 大文字小文字と空白を正規化したうえでの完全一致重複を除去
			norm := strings.ToLower(strings.Join(strings.Fields(line), " "))
			if _, dup := seen[norm]; dup {
				stats.RedundanciesRemoved++
				continue
			}
			seen[norm] = struct{}{}
			out = append(out, line)
		}

		out = s.dropEmptySubsections(out, &stats)
		out = collapseBlankRuns(out)
		cleaned[name] = out
	}

	rendered := render(cleaned)

	if err := s.validate(rendered, cleaned, configEmpty, &stats); err != nil {
		return "", stats, err
	}

	stats.LinesAfter = len(strings.Split(rendered, "\n"))
	return rendered, stats, nil
}

// dropEmptySubsections は本文を持たないサブ見出しを除去します。
// 「見出しの直後が別の見出しまたはセクション末尾」を空とみなします。
func (s *Sanitizer) dropEmptySubsections(lines []string, stats *Stats) []string {
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if !subheaderRe.MatchString(line) {
			out = append(out, line)
			continue
		}

		// 次の非空行を探す
		next := ""
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) != "" {
				next = lines[j]
				break
			}
		}

		if next == "" || subheaderRe.MatchString(next) {
			stats.EmptySectionsRemoved++
			continue
		}
		out = append(out, line)
	}

	return out
}

// collapseBlankRuns は連続する空行を1行へ畳みます。
func collapseBlankRuns(lines []string) []string {
	out := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blanks++
			if blanks > 1 {
				continue
			}
			out = append(out, "")
			continue
		}
		blanks = 0
		out = append(out, line)
	}
	// 先頭・末尾の空行は落とします
	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// render はセクションを正規順序で固定見出し付きの平文へ展開します。
// 見出しの文字列と順序はビット互換の公開面です。
func render(sections map[string][]string) string {
	var b strings.Builder

	for i, name := range domain.SectionOrder {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("=== %s ===\n", name))

		lines := sections[name]
		if len(lines) == 0 {
			b.WriteString(domain.InactiveMarker + "\n")
			continue
		}
		for _, line := range lines {
			b.WriteString(line + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// validate は最終成果物の構造検証です。失敗は ErrValidationFailure に
// 包まれ、コンパイル工程に致命的です。
func (s *Sanitizer) validate(rendered string, sections map[string][]string, configEmpty bool, stats *Stats) error {
	if n := len(rendered); n < MinPromptLength || n > MaxPromptLength {
		stats.Issues = append(stats.Issues, fmt.Sprintf("prompt length %d outside [%d, %d]", n, MinPromptLength, MaxPromptLength))
	}

	for _, name := range domain.SectionOrder {
		header := fmt.Sprintf("=== %s ===", name)
		if !strings.Contains(rendered, header) {
			stats.Issues = append(stats.Issues, fmt.Sprintf("missing section header %q", name))
		}
	}

	if !configEmpty {
		active := 0
		for _, pillar := range domain.Pillars {
			lines := sections[domain.PillarSection(pillar)]
			if len(lines) > 0 && !(len(lines) == 1 && lines[0] == domain.InactiveMarker) {
				active++
			}
		}
		if active == 0 {
			stats.Issues = append(stats.Issues, "all pillar blocks are inactive for a non-empty config")
		}
	}

	if strings.Contains(rendered, "\n\n\n") {
		stats.Issues = append(stats.Issues, "three or more consecutive blank lines survived sanitization")
	}

	if len(stats.Issues) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidationFailure, strings.Join(stats.Issues, "; "))
	}
	return nil
}
