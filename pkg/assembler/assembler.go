// Package assembler は、生成エンジンへ渡すマルチモーダルリクエストの
// パート列を組み立てます。DNA アンカーは値として受け渡され、
// オブジェクトグラフを持ち回ることはありません。
package assembler

// PartKind はリクエストパートの種別です。
type PartKind string

const (
	PartText  PartKind = "text"
	PartImage PartKind = "image"
)

// Part は順序付きリクエストの1要素です。画像パートは MIME と
// バイト列を値で保持します。
type Part struct {
	Kind     PartKind
	Text     string
	MIMEType string
	Data     []byte
}

// ImageTokenCost は画像1枚あたりのトークン見積もりです。
// テキストは4文字≒1トークンの簡易ヒューリスティックを使います。
const ImageTokenCost = 258

// AnchorGuidance は DNA アンカー画像に添える per-part の誘導テキストです。
const AnchorGuidance = "The image above is the facial identity reference crop. It is the absolute biometric ground truth for this subject: match every facial detail in the generated output to this crop."

// Payload は組み立て済みのリクエストです。
type Payload struct {
	Parts          []Part
	TokensEstimate int
}

// Build は [プロンプト全文, メインキャンバス] の順でパートを並べ、
// DNA アンカーがあれば [アンカー画像, 誘導テキスト] を後置します。
func Build(prompt string, mainImage []byte, mainMIME string, anchor []byte, anchorMIME string) Payload {
	parts := []Part{
		{Kind: PartText, Text: prompt},
		{Kind: PartImage, MIMEType: mainMIME, Data: mainImage},
	}

	if len(anchor) > 0 {
		parts = append(parts,
			Part{Kind: PartImage, MIMEType: anchorMIME, Data: anchor},
			Part{Kind: PartText, Text: AnchorGuidance},
		)
	}

	return Payload{
		Parts:          parts,
		TokensEstimate: estimateTokens(parts),
	}
}

// HasAnchor はアンカーのパート対が含まれているかを返します。
func (p Payload) HasAnchor() bool {
	return len(p.Parts) == 4
}

// estimateTokens は予算管理用の簡易見積もりです。
func estimateTokens(parts []Part) int {
	total := 0
	for _, part := range parts {
		switch part.Kind {
		case PartText:
			total += len(part.Text) / 4
		case PartImage:
			total += ImageTokenCost
		}
	}
	return total
}

// EstimateTextTokens はテキスト単体の見積もりです。compile 応答の
// tokens_estimate に使います。
func EstimateTextTokens(text string) int {
	return len(text) / 4
}
