package domain

// PromptVersion はマスタープロンプトの構造バージョンです。
// セクション見出しや veto ルール名を変更する場合は必ず上げます。
// 下流のコンシューマーは見出し文字列をキーにしてパースします。
const PromptVersion = "2.3.0"

// マスタープロンプトの固定セクション見出し。順序・文字列ともに
// ビット互換の公開面であり、変更してはいけません。
const (
	SectionSystemOverride   = "SYSTEM OVERRIDE"
	SectionIdentityLock     = "IDENTITY LOCK"
	SectionVisionSummary    = "VISION SUMMARY"
	SectionPhotoscalerBlock = "PHASE 1: PHOTOSCALER BLOCK"
	SectionStylescalerBlock = "PHASE 2: STYLESCALER BLOCK"
	SectionLightscalerBlock = "PHASE 3: LIGHTSCALER BLOCK"
	SectionNegativePrompt   = "NEGATIVE PROMPT"
	SectionQualityGates     = "QUALITY GATES"
)

// SectionOrder は最終成果物に現れるセクションの正規順序です。
// すべてのセクションが（空マーカー付きであっても）必ず存在します。
var SectionOrder = []string{
	SectionSystemOverride,
	SectionIdentityLock,
	SectionVisionSummary,
	SectionPhotoscalerBlock,
	SectionStylescalerBlock,
	SectionLightscalerBlock,
	SectionNegativePrompt,
	SectionQualityGates,
}

// InactiveMarker はアクティブなスライダーを持たないピラーブロックに
// 置かれるリテラルです。
const InactiveMarker = "[INACTIVE]"

// PillarSection はピラー → セクション見出しの対応を返します。
func PillarSection(p Pillar) string {
	switch p {
	case PillarPhotoscaler:
		return SectionPhotoscalerBlock
	case PillarStylescaler:
		return SectionStylescalerBlock
	case PillarLightscaler:
		return SectionLightscalerBlock
	}
	return ""
}

// SemanticTranslation はスライダー1本の指示テキストへの変換結果です。
type SemanticTranslation struct {
	SliderKey SliderKey `json:"slider_key"`
	Level     Level     `json:"level"`
	Pillar    Pillar    `json:"pillar"`
	Text      string    `json:"text"`
}

// MasterPrompt はセクション名で添字付けされた構造化テキスト文書です。
// 最終的な平文化（フラット化）はサニタイザーが行います。
type MasterPrompt struct {
	Sections map[string][]string
}

// NewMasterPrompt は全セクションを空で初期化した文書を返します。
func NewMasterPrompt() *MasterPrompt {
	sections := make(map[string][]string, len(SectionOrder))
	for _, name := range SectionOrder {
		sections[name] = nil
	}
	return &MasterPrompt{Sections: sections}
}

// SetSection はセクション本文を行単位で設定します。
func (mp *MasterPrompt) SetSection(name string, lines []string) {
	mp.Sections[name] = lines
}

// AppendLine はセクション末尾に1行追加します。
func (mp *MasterPrompt) AppendLine(name, line string) {
	mp.Sections[name] = append(mp.Sections[name], line)
}
