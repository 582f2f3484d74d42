package domain

import "errors"

// コア全体で共有するエラー種別。伝播ポリシーは種別ごとに異なるため、
// 呼び出し側は errors.Is で判別します。
var (
	// ErrInvalidImage は画像のデコード不能を表します。リクエスト全体に致命的です。
	ErrInvalidImage = errors.New("invalid image")

	// ErrUnknownSliderKey は未登録のスライダーキーを表します。
	// 設定からは除外され、debug_info.issues に報告されます。
	ErrUnknownSliderKey = errors.New("unknown slider key")

	// ErrRuleLoadFailure はルールテーブルのコールドロード失敗です。致命的です。
	ErrRuleLoadFailure = errors.New("rule load failure")

	// ErrVisionFailure はビジョン呼び出しの失敗です。呼び出し側へは
	// 伝播せず、フォールバック判定で吸収されます。
	ErrVisionFailure = errors.New("vision failure")

	// ErrGenerationFailure は生成エンジン呼び出しの失敗です。
	// バリアント単位で記録され、バッチは継続します。
	ErrGenerationFailure = errors.New("generation failure")

	// ErrQuotaExceeded は外部 API のクォータ超過です。キーのローテーションを
	// 誘発し、3回まで再試行されます。
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrValidationFailure はサニタイズ済みプロンプトの検証失敗です。
	// コンパイル工程に致命的です。
	ErrValidationFailure = errors.New("prompt validation failure")
)

// ErrorKind は機械可読なエラー種別文字列を返します。ユーザーへは
// 短い人間向けメッセージと併せて提示されます。
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidImage):
		return "InvalidImage"
	case errors.Is(err, ErrUnknownSliderKey):
		return "UnknownSliderKey"
	case errors.Is(err, ErrRuleLoadFailure):
		return "RuleLoadFailure"
	case errors.Is(err, ErrVisionFailure):
		return "VisionFailure"
	case errors.Is(err, ErrGenerationFailure):
		return "GenerationFailure"
	case errors.Is(err, ErrQuotaExceeded):
		return "QuotaExceeded"
	case errors.Is(err, ErrValidationFailure):
		return "ValidationFailure"
	case errors.Is(err, errors.ErrUnsupported):
		return "Unsupported"
	default:
		return "Internal"
	}
}
