package adapters

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

// QuotaCooldown はクォータ・権限エラー後にキーを休ませる最小時間です。
const QuotaCooldown = 60 * time.Second

// KeyPool は外部モデル用 API キーのローテーションプールです。
// クォータ失敗を報告されたキーはクールダウンが明けるまでスキップします。
type KeyPool struct {
	mu       sync.Mutex
	keys     []string
	next     int
	cooldown map[string]time.Time
	now      func() time.Time
}

// NewKeyPool はキーのスライスからプールを生成します。空要素は除外します。
func NewKeyPool(keys []string) *KeyPool {
	cleaned := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.TrimSpace(k) != "" {
			cleaned = append(cleaned, strings.TrimSpace(k))
		}
	}
	return &KeyPool{
		keys:     cleaned,
		cooldown: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Size は登録キー数を返します。
func (p *KeyPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}

// Next はクールダウン中でない次のキーをラウンドロビンで返します。
// 全キーが休止中の場合は ErrQuotaExceeded を返します。
func (p *KeyPool) Next() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.keys) == 0 {
		return "", errors.New("key pool is empty")
	}

	now := p.now()
	for i := 0; i < len(p.keys); i++ {
		key := p.keys[p.next]
		p.next = (p.next + 1) % len(p.keys)

		if until, cooling := p.cooldown[key]; cooling && now.Before(until) {
			continue
		}
		delete(p.cooldown, key)
		return key, nil
	}

	return "", domain.ErrQuotaExceeded
}

// ReportQuotaFailure は指定キーをクールダウンへ入れます。
func (p *KeyPool) ReportQuotaFailure(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cooldown[key] = p.now().Add(QuotaCooldown)
}

// IsQuotaError は外部 API のエラーがクォータ・権限系かどうかを判定します。
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "permission_denied") ||
		strings.Contains(msg, "429")
}
