package testutil

import (
	"context"
	"net/url"
	"regexp"
	"sync"

	"github.com/Hamzaidb/repo-saas/internal/infrastructure/email"
)

var hrefPattern = regexp.MustCompile(`href="([^"]+)"`)

// CapturingMailer はテスト用に送信メールを記録するMailerです
type CapturingMailer struct {
	mu       sync.Mutex
	messages []email.Message
	// SendError が設定されている場合はSendがそのエラーを返します
	SendError error
}

// NewCapturingMailer は新しいCapturingMailerを作成します
func NewCapturingMailer() *CapturingMailer {
	return &CapturingMailer{}
}

// Send はメールを記録します
func (m *CapturingMailer) Send(ctx context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendError != nil {
		return m.SendError
	}
	m.messages = append(m.messages, msg)
	return nil
}

// Messages は宛先に送信されたメールを返します
func (m *CapturingMailer) Messages(to string) []email.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []email.Message
	for _, msg := range m.messages {
		if msg.To == to {
			out = append(out, msg)
		}
	}
	return out
}

// LastToken は宛先への最新メールに含まれるリンクのtokenパラメータを返します
func (m *CapturingMailer) LastToken(to string) string {
	msgs := m.Messages(to)
	if len(msgs) == 0 {
		return ""
	}
	for _, match := range hrefPattern.FindAllStringSubmatch(msgs[len(msgs)-1].HTML, -1) {
		u, err := url.Parse(match[1])
		if err != nil {
			continue
		}
		if token := u.Query().Get("token"); token != "" {
			return token
		}
	}
	return ""
}

// Reset は記録を消去します
func (m *CapturingMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
	m.SendError = nil
}

var _ email.Mailer = (*CapturingMailer)(nil)
