package email

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Hamzaidb/repo-saas/pkg/logger"
)

// ErrNoRecipient は宛先が空の場合のエラーです
var ErrNoRecipient = errors.New("email recipient is required")

// Message は配送するメール1通を表します
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer はメールの配送手段を抽象化します
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer は送信せずにログへ出力するMailerです（開発用）
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer は新しいLogMailerを作成します
// lがnilの場合はslog.Defaultを使用します
func NewLogMailer(l *slog.Logger) *LogMailer {
	return &LogMailer{logger: l}
}

// Send はメールの内容をログに出力します
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return ErrNoRecipient
	}

	l := m.logger
	if l == nil {
		l = logger.WithContext(ctx)
	}
	l.Info("email delivery simulated",
		"to", msg.To,
		"subject", msg.Subject,
		"links", extractLinks(msg.HTML),
	)
	return nil
}

// extractLinks はHTML本文からhref属性の値を取り出します
// 開発時にログからリンクを直接開けるようにするためのものです
func extractLinks(html string) []string {
	var links []string
	rest := html
	for {
		i := strings.Index(rest, `href="`)
		if i < 0 {
			return links
		}
		rest = rest[i+len(`href="`):]
		j := strings.IndexByte(rest, '"')
		if j < 0 {
			return links
		}
		links = append(links, strings.ReplaceAll(rest[:j], "&amp;", "&"))
		rest = rest[j:]
	}
}

var (
	_ Mailer = (*LogMailer)(nil)
	_ Mailer = (*SMTPClient)(nil)
)
