package interfaces

import "context"

// Email 一封待发送的邮件
type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
	Headers map[string]string // 如 List-Unsubscribe
}

// MailSender 发信服务（Resend 等 REST 发信 API）
type MailSender interface {
	// Send 发送单封邮件，返回服务商侧消息 ID
	Send(ctx context.Context, email *Email) (messageID string, err error)
}
