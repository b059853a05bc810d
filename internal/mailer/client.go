package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"PhoneCompare/internal/interfaces"
	"PhoneCompare/internal/utils/httpclient"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL Resend 发信 API
const DefaultBaseURL = "https://api.resend.com"

// Config 发信客户端配置
type Config struct {
	BaseURL string
	APIKey  string
	From    string
	Timeout int // 秒
	Proxy   string
}

// Client Resend 兼容的发信客户端
type Client struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
	logger     *logrus.Logger
}

var _ interfaces.MailSender = (*Client)(nil)

// NewClient 创建发信客户端
func NewClient(cfg Config, logger *logrus.Logger) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		from:       cfg.From,
		httpClient: httpclient.NewHTTPClient(httpclient.Options{Timeout: cfg.Timeout, Proxy: cfg.Proxy}, logger),
		logger:     logger,
	}
}

// sendRequest POST /emails 请求体
type sendRequest struct {
	From    string            `json:"from"`
	To      []string          `json:"to"`
	Subject string            `json:"subject"`
	HTML    string            `json:"html,omitempty"`
	Text    string            `json:"text,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// sendResponse 成功时只有 id，失败时带 message
type sendResponse struct {
	ID         string `json:"id"`
	StatusCode int    `json:"statusCode,omitempty"`
	Name       string `json:"name,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Send 发送单封邮件
func (c *Client) Send(ctx context.Context, email *interfaces.Email) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("发信 API key 未配置")
	}
	if email == nil || email.To == "" {
		return "", fmt.Errorf("收件人为空")
	}

	body, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{email.To},
		Subject: email.Subject,
		HTML:    email.HTML,
		Text:    email.Text,
		Headers: email.Headers,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Warn("发信 HTTP 请求失败")
		return "", fmt.Errorf("发信 API 请求失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var result sendResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result); err != nil {
			c.logger.WithError(err).WithField("body", string(respBody)).Warn("发信响应解析失败")
			return "", fmt.Errorf("发信 API 响应解析失败: %w", err)
		}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg := result.Message
		if msg == "" {
			msg = string(respBody)
		}
		c.logger.WithField("status", resp.StatusCode).WithField("message", msg).Warn("发信 API 错误")
		return "", fmt.Errorf("发信 API 错误 %d: %s", resp.StatusCode, msg)
	}
	c.logger.WithField("to", email.To).WithField("id", result.ID).Debug("邮件发送成功")
	return result.ID, nil
}
