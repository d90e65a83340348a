package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/maison-next/internal/config"
	"github.com/maison-next/internal/constants"
)

var (
	ErrConfigInvalid   = errors.New("notify config invalid")
	ErrRequestFailed   = errors.New("notify request failed")
	ErrResponseInvalid = errors.New("notify response invalid")
	ErrChannelInvalid  = errors.New("notify channel not supported")
)

// Message 一条待发送的文本消息
type Message struct {
	Channel string // sms / whatsapp
	To      string // E.164 手机号
	Body    string
}

// Client 短信/WhatsApp 提供方客户端（JSON over HTTP）
type Client struct {
	cfg        config.NotifyConfig
	httpClient *http.Client
}

// NewClient 创建通知客户端
func NewClient(cfg config.NotifyConfig) *Client {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.Enabled
}

// Validate 校验配置
func (c *Client) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: client is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(c.cfg.BaseURL) == "" {
		return fmt.Errorf("%w: base_url is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return fmt.Errorf("%w: api_key is required", ErrConfigInvalid)
	}
	return nil
}

// Send 发送消息；返回提供方消息 ID
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if !c.Enabled() {
		return "", nil
	}
	if err := c.Validate(); err != nil {
		return "", err
	}

	var from string
	switch msg.Channel {
	case constants.NotifyChannelSMS:
		from = c.cfg.SMSFrom
	case constants.NotifyChannelWhatsApp:
		from = c.cfg.WhatsAppID
	default:
		return "", fmt.Errorf("%w: %s", ErrChannelInvalid, msg.Channel)
	}
	if strings.TrimSpace(msg.To) == "" {
		return "", fmt.Errorf("%w: recipient is empty", ErrRequestFailed)
	}

	payload := map[string]string{
		"channel": msg.Channel,
		"from":    from,
		"to":      strings.TrimSpace(msg.To),
		"body":    msg.Body,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal payload failed", ErrRequestFailed)
	}

	endpoint := strings.TrimRight(strings.TrimSpace(c.cfg.BaseURL), "/") + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read body failed", ErrResponseInvalid)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d body %s", ErrRequestFailed, resp.StatusCode, truncate(raw, 200))
	}

	var parsed struct {
		MessageID string `json:"message_id"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	return parsed.MessageID, nil
}

func truncate(raw []byte, limit int) string {
	if len(raw) <= limit {
		return string(raw)
	}
	return string(raw[:limit]) + "..."
}
