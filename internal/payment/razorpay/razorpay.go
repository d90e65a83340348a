package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrConfigInvalid    = errors.New("razorpay config invalid")
	ErrRequestFailed    = errors.New("razorpay request failed")
	ErrResponseInvalid  = errors.New("razorpay response invalid")
	ErrSignatureInvalid = errors.New("razorpay signature invalid")
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// Config Razorpay 网关配置
type Config struct {
	KeyID     string `json:"key_id"`
	KeySecret string `json:"key_secret"`
	BaseURL   string `json:"base_url"`
	TimeoutMS int    `json:"timeout_ms"`
}

// CreateInput 创建网关订单输入
type CreateInput struct {
	OrderNo  string
	Amount   string // 十进制金额（如 "1499.00"）
	Currency string
	Notes    map[string]string
}

// CreateResult 创建网关订单结果
type CreateResult struct {
	GatewayOrderID string                 // 网关订单 ID（rzp order_xxx）
	AmountPaise    int64                  // 最小货币单位金额
	Currency       string
	Status         string
	Raw            map[string]interface{} // 原始响应
}

// CallbackData 支付完成回跳数据
type CallbackData struct {
	GatewayOrderID   string `json:"razorpay_order_id"`
	GatewayPaymentID string `json:"razorpay_payment_id"`
	Signature        string `json:"razorpay_signature"`
}

// ParseConfig 解析配置
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: empty config", ErrConfigInvalid)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal config failed", ErrConfigInvalid)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshal config failed", ErrConfigInvalid)
	}
	cfg.normalize()
	return &cfg, nil
}

// ValidateConfig 校验配置
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.KeyID) == "" {
		return fmt.Errorf("%w: key_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.KeySecret) == "" {
		return fmt.Errorf("%w: key_secret is required", ErrConfigInvalid)
	}
	return nil
}

func (c *Config) normalize() {
	c.KeyID = strings.TrimSpace(c.KeyID)
	c.KeySecret = strings.TrimSpace(c.KeySecret)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
}

// CreateOrder 在网关侧创建订单
func CreateOrder(ctx context.Context, cfg *Config, input CreateInput) (*CreateResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if input.OrderNo == "" || input.Amount == "" {
		return nil, fmt.Errorf("%w: order_no and amount are required", ErrConfigInvalid)
	}

	paise, err := toMinorUnits(input.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid amount %q", ErrConfigInvalid, input.Amount)
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "INR"
	}

	params := map[string]interface{}{
		"amount":   paise,
		"currency": currency,
		"receipt":  input.OrderNo,
	}
	if len(input.Notes) > 0 {
		params["notes"] = input.Notes
	}

	respBytes, err := postJSON(ctx, cfg, cfg.BaseURL+"/orders", params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	var resp struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Status   string `json:"status"`
		Error    *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: %s %s", ErrResponseInvalid, resp.Error.Code, resp.Error.Description)
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("%w: missing order id", ErrResponseInvalid)
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(respBytes, &raw)

	return &CreateResult{
		GatewayOrderID: resp.ID,
		AmountPaise:    resp.Amount,
		Currency:       resp.Currency,
		Status:         resp.Status,
		Raw:            raw,
	}, nil
}

// VerifyPaymentSignature 校验支付完成签名
// 网关约定：HMAC-SHA256(order_id + "|" + payment_id, key_secret) 的十六进制小写。
func VerifyPaymentSignature(cfg *Config, data *CallbackData) error {
	if cfg == nil || data == nil {
		return ErrConfigInvalid
	}
	if data.GatewayOrderID == "" || data.GatewayPaymentID == "" || data.Signature == "" {
		return ErrSignatureInvalid
	}
	expected := signHex([]byte(data.GatewayOrderID+"|"+data.GatewayPaymentID), cfg.KeySecret)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(data.Signature))) != 1 {
		return ErrSignatureInvalid
	}
	return nil
}

// VerifyWebhookSignature 校验 Webhook 签名
// 网关约定：HMAC-SHA256(原始请求体, webhook secret) 的十六进制小写，置于 X-Razorpay-Signature。
func VerifyWebhookSignature(body []byte, signature, secret string) error {
	if len(body) == 0 || strings.TrimSpace(signature) == "" || secret == "" {
		return ErrSignatureInvalid
	}
	expected := signHex(body, secret)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature)))) != 1 {
		return ErrSignatureInvalid
	}
	return nil
}

func signHex(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// toMinorUnits 十进制金额转最小货币单位（两位小数）
func toMinorUnits(amount string) (int64, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return 0, fmt.Errorf("empty amount")
	}
	negative := strings.HasPrefix(trimmed, "-")
	if negative {
		return 0, fmt.Errorf("negative amount")
	}
	parts := strings.SplitN(trimmed, ".", 2)
	whole := parts[0]
	frac := "00"
	if len(parts) == 2 {
		frac = parts[1]
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("too many decimal places")
	}
	for len(frac) < 2 {
		frac += "0"
	}
	var total int64
	for _, ch := range whole + frac {
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("invalid digit %q", ch)
		}
		total = total*10 + int64(ch-'0')
	}
	return total, nil
}

func postJSON(ctx context.Context, cfg *Config, endpoint string, params map[string]interface{}) ([]byte, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(cfg.KeyID, cfg.KeySecret)

	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
