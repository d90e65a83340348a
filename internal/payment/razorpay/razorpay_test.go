package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
)

func signFor(t *testing.T, payload, secret string) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(map[string]interface{}{
		"key_id":     "rzp_test_abc",
		"key_secret": "secret123",
	})
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.KeyID != "rzp_test_abc" {
		t.Fatalf("unexpected key_id: %s", cfg.KeyID)
	}
	if cfg.BaseURL != defaultBaseURL {
		t.Fatalf("expected default base url, got %s", cfg.BaseURL)
	}
}

func TestParseConfigEmpty(t *testing.T) {
	if _, err := ParseConfig(nil); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestValidateConfigMissingSecret(t *testing.T) {
	err := ValidateConfig(&Config{KeyID: "rzp_test_abc"})
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestVerifyPaymentSignature(t *testing.T) {
	cfg := &Config{KeyID: "rzp_test_abc", KeySecret: "secret123"}
	data := &CallbackData{
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_xyz",
	}
	data.Signature = signFor(t, "order_abc|pay_xyz", cfg.KeySecret)

	if err := VerifyPaymentSignature(cfg, data); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
}

func TestVerifyPaymentSignatureTampered(t *testing.T) {
	cfg := &Config{KeyID: "rzp_test_abc", KeySecret: "secret123"}
	data := &CallbackData{
		GatewayOrderID:   "order_abc",
		GatewayPaymentID: "pay_xyz",
		Signature:        signFor(t, "order_abc|pay_other", cfg.KeySecret),
	}
	if err := VerifyPaymentSignature(cfg, data); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	secret := "whsec_456"

	if err := VerifyWebhookSignature(body, signFor(t, string(body), secret), secret); err != nil {
		t.Fatalf("valid webhook signature rejected: %v", err)
	}
	if err := VerifyWebhookSignature(body, "deadbeef", secret); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1499.00", 149900, false},
		{"0.50", 50, false},
		{"250", 25000, false},
		{"12.5", 1250, false},
		{"1.999", 0, true},
		{"-10.00", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := toMinorUnits(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("toMinorUnits(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("toMinorUnits(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("toMinorUnits(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
