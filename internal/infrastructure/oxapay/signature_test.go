package oxapay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerify(t *testing.T) {
	body := []byte(`{"orderId":"123456789_abc","status":"paid","payAmount":"0.0002","currency":"BTC"}`)
	secret := "merchant-secret"

	t.Run("valid signature", func(t *testing.T) {
		if !Verify(body, sign(body, secret), secret) {
			t.Error("expected valid signature to verify")
		}
	})

	t.Run("tampered body", func(t *testing.T) {
		tampered := []byte(`{"orderId":"123456789_abc","status":"paid","payAmount":"2.0002","currency":"BTC"}`)
		if Verify(tampered, sign(body, secret), secret) {
			t.Error("expected tampered body to fail verification")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		if Verify(body, sign(body, "other-secret"), secret) {
			t.Error("expected signature from wrong secret to fail")
		}
	})

	t.Run("missing signature", func(t *testing.T) {
		if Verify(body, "", secret) {
			t.Error("expected empty signature to fail")
		}
	})

	t.Run("missing secret", func(t *testing.T) {
		if Verify(body, sign(body, ""), "") {
			t.Error("expected empty secret to fail")
		}
	})
}

func TestVerifyRawBytesSensitivity(t *testing.T) {
	// semantically equal JSON with different byte content must not verify:
	// the digest covers the raw transport bytes, not the parsed value
	secret := "merchant-secret"
	compact := []byte(`{"a":1}`)
	spaced := []byte(`{"a": 1}`)

	if Verify(spaced, sign(compact, secret), secret) {
		t.Error("expected re-serialized body to fail verification")
	}
}
