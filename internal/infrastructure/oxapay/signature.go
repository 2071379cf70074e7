package oxapay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verify checks the HMAC-SHA256 signature OxaPay attaches to webhook
// callbacks. The digest is computed over the exact raw transport bytes:
// re-serializing the parsed body can silently reorder keys or drop
// whitespace and break verification.
func Verify(rawBody []byte, providedSignature, merchantSecret string) bool {
	if providedSignature == "" || merchantSecret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(merchantSecret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(providedSignature))
}
