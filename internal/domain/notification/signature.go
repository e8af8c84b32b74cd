package notification

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// VerifySignature checks a webhook signature: base64(HMAC-SHA256(body, secret))
// compared against the presented value in constant time. It must be fed the
// exact raw request bytes — re-serializing parsed JSON can change the byte
// sequence and break the check. Returns false when either the presented
// signature or the secret is empty.
func VerifySignature(body []byte, presented, secret string) bool {
	if presented == "" || secret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(presented))
}
