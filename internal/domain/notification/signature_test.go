package notification

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"id":123,"total_price":"49.99"}`)

	tests := []struct {
		name      string
		body      []byte
		presented string
		secret    string
		want      bool
	}{
		{
			name:      "valid signature",
			body:      body,
			presented: sign(body, secret),
			secret:    secret,
			want:      true,
		},
		{
			name:      "signature over different bytes",
			body:      body,
			presented: sign([]byte(`{"id":123,"total_price":"49.98"}`), secret),
			secret:    secret,
			want:      false,
		},
		{
			name:      "wrong secret",
			body:      body,
			presented: sign(body, "other"),
			secret:    secret,
			want:      false,
		},
		{
			name:      "missing signature",
			body:      body,
			presented: "",
			secret:    secret,
			want:      false,
		},
		{
			name:      "missing secret",
			body:      body,
			presented: sign(body, secret),
			secret:    "",
			want:      false,
		},
		{
			name:      "garbage signature",
			body:      body,
			presented: "not-base64-of-anything",
			secret:    secret,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifySignature(tt.body, tt.presented, tt.secret))
		})
	}
}

func TestVerifySignatureRawBytesMatter(t *testing.T) {
	secret := "whsec_test"

	// Semantically identical JSON, different bytes. The signature covers
	// bytes, so only the exact original body verifies.
	original := []byte(`{"a":1,"b":2}`)
	reordered := []byte(`{"b":2,"a":1}`)

	sig := sign(original, secret)
	assert.True(t, VerifySignature(original, sig, secret))
	assert.False(t, VerifySignature(reordered, sig, secret))
}
