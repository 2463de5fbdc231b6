// Package token implements the signed registration-token codec. A token is
// base64url(payload-json) + "." + base64url(hmac-sha256(payload-json)),
// signed with a process-wide secret. Rotating the secret invalidates every
// previously issued token.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/domain"
)

type hmacCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewHMACCodec returns a TokenCodec signing with HMAC-SHA256 over the given
// secret. A non-zero ttl makes Decode reject tokens older than issuedAt+ttl;
// zero means tokens never expire. Expiry is checked at decode time only.
func NewHMACCodec(secret string, ttl time.Duration) domain.TokenCodec {
	return &hmacCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (c *hmacCodec) Mint(payload domain.TokenPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal token payload: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw) + "." +
		base64.RawURLEncoding.EncodeToString(c.sign(raw)), nil
}

func (c *hmacCodec) Decode(token string) (*domain.TokenPayload, error) {
	dot := strings.IndexByte(token, '.')
	if dot < 0 || strings.IndexByte(token[dot+1:], '.') >= 0 {
		return nil, domain.ErrInvalidSignature
	}
	raw, err := base64.RawURLEncoding.DecodeString(token[:dot])
	if err != nil {
		return nil, domain.ErrInvalidSignature
	}
	sig, err := base64.RawURLEncoding.DecodeString(token[dot+1:])
	if err != nil {
		return nil, domain.ErrInvalidSignature
	}
	// hmac.Equal is constant-time.
	if !hmac.Equal(sig, c.sign(raw)) {
		return nil, domain.ErrInvalidSignature
	}
	var payload domain.TokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, domain.ErrInvalidSignature
	}
	if payload.RegistrationID == "" || payload.UserID == "" || payload.EventID == "" {
		return nil, domain.ErrInvalidSignature
	}
	if c.ttl > 0 {
		issued := time.Unix(payload.IssuedAt, 0)
		if c.now().After(issued.Add(c.ttl)) {
			return nil, domain.ErrTokenExpired
		}
	}
	return &payload, nil
}

func (c *hmacCodec) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
