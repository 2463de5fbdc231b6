package domain

import "errors"

// Token decode errors. Anything that is not a well-formed, correctly signed
// token decodes to ErrInvalidSignature; a correctly signed token outside the
// configured validity window decodes to ErrTokenExpired.
var (
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrTokenExpired     = errors.New("token has expired")
)

// TokenPayload is the canonical content of a registration token. The JSON
// field names are wire-visible and must remain stable.
type TokenPayload struct {
	RegistrationID string `json:"registrationId"`
	UserID         string `json:"userId"`
	EventID        string `json:"eventId"`
	IssuedAt       int64  `json:"issuedAt"`
}

// TokenCodec mints and decodes the signed string embedded in a QR code.
// The wire format is base64url(payload-json) + "." + base64url(mac).
type TokenCodec interface {
	Mint(payload TokenPayload) (string, error)
	Decode(token string) (*TokenPayload, error)
}
