package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried inside a session token. The fields are fixed
// at issue time and reconstructed verbatim on verification; nothing here is
// ever persisted server-side.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// Codec signs and verifies session tokens. The signing key and TTL are set
// once at construction and read concurrently without locking; there is no
// rotation path.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a Codec from the configured signing secret and token TTL.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs an HS256 token for the given account. Issued-at is the current
// UTC instant and expiry is issued-at plus the configured TTL. The signature
// covers the identity fields and both timestamps, so neither the payload nor
// the lifetime can be altered without detection.
func (c *Codec) Issue(userID, email, name string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		UserID: userID,
		Email:  email,
		Name:   name,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses raw, checks the signature and the expiry against the current
// wall clock (no leeway), and returns the embedded claims. The error is one
// of ErrTokenExpired, ErrTokenSignatureInvalid or ErrTokenMalformed; callers
// treat all three as unauthenticated but can log them apart.
func (c *Codec) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, ErrTokenMalformed
		}
	}
	if !tok.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// ExtractUserID verifies raw and returns the account identifier claim.
func (c *Codec) ExtractUserID(raw string) (string, error) {
	claims, err := c.Verify(raw)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// ExtractEmail verifies raw and returns the email claim.
func (c *Codec) ExtractEmail(raw string) (string, error) {
	claims, err := c.Verify(raw)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}

// ExtractName verifies raw and returns the display name claim.
func (c *Codec) ExtractName(raw string) (string, error) {
	claims, err := c.Verify(raw)
	if err != nil {
		return "", err
	}
	return claims.Name, nil
}
