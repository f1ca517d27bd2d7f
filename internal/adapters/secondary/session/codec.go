package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/denchenko/cartdash/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
)

// JSONCodec stores the identity as URL-escaped JSON, safe for a cookie value.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON session codec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Encode encodes identity as {"email","avatarUrl"}.
func (c *JSONCodec) Encode(identity domain.Identity) (string, error) {
	b, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("failed to marshal identity: %w", err)
	}

	return url.QueryEscape(string(b)), nil
}

// Decode reverses Encode.
func (c *JSONCodec) Decode(value string) (domain.Identity, error) {
	raw, err := url.QueryUnescape(value)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrParse, err)
	}

	var identity domain.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrParse, err)
	}

	return identity, nil
}

type identityClaims struct {
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
	jwt.RegisteredClaims
}

// JWTCodec stores the identity as an HS256 signed token, so a tampered
// session value is rejected instead of trusted.
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTCodec creates a signed session codec. A zero ttl issues tokens
// without expiry.
func NewJWTCodec(secret string, ttl time.Duration) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}

	return &JWTCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Encode signs identity.
func (c *JWTCodec) Encode(identity domain.Identity) (string, error) {
	now := c.now()
	claims := identityClaims{
		Email:     identity.Email,
		AvatarURL: identity.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  identity.Email,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}

	return token, nil
}

// Decode verifies the signature and expiry of value.
func (c *JWTCodec) Decode(value string) (domain.Identity, error) {
	var claims identityClaims
	_, err := jwt.ParseWithClaims(value, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrParse, err)
	}

	return domain.Identity{
		Email:     claims.Email,
		AvatarURL: claims.AvatarURL,
	}, nil
}
