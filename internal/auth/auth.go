// Package auth issues and verifies the HS256 session tokens used by the API.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the session lifetime when Config.TTL is zero.
const DefaultTTL = 7 * 24 * time.Hour

// Config holds signer and verification parameters.
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Claims represents the payload extracted from a session token.
type Claims struct {
	Subject   string
	Username  string
	ExpiresAt time.Time
}

// ErrMissingToken is returned when neither the Authorization header nor the token cookie is present.
var ErrMissingToken = errors.New("missing bearer token")

// ErrInvalidToken wraps parsing/validation errors.
var ErrInvalidToken = errors.New("invalid bearer token")

// Parse validates a JWT and returns normalized claims.
func Parse(token string, cfg Config) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	subject, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	if subject == "" || username == "" {
		return nil, ErrInvalidToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return &Claims{
		Subject:   subject,
		Username:  username,
		ExpiresAt: exp.Time,
	}, nil
}

// Signer issues session tokens. It satisfies domain.TokenIssuer.
type Signer struct {
	cfg Config
	now func() time.Time
}

// NewSigner constructs a Signer.
func NewSigner(cfg Config) *Signer {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Signer{cfg: cfg, now: time.Now}
}

// Issue signs a token for the user and returns it with its expiry.
func (s *Signer) Issue(userID, username string) (string, time.Time, error) {
	now := s.now().UTC()
	expires := now.Add(s.cfg.TTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"iss":      s.cfg.Issuer,
		"iat":      now.Unix(),
		"exp":      expires.Unix(),
	})
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}
