package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload carried by the session cookie.
type Claims struct {
	AdminID string `json:"adminId"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with HS256.
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec builds a Codec. The secret must be at least 16 bytes.
func NewCodec(secret []byte, issuer string) (*Codec, error) {
	if len(secret) < 16 {
		return nil, errors.New("session: secret must be at least 16 bytes")
	}
	return &Codec{secret: append([]byte(nil), secret...), issuer: issuer}, nil
}

// Encode signs s.
func (c *Codec) Encode(s Session, issuedAt time.Time) (string, error) {
	claims := Claims{
		AdminID: s.AdminID,
		Email:   s.Email,
		Name:    s.Name,
		Role:    s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Issuer:    c.issuer,
			Subject:   s.AdminID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies raw and returns its session.
func (c *Codec) Decode(raw string) (Session, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Session{}, fmt.Errorf("%w: %v", ErrNoSession, jwt.ErrSignatureInvalid)
	}
	s := Session{
		ID:      claims.ID,
		AdminID: claims.AdminID,
		Email:   claims.Email,
		Name:    claims.Name,
		Role:    claims.Role,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}
