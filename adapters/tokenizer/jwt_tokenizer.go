package tokenizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Sandipan3/hackoasis-backend/core"
	"github.com/Sandipan3/hackoasis-backend/ports"
)

const AudienceSession = "auth:session"

// DefaultTokenTTL is the credential lifetime used when none is configured.
const DefaultTokenTTL = time.Hour

// JWTTokenizer implements the Tokenizer interface using HS256 JWTs signed
// with a server-held secret. Tokens are self-contained: validation needs no
// storage round-trip.
type JWTTokenizer struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTTokenizer creates a new JWT tokenizer.
func NewJWTTokenizer(secret []byte, ttl time.Duration) *JWTTokenizer {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTTokenizer{secret: secret, ttl: ttl}
}

// Issue mints a signed token for a verified identity.
func (j *JWTTokenizer) Issue(identity *core.Identity) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Audience:  jwt.ClaimStrings{AudienceSession},
		},
		Address: identity.Address.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Validate checks signature and expiry and returns the embedded claims.
func (j *JWTTokenizer) Validate(tokenStr string) (*core.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithAudience(AudienceSession))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, core.ErrTokenExpired
		}
		return nil, core.ErrInvalidToken
	}

	if !token.Valid {
		return nil, core.ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, core.ErrInvalidToken
	}

	return &core.Claims{
		Subject: claims.Subject,
		Address: core.Address(claims.Address),
	}, nil
}

var _ ports.Tokenizer = (*JWTTokenizer)(nil)
