package tokenizer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sandipan3/hackoasis-backend/core"
)

var testIdentity = &core.Identity{
	ID:      "7e4cfa4e-9c5a-42aa-9c20-3b0f3b7a2f11",
	Address: "0xabc0000000000000000000000000000000000001",
	Nonce:   "deadbeef",
}

func TestIssueAndValidate(t *testing.T) {
	tok := NewJWTTokenizer([]byte("test-secret"), time.Hour)

	token, err := tok.Issue(testIdentity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tok.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, testIdentity.ID, claims.Subject)
	assert.Equal(t, testIdentity.Address, claims.Address)
}

func TestValidateTamperedToken(t *testing.T) {
	tok := NewJWTTokenizer([]byte("test-secret"), time.Hour)

	token, err := tok.Issue(testIdentity)
	require.NoError(t, err)

	// Flip a byte in the payload segment
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = tok.Validate(tampered)
	assert.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestValidateWrongSecret(t *testing.T) {
	issuer := NewJWTTokenizer([]byte("secret-a"), time.Hour)
	validator := NewJWTTokenizer([]byte("secret-b"), time.Hour)

	token, err := issuer.Issue(testIdentity)
	require.NoError(t, err)

	_, err = validator.Validate(token)
	assert.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	tok := NewJWTTokenizer([]byte("test-secret"), -time.Minute)

	token, err := tok.Issue(testIdentity)
	require.NoError(t, err)

	_, err = tok.Validate(token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestValidateGarbage(t *testing.T) {
	tok := NewJWTTokenizer([]byte("test-secret"), time.Hour)

	_, err := tok.Validate("not.a.jwt")
	assert.ErrorIs(t, err, core.ErrInvalidToken)
}

func TestDefaultTTL(t *testing.T) {
	tok := NewJWTTokenizer([]byte("test-secret"), 0)
	assert.Equal(t, DefaultTokenTTL, tok.ttl)
}
