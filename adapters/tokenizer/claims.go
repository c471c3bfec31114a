package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims combines standard claims with the wallet address
type SessionClaims struct {
	jwt.RegisteredClaims
	Address string `json:"address"`
}
