package core

import "time"

// Identity is the single durable record kept per wallet address. The nonce is
// the current one-time challenge; it changes on every successful login and
// never on a nonce request.
type Identity struct {
	ID        string    // Unique identifier for the record
	Address   Address   // Canonical lowercase wallet address
	Nonce     string    // Current challenge value, hex encoded
	CreatedAt time.Time // When the record was created
	UpdatedAt time.Time // When the nonce last changed
}

// Claims are the identity assertions carried by a bearer token.
type Claims struct {
	Subject string  // Identity record id
	Address Address // Wallet address the token was issued for
}

// ChallengeMessage builds the exact text a wallet must sign for the given
// nonce. Client and server must agree on these bytes, so the template is
// fixed and documented.
func ChallengeMessage(nonce string) string {
	return "Sign this nonce: " + nonce
}
