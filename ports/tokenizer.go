package ports

import "github.com/Sandipan3/hackoasis-backend/core"

// Tokenizer mints and verifies bearer credentials. Validation must be a
// purely local computation so the middleware never blocks on storage.
type Tokenizer interface {
	// Issue mints a signed, time-limited token for a verified identity.
	Issue(identity *core.Identity) (string, error)

	// Validate checks signature and expiry and returns the embedded claims.
	Validate(token string) (*core.Claims, error)
}
