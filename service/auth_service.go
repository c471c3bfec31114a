package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/Sandipan3/hackoasis-backend/core"
	"github.com/Sandipan3/hackoasis-backend/internal/eth"
	"github.com/Sandipan3/hackoasis-backend/ports"
)

// nonceBytes is the entropy of a challenge nonce: 256 bits, hex encoded to 64
// characters. The nonce is the sole unpredictability anchor for replay
// prevention, so this must never shrink.
const nonceBytes = 32

// AuthService handles the nonce-based wallet authentication flow
type AuthService struct {
	store     ports.IdentityStore
	tokenizer ports.Tokenizer
	eventPub  ports.EventPublisher
}

// NewAuthService creates a new authentication service. eventPub may be nil
// when no event transport is configured.
func NewAuthService(store ports.IdentityStore, tokenizer ports.Tokenizer, eventPub ports.EventPublisher) *AuthService {
	return &AuthService{
		store:     store,
		tokenizer: tokenizer,
		eventPub:  eventPub,
	}
}

// GetOrCreateNonce returns the current challenge nonce for an address,
// lazily creating the identity record on first sight. Repeated calls without
// an intervening login return the same nonce, so a client can always finish
// the challenge it was handed.
func (s *AuthService) GetOrCreateNonce(ctx context.Context, rawAddress string) (string, error) {
	address, err := core.ParseAddress(rawAddress)
	if err != nil {
		return "", err
	}

	identity, err := s.store.FindByAddress(ctx, address)
	if err == nil {
		return identity.Nonce, nil
	}
	if !errors.Is(err, core.ErrIdentityNotFound) {
		return "", fmt.Errorf("failed to look up identity: %w", err)
	}

	nonce, err := newNonce()
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	created, err := s.store.Create(ctx, &core.Identity{
		ID:      uuid.New().String(),
		Address: address,
		Nonce:   nonce,
	})
	if err != nil {
		if errors.Is(err, core.ErrIdentityExists) {
			// Lost a creation race; the winner's nonce is the current one.
			existing, ferr := s.store.FindByAddress(ctx, address)
			if ferr != nil {
				return "", fmt.Errorf("failed to re-read identity: %w", ferr)
			}
			return existing.Nonce, nil
		}
		return "", fmt.Errorf("failed to create identity: %w", err)
	}

	return created.Nonce, nil
}

// Login verifies a signature over the current challenge, rotates the nonce
// and mints a bearer token. Rotation happens before issuance: a captured
// signature can never mint a second credential.
func (s *AuthService) Login(ctx context.Context, rawAddress, signature string) (string, core.Address, error) {
	if signature == "" {
		return "", "", core.ErrSignatureRequired
	}
	address, err := core.ParseAddress(rawAddress)
	if err != nil {
		return "", "", err
	}

	identity, err := s.store.FindByAddress(ctx, address)
	if err != nil {
		return "", "", err
	}

	message := core.ChallengeMessage(identity.Nonce)
	verified, err := eth.VerifySignature([]byte(message), signature, address.Common())
	if err != nil || !verified {
		// A malformed or mismatching signature is an expected outcome, not a fault.
		return "", "", core.ErrInvalidSignature
	}

	next, err := newNonce()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	rotated, err := s.store.RotateNonce(ctx, address, identity.Nonce, next)
	if err != nil {
		return "", "", err
	}

	token, err := s.tokenizer.Issue(rotated)
	if err != nil {
		return "", "", fmt.Errorf("failed to issue token: %w", err)
	}

	if s.eventPub != nil {
		if err := s.eventPub.PublishLogin(ctx, address, rotated.ID); err != nil {
			// The login already succeeded; a missed event must not fail it.
			log.Printf("Warning: failed to publish login event: %v", err)
		}
	}

	return token, address, nil
}

func newNonce() (string, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
