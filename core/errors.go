package core

import "errors"

var (
	// ErrAddressRequired is returned when no public address was supplied
	ErrAddressRequired = errors.New("public address is required")

	// ErrInvalidAddress is returned when the address is not valid hex
	ErrInvalidAddress = errors.New("invalid ethereum address")

	// ErrSignatureRequired is returned when no signature was supplied
	ErrSignatureRequired = errors.New("signature is required")

	// ErrIdentityNotFound is returned when no record exists for an address
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrIdentityExists is returned when creating an address that already has a record
	ErrIdentityExists = errors.New("identity already exists")

	// ErrInvalidSignature is returned when signature recovery does not yield the claimed address
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrNonceConsumed is returned when the nonce was rotated by a concurrent login
	ErrNonceConsumed = errors.New("nonce already consumed")

	// ErrInvalidToken is returned when a bearer token fails verification
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a bearer token is past its expiry
	ErrTokenExpired = errors.New("token has expired")

	// ErrStoreOperationFailed is returned when the persistence backend fails
	ErrStoreOperationFailed = errors.New("store operation failed")
)
