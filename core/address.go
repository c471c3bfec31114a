package core

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Address is a canonical lowercase Ethereum address. Raw user input must pass
// through ParseAddress before it reaches the store, so casing can never split
// one wallet into two identities.
type Address string

// ParseAddress normalizes and validates a raw address string.
func ParseAddress(raw string) (Address, error) {
	if raw == "" {
		return "", ErrAddressRequired
	}
	if !common.IsHexAddress(raw) {
		return "", ErrInvalidAddress
	}
	return Address(strings.ToLower(raw)), nil
}

// Common returns the checksummed go-ethereum representation.
func (a Address) Common() common.Address {
	return common.HexToAddress(string(a))
}

func (a Address) String() string {
	return string(a)
}
