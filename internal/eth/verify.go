package eth

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverAddress derives the signing address from a personal_sign (EIP-191)
// signature over message. The signature must be the usual 65-byte R || S || V
// form; wallets emit V as 27/28 while go-ethereum expects 0/1.
func RecoverAddress(message, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(signature))
	}

	sig := make([]byte, crypto.SignatureLength)
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pubKey, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}

// VerifySignature checks a hex-encoded personal_sign signature over message
// against the expected address. A malformed signature or a recovery mismatch
// is an ordinary false result, not a fault.
func VerifySignature(message []byte, signatureHex string, expected common.Address) (bool, error) {
	sig, err := hexutil.Decode(signatureHex)
	if err != nil {
		return false, fmt.Errorf("failed to decode signature: %w", err)
	}

	recovered, err := RecoverAddress(message, sig)
	if err != nil {
		return false, err
	}

	return recovered == expected, nil
}
