package wallet

import (
	"errors"
	"strings"
)

// Family identifies the signature scheme a wallet belongs to.
type Family string

const (
	// FamilyEVM marks secp256k1 wallets with hex "0x" addresses.
	FamilyEVM Family = "evm"

	// FamilySolana marks ed25519 wallets with base58 addresses.
	FamilySolana Family = "sol"
)

// Input errors for signer construction.
var (
	// ErrInvalidPrivateKey indicates a private key that could not be decoded.
	ErrInvalidPrivateKey = errors.New("wallet: invalid private key")

	// ErrInvalidKeyLength indicates a base58 private key of unsupported length.
	// Supported lengths are 64 bytes (full ed25519 keypair) and 32 bytes (seed).
	ErrInvalidKeyLength = errors.New("wallet: unsupported private key length")

	// ErrEmptyPrivateKey indicates an empty private key string.
	ErrEmptyPrivateKey = errors.New("wallet: empty private key")
)

// Signer is the wallet capability handle. Implementations carry the chain
// family as a type-level fact; FamilyOfAddress exists only for classifying
// addresses received from elsewhere.
type Signer interface {
	// Address returns the wallet address in its native textual form
	// (0x-hex for EVM, base58 for Solana).
	Address() string

	// Family returns the signature scheme family of this wallet.
	Family() Family

	// SignMessage signs an arbitrary message and returns the signature in
	// the family's wire encoding (hex for EVM, base64 for Solana).
	SignMessage(message string) (string, error)
}

// FamilyOfAddress classifies an address by its textual shape: a "0x" prefix
// means EVM, anything else is treated as a base58 Solana public key.
func FamilyOfAddress(address string) Family {
	if strings.HasPrefix(address, "0x") {
		return FamilyEVM
	}
	return FamilySolana
}

// NewSignerFromPrivateKey constructs a signer from a raw private key string.
// Hex keys with a "0x" prefix yield an EVMSigner; all other keys are
// base58-decoded and classified by byte length (64 = full ed25519 keypair,
// 32 = seed). Any other shape fails with a distinguishable error.
func NewSignerFromPrivateKey(raw string) (Signer, error) {
	if raw == "" {
		return nil, ErrEmptyPrivateKey
	}
	if strings.HasPrefix(raw, "0x") {
		return NewEVMSigner(raw)
	}
	return NewSolanaSigner(raw)
}
