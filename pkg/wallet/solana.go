package wallet

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// Signing domain and header for the Solana off-chain message wrapper.
// See https://docs.solanalabs.com/proposals/off-chain-message-signing
var offchainSigningDomain = []byte("\xffsolana offchain")

const (
	offchainHeaderVersion = 0
	offchainMessageFormat = 0 // restricted ASCII

	// maxOffchainMessageLen is the largest payload the u16 length prefix
	// of the off-chain wrapper can carry.
	maxOffchainMessageLen = 65535
)

// SolanaSigner signs messages with an ed25519 key using the Solana
// off-chain message convention.
type SolanaSigner struct {
	privateKey solana.PrivateKey
	publicKey  solana.PublicKey
}

// NewSolanaSigner creates a SolanaSigner from a base58 private key. A
// 64-byte key is used as a full ed25519 keypair; a 32-byte key is treated
// as a seed and the keypair is derived from it.
func NewSolanaSigner(privateKeyBase58 string) (*SolanaSigner, error) {
	raw, err := base58.Decode(privateKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	switch len(raw) {
	case ed25519.PrivateKeySize:
		return NewSolanaSignerFromKey(solana.PrivateKey(raw)), nil
	case ed25519.SeedSize:
		return NewSolanaSignerFromKey(solana.PrivateKey(ed25519.NewKeyFromSeed(raw))), nil
	default:
		return nil, fmt.Errorf("%w: got %d bytes, want 64 (keypair) or 32 (seed)", ErrInvalidKeyLength, len(raw))
	}
}

// NewSolanaSignerFromKey creates a SolanaSigner from an existing private key.
func NewSolanaSignerFromKey(key solana.PrivateKey) *SolanaSigner {
	return &SolanaSigner{
		privateKey: key,
		publicKey:  key.PublicKey(),
	}
}

// Address returns the base58 public key of the wallet.
func (s *SolanaSigner) Address() string {
	return s.publicKey.String()
}

// Family returns FamilySolana.
func (s *SolanaSigner) Family() Family {
	return FamilySolana
}

// SignMessage wraps the message in the Solana off-chain signable envelope,
// signs it with the wallet key and returns the base64-encoded 64-byte
// detached signature.
func (s *SolanaSigner) SignMessage(message string) (string, error) {
	signable, err := WrapOffchainMessage([]byte(message))
	if err != nil {
		return "", err
	}

	sig, err := s.privateKey.Sign(signable)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig[:]), nil
}

// WrapOffchainMessage builds the length-prefixed signable wrapper around a
// raw message: signing domain, header version, message format, u16
// little-endian payload length, payload.
func WrapOffchainMessage(message []byte) ([]byte, error) {
	if len(message) > maxOffchainMessageLen {
		return nil, fmt.Errorf("message too long for off-chain signing: %d bytes", len(message))
	}

	buf := make([]byte, 0, len(offchainSigningDomain)+4+len(message))
	buf = append(buf, offchainSigningDomain...)
	buf = append(buf, offchainHeaderVersion)
	buf = append(buf, offchainMessageFormat)
	buf = append(buf, byte(len(message)), byte(len(message)>>8))
	return append(buf, message...), nil
}
