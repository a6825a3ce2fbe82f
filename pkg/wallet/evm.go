package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// EVMSigner signs messages with a secp256k1 key using the EIP-191
// personal-message convention.
type EVMSigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewEVMSigner creates an EVMSigner from a hex private key. The "0x" prefix
// is optional.
func NewEVMSigner(privateKeyHex string) (*EVMSigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return NewEVMSignerFromKey(key), nil
}

// NewEVMSignerFromKey creates an EVMSigner from an existing ECDSA key.
func NewEVMSignerFromKey(key *ecdsa.PrivateKey) *EVMSigner {
	return &EVMSigner{
		privateKey: key,
		address:    crypto.PubkeyToAddress(key.PublicKey),
	}
}

// Address returns the checksummed 0x-hex wallet address.
func (s *EVMSigner) Address() string {
	return s.address.Hex()
}

// Family returns FamilyEVM.
func (s *EVMSigner) Family() Family {
	return FamilyEVM
}

// SignMessage signs the message with the EIP-191 personal-message hash and
// returns a 65-byte hex signature prefixed "0x". The recovery id is offset
// by 27, matching what personal_sign wallets emit.
func (s *EVMSigner) SignMessage(message string) (string, error) {
	sig, err := crypto.Sign(PersonalMessageHash([]byte(message)), s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

// PersonalMessageHash computes the EIP-191 hash of a message:
// keccak256("\x19Ethereum Signed Message:\n" + len(msg) + msg).
func PersonalMessageHash(message []byte) []byte {
	prefix := fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(message))
	return crypto.Keccak256([]byte(prefix), message)
}
