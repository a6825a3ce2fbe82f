package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known test key (hardhat account #0). Never fund this address.
const (
	testEVMKey     = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testEVMAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func newTestEd25519Key(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub, priv
}

func TestNewSignerFromPrivateKey_EVM(t *testing.T) {
	signer, err := NewSignerFromPrivateKey(testEVMKey)
	require.NoError(t, err)

	assert.Equal(t, FamilyEVM, signer.Family())
	assert.Equal(t, testEVMAddress, signer.Address())
}

func TestNewSignerFromPrivateKey_SolanaKeypair(t *testing.T) {
	pub, priv := newTestEd25519Key(t)

	signer, err := NewSignerFromPrivateKey(base58.Encode(priv))
	require.NoError(t, err)

	assert.Equal(t, FamilySolana, signer.Family())
	assert.Equal(t, base58.Encode(pub), signer.Address())
}

func TestNewSignerFromPrivateKey_SolanaSeed(t *testing.T) {
	pub, priv := newTestEd25519Key(t)
	seed := priv.Seed()

	signer, err := NewSignerFromPrivateKey(base58.Encode(seed))
	require.NoError(t, err)

	// A seed-derived signer must match the full-keypair signer.
	assert.Equal(t, base58.Encode(pub), signer.Address())
}

func TestNewSignerFromPrivateKey_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{
			name:    "empty key",
			key:     "",
			wantErr: ErrEmptyPrivateKey,
		},
		{
			name:    "malformed hex",
			key:     "0xnothex",
			wantErr: ErrInvalidPrivateKey,
		},
		{
			name:    "malformed base58",
			key:     "0OIl+/=",
			wantErr: ErrInvalidPrivateKey,
		},
		{
			name:    "unsupported key length",
			key:     base58.Encode(make([]byte, 16)),
			wantErr: ErrInvalidKeyLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSignerFromPrivateKey(tt.key)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEVMSigner_SignMessage(t *testing.T) {
	signer, err := NewEVMSigner(testEVMKey)
	require.NoError(t, err)

	message := "zkstash:grant:v1:eyJlIjoxNzM1Njg5NjAwfQ=="
	sig, err := signer.SignMessage(message)
	require.NoError(t, err)

	// 65 bytes hex-encoded with the 0x prefix.
	assert.True(t, strings.HasPrefix(sig, "0x"))
	assert.Len(t, sig, 2+65*2)

	// The signature must recover to the signer's address.
	sigBytes, err := hexutil.Decode(sig)
	require.NoError(t, err)
	sigBytes[crypto.RecoveryIDOffset] -= 27
	pub, err := crypto.SigToPub(PersonalMessageHash([]byte(message)), sigBytes)
	require.NoError(t, err)
	assert.Equal(t, testEVMAddress, crypto.PubkeyToAddress(*pub).Hex())
}

func TestEVMSigner_SignMessage_Deterministic(t *testing.T) {
	signer, err := NewEVMSigner(testEVMKey)
	require.NoError(t, err)

	sig1, err := signer.SignMessage("same message")
	require.NoError(t, err)
	sig2, err := signer.SignMessage("same message")
	require.NoError(t, err)

	// go-ethereum's crypto.Sign is RFC 6979 deterministic.
	assert.Equal(t, sig1, sig2)
}

func TestSolanaSigner_SignMessage(t *testing.T) {
	pub, priv := newTestEd25519Key(t)
	signer, err := NewSolanaSigner(base58.Encode(priv))
	require.NoError(t, err)

	message := "zkstash:grant:v1:eyJlIjoxNzM1Njg5NjAwfQ=="
	sig, err := signer.SignMessage(message)
	require.NoError(t, err)

	sigBytes, err := base64.StdEncoding.DecodeString(sig)
	require.NoError(t, err)
	require.Len(t, sigBytes, ed25519.SignatureSize)

	signable, err := WrapOffchainMessage([]byte(message))
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(pub, signable, sigBytes))
}

func TestWrapOffchainMessage(t *testing.T) {
	wrapped, err := WrapOffchainMessage([]byte("hello"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(wrapped), "\xffsolana offchain"))
	// header version, message format, u16 LE length, payload
	tail := wrapped[len("\xffsolana offchain"):]
	assert.Equal(t, []byte{0, 0, 5, 0}, tail[:4])
	assert.Equal(t, "hello", string(tail[4:]))
}

func TestWrapOffchainMessage_TooLong(t *testing.T) {
	_, err := WrapOffchainMessage(make([]byte, 65536))
	require.Error(t, err)
}

func TestFamilyOfAddress(t *testing.T) {
	assert.Equal(t, FamilyEVM, FamilyOfAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"))
	assert.Equal(t, FamilySolana, FamilyOfAddress("9aE476sH92Vz7DMPyq5WLPkrKWivxeuTKEFKd2sZZcde"))
	assert.Equal(t, FamilySolana, FamilyOfAddress(""))
}
