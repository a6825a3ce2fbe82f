// Copyright (C) 2025 zkStash Project
//
// This file is part of zkstash-go.
//
// zkstash-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// zkstash-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with zkstash-go.  If not, see <https://www.gnu.org/licenses/>.

package attestation

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"github.com/zkstash/zkstash-go/pkg/canonical"
)

// WellKnownKeyPath is the service path publishing the verification key.
const WellKnownKeyPath = "/.well-known/zkstash/attestation-key"

// Verifier checks attestation signatures against the service's published
// ed25519 key. The key is fetched lazily, at most once per verifier
// lifetime, and never refreshed: a verifier that cached a since-rotated key
// keeps failing verification until a new verifier is constructed.
type Verifier struct {
	keyURL     string
	httpClient *http.Client
	logger     *zap.Logger

	mu      sync.Mutex
	rawKey  string
	fetched bool
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithHTTPClient sets a custom HTTP client for the key fetch.
func WithHTTPClient(client *http.Client) Option {
	return func(v *Verifier) {
		v.httpClient = client
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// NewVerifier creates a verifier that fetches its key from keyURL.
func NewVerifier(keyURL string, opts ...Option) *Verifier {
	v := &Verifier{
		keyURL:     keyURL,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// keyResponse is the well-known endpoint's body.
type keyResponse struct {
	AttestationPublicKey string `json:"attestationPublicKey"`
	Algorithm            string `json:"algorithm"`
}

// Verify checks a signed attestation. The expiry check always completes
// before any network activity, so an expired attestation never triggers the
// key fetch. Cryptographic failures come back as a result value; only a
// failed key fetch is an error.
func (v *Verifier) Verify(ctx context.Context, att Attestation, signature string) (VerificationResult, error) {
	if att.ExpiresAt <= time.Now().Unix() {
		v.logger.Debug("attestation expired",
			zap.Int64("expiresAt", att.ExpiresAt),
			zap.String("issuer", att.Issuer))
		return VerificationResult{Valid: false, Reason: ReasonExpired}, nil
	}

	rawKey, err := v.verificationKey(ctx)
	if err != nil {
		return VerificationResult{}, err
	}

	publicKey, ok := decodeKey(rawKey)
	if !ok {
		v.logger.Warn("malformed attestation verification key")
		return VerificationResult{Valid: false, Reason: ReasonInvalidSignature}, nil
	}

	sig, ok := decodeSignature(signature)
	if !ok {
		return VerificationResult{Valid: false, Reason: ReasonInvalidSignature}, nil
	}

	message, err := canonical.StableStringify(att)
	if err != nil {
		return VerificationResult{}, fmt.Errorf("attestation: failed to canonicalize: %w", err)
	}

	if !ed25519.Verify(publicKey, []byte(message), sig) {
		return VerificationResult{Valid: false, Reason: ReasonInvalidSignature}, nil
	}
	return VerificationResult{Valid: true}, nil
}

// VerifySigned is Verify over the wire pair.
func (v *Verifier) VerifySigned(ctx context.Context, signed SignedAttestation) (VerificationResult, error) {
	return v.Verify(ctx, signed.Attestation, signed.Signature)
}

// verificationKey returns the memoized key, fetching it on first use. The
// fill is idempotent: concurrent callers agree on whichever fetch wins.
func (v *Verifier) verificationKey(ctx context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.fetched {
		return v.rawKey, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.keyURL, nil)
	if err != nil {
		return "", fmt.Errorf("attestation: failed to create key request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("attestation: key fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("attestation: key endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var kr keyResponse
	if err := json.NewDecoder(resp.Body).Decode(&kr); err != nil {
		return "", fmt.Errorf("attestation: failed to decode key response: %w", err)
	}

	v.logger.Debug("fetched attestation verification key",
		zap.String("algorithm", kr.Algorithm))

	v.rawKey = kr.AttestationPublicKey
	v.fetched = true
	return v.rawKey, nil
}

// decodeKey accepts the key encodings the service has used: base58 (the
// default, a Solana-style public key), 0x-hex, and base64.
func decodeKey(raw string) (ed25519.PublicKey, bool) {
	if raw == "" {
		return nil, false
	}

	if strings.HasPrefix(raw, "0x") {
		b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
		if err != nil || len(b) != ed25519.PublicKeySize {
			return nil, false
		}
		return ed25519.PublicKey(b), true
	}

	if b, err := base58.Decode(raw); err == nil && len(b) == ed25519.PublicKeySize {
		return ed25519.PublicKey(b), true
	}
	if b, err := base64.StdEncoding.DecodeString(raw); err == nil && len(b) == ed25519.PublicKeySize {
		return ed25519.PublicKey(b), true
	}
	return nil, false
}

func decodeSignature(raw string) ([]byte, bool) {
	for _, decode := range []func(string) ([]byte, error){
		base64.StdEncoding.DecodeString,
		base64.RawStdEncoding.DecodeString,
	} {
		if b, err := decode(raw); err == nil && len(b) == ed25519.SignatureSize {
			return b, true
		}
	}
	return nil, false
}
