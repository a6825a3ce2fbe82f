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

package e2e

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkstash/zkstash-go/pkg/attestation"
	"github.com/zkstash/zkstash-go/pkg/canonical"
	"github.com/zkstash/zkstash-go/pkg/client"
	"github.com/zkstash/zkstash-go/pkg/grant"
	"github.com/zkstash/zkstash-go/pkg/wallet"
)

// memoryService is an in-memory stand-in for the zkStash API. It verifies
// wallet auth signatures, honors grants attached to requests, issues signed
// attestations on search results and stores per-wallet memories.
type memoryService struct {
	mu       sync.Mutex
	nextID   int
	memories map[string][]client.Memory // owner address -> memories

	signKey ed25519.PrivateKey
	pubKey  ed25519.PublicKey
}

func newMemoryService(t *testing.T) *memoryService {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return &memoryService{
		memories: make(map[string][]client.Memory),
		signKey:  priv,
		pubKey:   pub,
	}
}

// caller recovers and verifies the request's wallet identity from the auth
// headers, the way the service does.
func (s *memoryService) caller(r *http.Request) (string, error) {
	address := r.Header.Get(client.AddressHeader)
	sigHex := r.Header.Get(client.AuthHeader)
	ts := r.Header.Get(client.AuthTimestampHeader)
	if address == "" || sigHex == "" || ts == "" {
		return "", fmt.Errorf("missing auth headers")
	}

	sig, err := hexutil.Decode(sigHex)
	if err != nil || len(sig) != 65 {
		return "", fmt.Errorf("malformed signature")
	}
	sig[64] -= 27

	hash := wallet.PersonalMessageHash([]byte("zkstash:auth:v1:" + ts))
	pub, err := ethcrypto.SigToPub(hash, sig)
	if err != nil {
		return "", fmt.Errorf("unrecoverable signature: %w", err)
	}
	recovered := ethcrypto.PubkeyToAddress(*pub).Hex()
	if !strings.EqualFold(recovered, address) {
		return "", fmt.Errorf("address mismatch: %s vs %s", recovered, address)
	}
	return recovered, nil
}

// grantedNamespaces returns the owner addresses the caller may search:
// their own, plus every valid unexpired grant naming them as grantee.
func (s *memoryService) grantedNamespaces(r *http.Request, caller string) []string {
	namespaces := []string{caller}
	header := r.Header.Get(client.GrantsHeader)
	if header == "" {
		return namespaces
	}

	for _, code := range strings.Split(header, ",") {
		g, err := grant.FromShareCode(code)
		if err != nil {
			continue
		}
		if !strings.EqualFold(g.Payload.Grantee, caller) {
			continue
		}
		if g.Payload.ExpiresAt <= time.Now().Unix() {
			continue
		}
		if !s.verifyGrantSignature(g) {
			continue
		}
		namespaces = append(namespaces, g.Payload.Grantor)
	}
	return namespaces
}

// verifyGrantSignature recovers the EVM signer of the grant's canonical
// message and compares it with the claimed grantor.
func (s *memoryService) verifyGrantSignature(g *grant.SignedGrant) bool {
	if g.Chain != grant.ChainEVM {
		return false
	}
	message, err := grant.BuildMessage(g.Payload)
	if err != nil {
		return false
	}

	sig, err := hexutil.Decode(g.Signature)
	if err != nil || len(sig) != 65 {
		return false
	}
	sig[64] -= 27

	pub, err := ethcrypto.SigToPub(wallet.PersonalMessageHash([]byte(message)), sig)
	if err != nil {
		return false
	}
	return strings.EqualFold(ethcrypto.PubkeyToAddress(*pub).Hex(), g.Payload.Grantor)
}

func (s *memoryService) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(attestation.WellKnownKeyPath, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"attestationPublicKey": base64.StdEncoding.EncodeToString(s.pubKey),
			"algorithm":            "ed25519",
		})
	})

	mux.HandleFunc("/v1/memories", func(w http.ResponseWriter, r *http.Request) {
		owner, err := s.caller(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		switch r.Method {
		case http.MethodPost:
			var req client.StoreMemoryRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			hash, err := attestation.ComputeMemoryHash(req.Kind, req.Data, req.AgentID)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			s.mu.Lock()
			s.nextID++
			mem := client.Memory{
				ID:          fmt.Sprintf("m_%d", s.nextID),
				Kind:        req.Kind,
				Data:        req.Data,
				Tags:        req.Tags,
				AgentID:     req.AgentID,
				ContentHash: hash,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}
			s.memories[owner] = append(s.memories[owner], mem)
			s.mu.Unlock()

			_ = json.NewEncoder(w).Encode(mem)

		case http.MethodGet:
			s.mu.Lock()
			memories := append([]client.Memory(nil), s.memories[owner]...)
			s.mu.Unlock()
			_ = json.NewEncoder(w).Encode(map[string]any{"memories": memories})

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/v1/memories/search", func(w http.ResponseWriter, r *http.Request) {
		caller, err := s.caller(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		var req client.SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var matches []client.Memory
		s.mu.Lock()
		for _, ns := range s.grantedNamespaces(r, caller) {
			for _, mem := range s.memories[ns] {
				if text, _ := mem.Data["text"].(string); strings.Contains(text, req.Query) {
					matches = append(matches, mem)
				}
			}
		}
		s.mu.Unlock()

		count := len(matches)
		att := attestation.Attestation{
			Claim:     "memory_count",
			Params:    map[string]any{"query": req.Query},
			Result:    attestation.ClaimResult{Satisfied: count > 0, MatchCount: &count, Namespace: caller},
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
			Issuer:    "zkstash-e2e",
		}
		message, err := canonical.StableStringify(att)
		require.NoError(t, err)

		_ = json.NewEncoder(w).Encode(client.SearchResponse{
			Memories: matches,
			Attestation: &attestation.SignedAttestation{
				Attestation: att,
				Signature:   base64.StdEncoding.EncodeToString(ed25519.Sign(s.signKey, []byte(message))),
			},
		})
	})

	return mux
}

func newWallet(t *testing.T) wallet.Signer {
	t.Helper()
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	return wallet.NewEVMSignerFromKey(key)
}

func TestE2E_StoreShareAndRecall(t *testing.T) {
	service := newMemoryService(t)
	srv := httptest.NewServer(service.handler(t))
	t.Cleanup(srv.Close)

	owner := newWallet(t)
	friend := newWallet(t)

	ownerClient, err := client.New(srv.URL, client.WithSigner(owner))
	require.NoError(t, err)
	friendClient, err := client.New(srv.URL, client.WithSigner(friend))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var stored *client.Memory

	t.Run("StoreMemory_Success", func(t *testing.T) {
		stored, err = ownerClient.StoreMemory(ctx, client.StoreMemoryRequest{
			Kind:    "note",
			Data:    map[string]any{"text": "the vault code is 4912"},
			AgentID: "home-agent",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, stored.ID)
		assert.NotEmpty(t, stored.ContentHash)

		// The stored hash is reproducible locally.
		report, err := ownerClient.VerifyMemory(stored)
		require.NoError(t, err)
		assert.True(t, report.Intact)
	})

	t.Run("Search_OwnNamespace", func(t *testing.T) {
		resp, err := ownerClient.SearchMemories(ctx, client.SearchRequest{Query: "vault"})
		require.NoError(t, err)
		require.Len(t, resp.Memories, 1)
		assert.Equal(t, stored.ID, resp.Memories[0].ID)

		// The attestation over the result verifies against the published key.
		require.NotNil(t, resp.Attestation)
		result, err := ownerClient.VerifyAttestation(ctx, *resp.Attestation)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		require.NotNil(t, resp.Attestation.Attestation.Result.MatchCount)
		assert.Equal(t, 1, *resp.Attestation.Attestation.Result.MatchCount)
	})

	t.Run("Search_WithoutGrantSeesNothing", func(t *testing.T) {
		resp, err := friendClient.SearchMemories(ctx, client.SearchRequest{Query: "vault"})
		require.NoError(t, err)
		assert.Empty(t, resp.Memories)
	})

	t.Run("Search_WithGrantSeesSharedNamespace", func(t *testing.T) {
		code, err := ownerClient.ShareGrant(grant.Options{
			Grantee:   friend.Address(),
			ExpiresIn: "1h",
		})
		require.NoError(t, err)
		require.NoError(t, friendClient.AddGrantCode(code))

		resp, err := friendClient.SearchMemories(ctx, client.SearchRequest{Query: "vault"})
		require.NoError(t, err)
		require.Len(t, resp.Memories, 1)
		assert.Equal(t, stored.ID, resp.Memories[0].ID)
	})

	t.Run("Search_TamperedGrantIsIgnored", func(t *testing.T) {
		signed, err := grant.Sign(owner, grant.Options{Grantee: friend.Address()})
		require.NoError(t, err)

		// Widen the grantor after signing; the recovered signer no longer
		// matches and the service must drop the grant.
		stranger := newWallet(t)
		signed.Payload.Grantor = stranger.Address()
		code, err := signed.ToShareCode()
		require.NoError(t, err)

		thief, err := client.New(srv.URL, client.WithSigner(friend))
		require.NoError(t, err)
		require.NoError(t, thief.AddGrantCode(code))

		resp, err := thief.SearchMemories(ctx, client.SearchRequest{Query: "vault"})
		require.NoError(t, err)
		assert.Empty(t, resp.Memories)
	})

	t.Run("ExpiredAttestation_FailsLocally", func(t *testing.T) {
		resp, err := ownerClient.SearchMemories(ctx, client.SearchRequest{Query: "vault"})
		require.NoError(t, err)
		require.NotNil(t, resp.Attestation)

		expired := *resp.Attestation
		expired.Attestation.ExpiresAt = time.Now().Add(-time.Minute).Unix()

		result, err := ownerClient.VerifyAttestation(ctx, expired)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, attestation.ReasonExpired, result.Reason)
	})

	t.Run("ListMemories_OwnerOnly", func(t *testing.T) {
		memories, err := ownerClient.ListMemories(ctx)
		require.NoError(t, err)
		assert.Len(t, memories, 1)

		memories, err = friendClient.ListMemories(ctx)
		require.NoError(t, err)
		assert.Empty(t, memories)
	})

	t.Run("BadSignature_Unauthorized", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/memories", nil)
		require.NoError(t, err)
		req.Header.Set(client.AddressHeader, owner.Address())
		req.Header.Set(client.AuthHeader, "0x"+strings.Repeat("ab", 65))
		req.Header.Set(client.AuthTimestampHeader, "1")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
