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

// Attestation is a claim issued and signed by the zkStash service. The
// client treats it as opaque data to canonicalize and verify; it never
// constructs one.
type Attestation struct {
	// Claim is the enumerated claim tag (e.g. "memory_count").
	Claim string `json:"claim"`

	// Params are the claim-specific parameters the service evaluated.
	Params map[string]any `json:"params,omitempty"`

	// Result is the claim outcome.
	Result ClaimResult `json:"result"`

	// IssuedAt is the unix-seconds issuance time.
	IssuedAt int64 `json:"issuedAt"`

	// ExpiresAt is the unix-seconds expiry. Checked before anything else.
	ExpiresAt int64 `json:"expiresAt"`

	// Issuer identifies the signing service instance.
	Issuer string `json:"issuer"`
}

// ClaimResult is the evaluated outcome of an attestation claim.
type ClaimResult struct {
	// Satisfied reports whether the claim held.
	Satisfied bool `json:"satisfied"`

	// MatchCount is the number of matching memories, when the claim
	// counts them.
	MatchCount *int `json:"matchCount,omitempty"`

	// Namespace is the namespace the claim was evaluated against.
	Namespace string `json:"namespace"`
}

// SignedAttestation is the wire pair of an attestation and its detached
// signature.
type SignedAttestation struct {
	Attestation Attestation `json:"attestation"`
	Signature   string      `json:"signature"`
}

// Rejection reasons reported by Verify.
const (
	// ReasonExpired marks an attestation past its expiry.
	ReasonExpired = "attestation_expired"

	// ReasonInvalidSignature marks a signature that failed verification,
	// including malformed signature or key bytes.
	ReasonInvalidSignature = "invalid_signature"
)

// VerificationResult is the outcome of a local attestation check. Callers
// branch on it; it is never delivered as an error.
type VerificationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}
