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
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/zkstash/zkstash-go/pkg/canonical"
)

// IntegrityReport is the outcome of a local memory integrity check.
type IntegrityReport struct {
	Intact       bool      `json:"intact"`
	StoredHash   string    `json:"storedHash"`
	ComputedHash string    `json:"computedHash"`
	VerifiedAt   time.Time `json:"verifiedAt"`
}

// ComputeMemoryHash derives the content hash of a memory:
// sha256 over the canonical serialization of {kind, data, agentId},
// hex-encoded with a "0x" prefix. Pure and side-effect free.
func ComputeMemoryHash(kind string, data any, agentID string) (string, error) {
	message, err := canonical.StableStringify(map[string]any{
		"kind":    kind,
		"data":    data,
		"agentId": agentID,
	})
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256([]byte(message))
	return "0x" + hex.EncodeToString(sum[:]), nil
}

// VerifyMemoryHash recomputes a memory's content hash and compares it
// against the hash stored at write time. Never calls the network.
func VerifyMemoryHash(kind string, data any, agentID, storedHash string) (*IntegrityReport, error) {
	computed, err := ComputeMemoryHash(kind, data, agentID)
	if err != nil {
		return nil, err
	}
	return &IntegrityReport{
		Intact:       computed == storedHash,
		StoredHash:   storedHash,
		ComputedHash: computed,
		VerifiedAt:   time.Now(),
	}, nil
}
