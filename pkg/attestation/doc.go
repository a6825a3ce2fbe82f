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

// Package attestation verifies service-issued attestations locally, without
// contacting the service for anything but its published verification key.
//
// An attestation is a signed claim about stored memories ("the namespace
// holds N memories matching these params") that a third party can check
// offline. Verification is a two-stage, order-sensitive process:
//
//  1. Expiry. An expired attestation is rejected immediately with reason
//     "attestation_expired" and no network activity at all.
//  2. Signature. The verifier lazily fetches the service's ed25519
//     verification key from its well-known endpoint (at most once per
//     verifier lifetime), reproduces the canonical serialization of the
//     attestation body and checks the detached signature.
//
// Cryptographic outcomes are values, not errors: callers branch on
// VerificationResult. Only transport failures while fetching the key
// surface as errors.
//
// The package also provides the local memory integrity hash
// (ComputeMemoryHash, VerifyMemoryHash), which reuses the same canonical
// serialization and never touches the network.
package attestation
