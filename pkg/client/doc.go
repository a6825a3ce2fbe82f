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

// Package client provides the zkStash API client: wallet-authenticated
// memory storage with grant-based sharing, local attestation verification
// and transparent micropayments.
//
// # Basic usage
//
//	signer, _ := wallet.NewSignerFromPrivateKey(key)
//	c, err := client.New("https://api.zkstash.dev",
//	    client.WithSigner(signer),
//	    client.WithPayment(prover, payment.WithMaxAmount(big.NewInt(10000))),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mem, err := c.StoreMemory(ctx, client.StoreMemoryRequest{
//	    Kind: "note",
//	    Data: map[string]any{"text": "remember this"},
//	})
//
// Grants added with AddGrant ride on every subsequent request, letting
// searches span namespaces shared by other agents. Attestations returned by
// the service can be checked locally with VerifyAttestation.
package client
