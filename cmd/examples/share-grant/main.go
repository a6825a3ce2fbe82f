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

package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"

	"github.com/zkstash/zkstash-go/pkg/grant"
	"github.com/zkstash/zkstash-go/pkg/wallet"
)

func main() {
	fmt.Println("zkStash Go - Grant Sharing Example")
	fmt.Println("===================================")

	// Generate two throwaway wallets: an EVM grantor and a Solana grantee.
	fmt.Println("\n1. Generating wallets...")
	evmKey, err := crypto.GenerateKey()
	if err != nil {
		log.Fatalf("Failed to generate EVM key: %v", err)
	}
	grantor := wallet.NewEVMSignerFromKey(evmKey)
	fmt.Printf("   Grantor (%s): %s\n", grantor.Family(), grantor.Address())

	_, solKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		log.Fatalf("Failed to generate Solana key: %v", err)
	}
	grantee, err := wallet.NewSolanaSigner(base58.Encode(solKey))
	if err != nil {
		log.Fatalf("Failed to create grantee signer: %v", err)
	}
	fmt.Printf("   Grantee (%s): %s\n", grantee.Family(), grantee.Address())

	// The grantor signs a grant giving the grantee two hours of read access.
	fmt.Println("\n2. Signing a grant...")
	signed, err := grant.Sign(grantor, grant.Options{
		Grantee:   grantee.Address(),
		AgentID:   "travel-agent",
		ExpiresIn: "2h",
	})
	if err != nil {
		log.Fatalf("Failed to sign grant: %v", err)
	}
	fmt.Printf("   Grantor:    %s\n", signed.Payload.Grantor)
	fmt.Printf("   Grantee:    %s\n", signed.Payload.Grantee)
	fmt.Printf("   Agent:      %s\n", signed.Payload.AgentID)
	fmt.Printf("   Expires at: %s\n", time.Unix(signed.Payload.ExpiresAt, 0).Format(time.RFC3339))
	fmt.Printf("   Chain tag:  %s\n", signed.Chain)

	// The grant travels as a single opaque share code.
	fmt.Println("\n3. Encoding the share code...")
	code, err := signed.ToShareCode()
	if err != nil {
		log.Fatalf("Failed to encode share code: %v", err)
	}
	fmt.Printf("   %s\n", code)

	// The grantee decodes the code and attaches it to their grant set.
	fmt.Println("\n4. Receiving the grant...")
	received, err := grant.FromShareCode(code)
	if err != nil {
		log.Fatalf("Failed to decode share code: %v", err)
	}

	set := grant.NewSet()
	set.Add(*received)
	set.Add(*received) // duplicates are ignored
	fmt.Printf("   Grants held: %d\n", set.Len())

	codes, err := set.ShareCodes()
	if err != nil {
		log.Fatalf("Failed to encode grant set: %v", err)
	}
	fmt.Printf("   Round trip matches: %v\n", codes[0] == code)

	fmt.Println("\nDone. Attach the code to a client with AddGrantCode to search the shared namespace.")
}
