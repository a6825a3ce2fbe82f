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
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"

	"go.uber.org/zap"

	"github.com/zkstash/zkstash-go/pkg/client"
	"github.com/zkstash/zkstash-go/pkg/payment"
	"github.com/zkstash/zkstash-go/pkg/wallet"
)

// demoServer stands in for the zkStash API: search costs 50 units, paid
// through the X-PAYMENT header.
func demoServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/memories/search" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get(payment.ProofHeader) == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusPaymentRequired)
			_ = json.NewEncoder(w).Encode(payment.RequiredResponse{
				Error: "payment required",
				Accepts: []payment.Requirement{{
					Scheme:            payment.SchemeExact,
					Network:           "base",
					MaxAmountRequired: "50",
					Asset:             "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
					PayTo:             "0x0000000000000000000000000000000000000001",
				}},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(client.SearchResponse{
			Memories: []client.Memory{{
				ID:   "m_1",
				Kind: "note",
				Data: map[string]any{"text": "trip to Lisbon booked for October"},
			}},
		})
	}))
}

func main() {
	fmt.Println("zkStash Go - Paid Recall Example")
	fmt.Println("=================================")

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	srv := demoServer()
	defer srv.Close()

	// A private key from the environment, or the well-known hardhat dev key.
	key := os.Getenv("ZKSTASH_PRIVATE_KEY")
	if key == "" {
		key = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	}
	signer, err := wallet.NewSignerFromPrivateKey(key)
	if err != nil {
		log.Fatalf("Failed to create signer: %v", err)
	}
	fmt.Printf("\n1. Wallet: %s (%s)\n", signer.Address(), signer.Family())

	// The proof generator is the external payment capability. A real
	// deployment signs an on-chain authorization here; the demo returns a
	// canned token.
	prover := payment.ProofGeneratorFunc(func(_ context.Context, req payment.Requirement, s wallet.Signer) (string, error) {
		fmt.Printf("2. Paying %s on %s from %s\n", req.MaxAmountRequired, req.Network, s.Address())
		return "demo-proof", nil
	})

	c, err := client.New(srv.URL,
		client.WithSigner(signer),
		client.WithLogger(logger),
		client.WithPayment(prover,
			payment.WithMaxAmount(big.NewInt(1000)),
			payment.WithChainID(payment.DefaultEVMChainID),
		),
	)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	// The 402, the payment and the retry all happen inside this one call.
	resp, err := c.SearchMemories(context.Background(), client.SearchRequest{
		Query: "travel plans",
		Limit: 5,
	})
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	fmt.Printf("3. Recalled %d memory(ies):\n", len(resp.Memories))
	for _, mem := range resp.Memories {
		fmt.Printf("   [%s] %v\n", mem.ID, mem.Data["text"])
	}

	fmt.Println("\nDone.")
}
