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

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/zkstash/zkstash-go/pkg/attestation"
)

// Memory is a stored memory record as returned by the service.
type Memory struct {
	ID          string         `json:"id"`
	Kind        string         `json:"kind"`
	Data        map[string]any `json:"data"`
	Tags        []string       `json:"tags,omitempty"`
	AgentID     string         `json:"agentId,omitempty"`
	ContentHash string         `json:"contentHash,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// StoreMemoryRequest creates or updates a memory.
type StoreMemoryRequest struct {
	Kind    string         `json:"kind"`
	Data    map[string]any `json:"data"`
	Tags    []string       `json:"tags,omitempty"`
	AgentID string         `json:"agentId,omitempty"`
}

// SearchRequest queries memories. Scope selects which namespaces to search;
// attached grants widen what the service will let the query reach.
type SearchRequest struct {
	Query string `json:"query"`
	Scope string `json:"scope,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// SearchResponse is a search result page, optionally carrying a signed
// attestation over the result.
type SearchResponse struct {
	Memories    []Memory                       `json:"memories"`
	Attestation *attestation.SignedAttestation `json:"attestation,omitempty"`
}

// StoreMemory stores a memory and returns the stored record.
func (c *Client) StoreMemory(ctx context.Context, req StoreMemoryRequest) (*Memory, error) {
	var mem Memory
	if err := c.do(ctx, http.MethodPost, "/v1/memories", req, &mem); err != nil {
		return nil, err
	}
	return &mem, nil
}

// GetMemory fetches one memory by ID.
func (c *Client) GetMemory(ctx context.Context, id string) (*Memory, error) {
	var mem Memory
	if err := c.do(ctx, http.MethodGet, "/v1/memories/"+url.PathEscape(id), nil, &mem); err != nil {
		return nil, err
	}
	return &mem, nil
}

// ListMemories lists the caller's memories.
func (c *Client) ListMemories(ctx context.Context) ([]Memory, error) {
	var out struct {
		Memories []Memory `json:"memories"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/memories", nil, &out); err != nil {
		return nil, err
	}
	return out.Memories, nil
}

// DeleteMemory deletes one memory by ID.
func (c *Client) DeleteMemory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/memories/"+url.PathEscape(id), nil, nil)
}

// SearchMemories runs a search across the caller's namespace and any
// namespaces reachable through attached grants.
func (c *Client) SearchMemories(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("zkstash: search query is required")
	}
	var out SearchResponse
	if err := c.do(ctx, http.MethodPost, "/v1/memories/search", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyMemory recomputes a fetched memory's content hash locally and
// compares it with the hash recorded at write time.
func (c *Client) VerifyMemory(mem *Memory) (*attestation.IntegrityReport, error) {
	if mem.ContentHash == "" {
		return nil, fmt.Errorf("zkstash: memory %s has no content hash", mem.ID)
	}
	return attestation.VerifyMemoryHash(mem.Kind, mem.Data, mem.AgentID, mem.ContentHash)
}
