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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zkstash/zkstash-go/pkg/attestation"
	"github.com/zkstash/zkstash-go/pkg/grant"
	"github.com/zkstash/zkstash-go/pkg/payment"
	"github.com/zkstash/zkstash-go/pkg/wallet"
)

// Request headers.
const (
	// GrantsHeader carries the instance grant set as comma-joined share
	// codes on every request.
	GrantsHeader = "X-Zkstash-Grants"

	// AddressHeader identifies the calling wallet.
	AddressHeader = "X-Zkstash-Address"

	// AuthHeader carries the wallet signature over the auth challenge.
	AuthHeader = "X-Zkstash-Auth"

	// AuthTimestampHeader carries the unix-seconds timestamp the auth
	// challenge was built from.
	AuthTimestampHeader = "X-Zkstash-Auth-Ts"
)

// authChallengePrefix versions the signed auth challenge.
const authChallengePrefix = "zkstash:auth:v1:"

// APIError is a non-success response from the service. It is the only
// failure category the client surfaces as an error from an otherwise
// successful transport exchange.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zkstash: API error %d: %s", e.Status, e.Body)
}

// Client is a zkStash API client bound to one wallet. The grant set and the
// attestation verifier's key cache live for the client's lifetime.
type Client struct {
	baseURL    string
	apiKey     string
	signer     wallet.Signer
	grants     *grant.Set
	verifier   *attestation.Verifier
	httpClient *http.Client
	logger     *zap.Logger

	prover      payment.ProofGenerator
	paymentOpts []payment.InterceptorOption
}

// Option configures a Client.
type Option func(*Client) error

// WithSigner sets the wallet used for request authentication, grant
// minting and payments.
func WithSigner(signer wallet.Signer) Option {
	return func(c *Client) error {
		c.signer = signer
		return nil
	}
}

// WithAPIKey sets a service API key sent as a bearer token alongside the
// wallet auth headers.
func WithAPIKey(key string) Option {
	return func(c *Client) error {
		c.apiKey = key
		return nil
	}
}

// WithHTTPClient sets a custom underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = httpClient
		return nil
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithPayment enables transparent micropayments: fee-gated calls are paid
// with proofs from the generator, subject to the given policy options.
func WithPayment(prover payment.ProofGenerator, opts ...payment.InterceptorOption) Option {
	return func(c *Client) error {
		c.prover = prover
		c.paymentOpts = opts
		return nil
	}
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("zkstash: base URL is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		grants:     grant.NewSet(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.signer == nil {
		return nil, fmt.Errorf("zkstash: a wallet signer is required")
	}

	if c.prover != nil {
		// Wrap a copy so a caller-supplied client is left untouched.
		paying := *c.httpClient
		paying.Transport = payment.NewTransport(
			c.httpClient.Transport,
			c.signer,
			c.prover,
			append([]payment.InterceptorOption{payment.WithLogger(c.logger)}, c.paymentOpts...)...,
		)
		c.httpClient = &paying
	}

	c.verifier = attestation.NewVerifier(
		c.baseURL+attestation.WellKnownKeyPath,
		attestation.WithHTTPClient(c.httpClient),
		attestation.WithLogger(c.logger),
	)
	return c, nil
}

// Signer returns the wallet this client authenticates as.
func (c *Client) Signer() wallet.Signer {
	return c.signer
}

// AddGrant attaches a received grant to every subsequent request. Grants
// with equal payloads are added once.
func (c *Client) AddGrant(g grant.SignedGrant) bool {
	return c.grants.Add(g)
}

// AddGrantCode decodes a share code and attaches the grant.
func (c *Client) AddGrantCode(code string) error {
	g, err := grant.FromShareCode(code)
	if err != nil {
		return err
	}
	c.grants.Add(*g)
	return nil
}

// RemoveGrant detaches the grant with an equal payload.
func (c *Client) RemoveGrant(p grant.GrantPayload) bool {
	return c.grants.Remove(p)
}

// Grants returns the currently attached grants in insertion order.
func (c *Client) Grants() []grant.SignedGrant {
	return c.grants.All()
}

// ShareGrant mints a grant from this client's wallet and returns its share
// code.
func (c *Client) ShareGrant(opts grant.Options) (string, error) {
	g, err := grant.Sign(c.signer, opts)
	if err != nil {
		return "", err
	}
	return g.ToShareCode()
}

// VerifyAttestation checks a service-issued attestation locally.
func (c *Client) VerifyAttestation(ctx context.Context, signed attestation.SignedAttestation) (attestation.VerificationResult, error) {
	return c.verifier.VerifySigned(ctx, signed)
}

// do executes one API call: marshal, authenticate, attach grants, send,
// map non-2xx to *APIError, decode into out when provided.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("zkstash: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("zkstash: failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := c.authenticate(req); err != nil {
		return err
	}
	if err := c.attachGrants(req); err != nil {
		return err
	}

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("zkstash: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("zkstash: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("zkstash: failed to decode response: %w", err)
	}
	return nil
}

// authenticate signs a timestamped challenge with the wallet so the
// service can recover the caller's address.
func (c *Client) authenticate(req *http.Request) error {
	ts := time.Now().Unix()
	sig, err := c.signer.SignMessage(authChallengePrefix + strconv.FormatInt(ts, 10))
	if err != nil {
		return fmt.Errorf("zkstash: failed to sign auth challenge: %w", err)
	}

	req.Header.Set(AddressHeader, c.signer.Address())
	req.Header.Set(AuthHeader, sig)
	req.Header.Set(AuthTimestampHeader, strconv.FormatInt(ts, 10))
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return nil
}

// attachGrants puts the instance grant set on the request.
func (c *Client) attachGrants(req *http.Request) error {
	codes, err := c.grants.ShareCodes()
	if err != nil {
		return fmt.Errorf("zkstash: failed to encode grants: %w", err)
	}
	if len(codes) > 0 {
		req.Header.Set(GrantsHeader, strings.Join(codes, ","))
	}
	return nil
}
