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

package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/zkstash/zkstash-go/pkg/wallet"
)

// Payment headers on the HTTP wire.
const (
	// ProofHeader carries the payment proof on the retried request.
	ProofHeader = "X-PAYMENT"

	// DeclinedHeader marks a synthetic declined response produced locally
	// by the transport, as opposed to a server 402.
	DeclinedHeader = "X-PAYMENT-DECLINED"
)

// Transport is an http.RoundTripper that runs the payment flow against HTTP
// 402 responses. It wraps an existing RoundTripper; the request body is
// replayed byte-identical, with the proof riding in the X-PAYMENT header.
type Transport struct {
	// Base is the underlying RoundTripper (http.DefaultTransport if nil).
	Base http.RoundTripper

	// Interceptor holds the payer wallet and payment policy.
	Interceptor *Interceptor
}

// NewTransport wraps base with the payment flow for the given payer.
func NewTransport(base http.RoundTripper, signer wallet.Signer, prover ProofGenerator, opts ...InterceptorOption) *Transport {
	return &Transport{
		Base:        base,
		Interceptor: NewInterceptor(signer, prover, opts...),
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	first, err := base.RoundTrip(cloneRequest(req))
	if err != nil {
		return nil, err
	}
	if first.StatusCode != http.StatusPaymentRequired {
		return first, nil
	}

	required, err := parseRequiredResponse(first)
	if err != nil {
		// Not a structured payment offer; surface the 402 untouched.
		return first, nil
	}

	i := t.Interceptor
	requirement := selectRequirement(i.signer.Family(), i.chainID, required.Accepts)

	if requirement.Scheme != SchemeExact {
		// Payment not attempted; the original 402 stands byte-for-byte.
		i.logger.Debug("unsupported payment scheme, not paying",
			zap.String("scheme", requirement.Scheme),
			zap.String("url", req.URL.String()))
		return first, nil
	}

	amount, err := requirement.Amount()
	if err != nil {
		return nil, err
	}
	first.Body.Close()

	if i.maxAmount != nil && amount.Cmp(i.maxAmount) > 0 {
		i.logger.Warn("payment exceeds spend ceiling, declining",
			zap.String("required", amount.String()),
			zap.String("allowed", i.maxAmount.String()),
			zap.String("url", req.URL.String()))
		return declinedResponse(req, Declined{
			Required: amount.String(),
			Allowed:  i.maxAmount.String(),
			Network:  requirement.Network,
		})
	}

	proof, err := i.prover.GenerateProof(req.Context(), requirement, i.signer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofFailed, err)
	}

	i.logger.Info("retrying with payment",
		zap.String("url", req.URL.String()),
		zap.String("network", requirement.Network),
		zap.String("amount", amount.String()))

	retry := cloneRequest(req)
	retry.Header.Set(ProofHeader, proof)
	return base.RoundTrip(retry)
}

// cloneRequest copies the request so neither attempt mutates the caller's
// value, rewinding the body when it is replayable.
func cloneRequest(req *http.Request) *http.Request {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			clone.Body = body
		}
	}
	return clone
}

// parseRequiredResponse reads the 402 body as a structured payment offer,
// closing the network body and leaving the original bytes readable on
// resp.Body for callers that get the 402 back.
func parseRequiredResponse(resp *http.Response) (*RequiredResponse, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))

	var required RequiredResponse
	if err := json.Unmarshal(data, &required); err != nil {
		return nil, err
	}
	if len(required.Accepts) == 0 {
		return nil, fmt.Errorf("%w: empty accepts", ErrInvalidRequirement)
	}
	return &required, nil
}

// declinedResponse synthesizes the local 402 for a payment above the spend
// ceiling, marked with DeclinedHeader so callers can tell it from a server
// response.
func declinedResponse(req *http.Request, d Declined) (*http.Response, error) {
	body, err := json.Marshal(map[string]any{
		"error":    d.message(),
		"declined": d,
	})
	if err != nil {
		return nil, err
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	header.Set(DeclinedHeader, "1")

	return &http.Response{
		Status:        http.StatusText(http.StatusPaymentRequired),
		StatusCode:    http.StatusPaymentRequired,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}
