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

// Package payment transparently pays for metered zkStash operations using a
// per-call micropayment protocol.
//
// The Interceptor wraps any operation invocation. It forwards the call
// unmodified; if the result comes back flagged as an error with a
// structured payment-required signal attached, it selects the offered
// requirement matching the payer's chain family, enforces the configured
// spend ceiling, obtains a payment proof from the payment signer, and
// replays the original call exactly once with the proof attached to the
// request's metadata side-channel. The second result is final no matter
// what; a second payment-required response is never paid again.
//
// Policy outcomes are ordinary results, not errors: an unsupported payment
// scheme returns the first result unmodified, and a requirement above the
// spend ceiling returns a synthetic declined result without generating a
// proof or retrying. Only transport failures propagate as errors.
//
// Transport adapts the same flow to net/http: a RoundTripper that reacts to
// 402 responses and retries with the proof in the X-PAYMENT header.
package payment
