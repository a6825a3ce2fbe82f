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

// Package zkstash provides version information for zkstash-go and the wire
// formats it speaks.
package zkstash

const (
	// Version is the current version of zkstash-go
	Version = "0.3.0"

	// GrantMessageVersion is the canonical grant-message format this library
	// produces and verifies ("zkstash:grant:v1:" prefix)
	GrantMessageVersion = "v1"

	// ShareCodeVersion is the share-code envelope version ("zkg1_" prefix)
	ShareCodeVersion = "zkg1"

	// PaymentProtocolVersion is the x402 micropayment protocol version
	// understood by the payment interceptor
	PaymentProtocolVersion = 1
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	LibraryVersion         string
	GrantMessageVersion    string
	ShareCodeVersion       string
	PaymentProtocolVersion int
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		LibraryVersion:         Version,
		GrantMessageVersion:    GrantMessageVersion,
		ShareCodeVersion:       ShareCodeVersion,
		PaymentProtocolVersion: PaymentProtocolVersion,
	}
}
