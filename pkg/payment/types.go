package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/zkstash/zkstash-go/pkg/wallet"
)

// SchemeExact is the only payment scheme this client supports.
const SchemeExact = "exact"

// Metadata side-channel keys. The payment-required signal arrives under
// MetaRequired on a result; the retry attaches its proof under MetaProof on
// the request, leaving the request body byte-identical.
const (
	MetaRequired = "zkstash/payment-required"
	MetaProof    = "zkstash/payment"
)

// Sentinel errors.
var (
	// ErrInvalidRequirement indicates a server-offered requirement that
	// could not be interpreted (e.g. a non-integer amount).
	ErrInvalidRequirement = errors.New("payment: invalid payment requirement")

	// ErrProofFailed indicates the payment proof could not be generated.
	ErrProofFailed = errors.New("payment: failed to generate payment proof")
)

// Requirement is one entry of the payment menu a fee-gated operation offers.
type Requirement struct {
	// Scheme is the payment scheme identifier. Only "exact" is supported.
	Scheme string `json:"scheme"`

	// Network is the settlement network name (e.g. "base", "solana").
	Network string `json:"network"`

	// MaxAmountRequired is the required amount as a base-10 integer in the
	// smallest currency unit.
	MaxAmountRequired string `json:"maxAmountRequired"`

	// Asset is the token contract or mint address, when relevant.
	Asset string `json:"asset,omitempty"`

	// PayTo is the recipient address.
	PayTo string `json:"payTo,omitempty"`

	// Extra carries scheme-specific additional data.
	Extra map[string]any `json:"extra,omitempty"`
}

// Amount parses MaxAmountRequired.
func (r Requirement) Amount() (*big.Int, error) {
	amount, ok := new(big.Int).SetString(r.MaxAmountRequired, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("%w: amount %q", ErrInvalidRequirement, r.MaxAmountRequired)
	}
	return amount, nil
}

// RequiredResponse is the structured payment-required signal.
type RequiredResponse struct {
	Error   string        `json:"error,omitempty"`
	Accepts []Requirement `json:"accepts"`
}

// Declined describes a payment the client refused because it exceeded the
// configured ceiling. It rides on the synthetic declined result.
type Declined struct {
	Required string `json:"required"`
	Allowed  string `json:"allowed"`
	Network  string `json:"network"`
}

func (d Declined) message() string {
	return fmt.Sprintf("payment required %s exceeds configured maximum %s", d.Required, d.Allowed)
}

// ProofGenerator is the external payment-signing capability. It turns a
// chosen requirement and the payer's wallet into the opaque proof value the
// service accepts; the underlying on-chain authorization format is the
// generator's concern, not this package's.
type ProofGenerator interface {
	GenerateProof(ctx context.Context, requirement Requirement, signer wallet.Signer) (string, error)
}

// ProofGeneratorFunc adapts a function to the ProofGenerator interface.
type ProofGeneratorFunc func(ctx context.Context, requirement Requirement, signer wallet.Signer) (string, error)

// GenerateProof implements ProofGenerator.
func (f ProofGeneratorFunc) GenerateProof(ctx context.Context, requirement Requirement, signer wallet.Signer) (string, error) {
	return f(ctx, requirement, signer)
}

// Request is the transport-agnostic envelope of a wrapped operation call.
type Request struct {
	// Method names the operation being invoked.
	Method string

	// Body is the operation payload. Never modified by the interceptor.
	Body json.RawMessage

	// Meta is the metadata side-channel.
	Meta map[string]any
}

// clone copies the request with an independent Meta map. The body is shared:
// it is never written to.
func (r *Request) clone() *Request {
	meta := make(map[string]any, len(r.Meta)+1)
	for k, v := range r.Meta {
		meta[k] = v
	}
	return &Request{Method: r.Method, Body: r.Body, Meta: meta}
}

// Result is the transport-agnostic outcome of a wrapped operation call.
type Result struct {
	// IsError flags an operation-level failure.
	IsError bool

	// Body is the operation response payload.
	Body json.RawMessage

	// Meta is the metadata side-channel.
	Meta map[string]any
}

// Invoker performs the underlying operation call.
type Invoker func(ctx context.Context, req *Request) (*Result, error)
