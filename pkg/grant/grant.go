package grant

import (
	"errors"
	"fmt"
	"time"

	"github.com/zkstash/zkstash-go/pkg/wallet"
)

// Chain tags the signature scheme of a signed grant on the wire.
type Chain string

const (
	// ChainEVM marks grants signed by an EVM wallet (hex signature).
	ChainEVM Chain = "evm"

	// ChainSolana marks grants signed by a Solana wallet (base64 signature).
	ChainSolana Chain = "sol"
)

// DefaultExpiry is applied when no expiry is supplied.
const DefaultExpiry = 7 * 24 * time.Hour

// Input errors for grant creation.
var (
	// ErrNoSigner indicates a nil signer.
	ErrNoSigner = errors.New("grant: signer is required")

	// ErrMissingGrantee indicates an empty grantee address.
	ErrMissingGrantee = errors.New("grant: grantee address is required")
)

// GrantPayload is the signed body of a grant. Fields are declared in wire-key
// order; a and u are optional narrowing filters whose absence means "all
// agents" / "all subjects".
type GrantPayload struct {
	AgentID   string `json:"a,omitempty"`
	ExpiresAt int64  `json:"e"`
	Grantor   string `json:"f"`
	Grantee   string `json:"g"`
	SubjectID string `json:"u,omitempty"`
}

// Equal reports structural equality over all payload fields. Signature and
// chain tag are derived data and intentionally excluded; two grants with
// equal payloads are the same grant for de-duplication and removal.
func (p GrantPayload) Equal(other GrantPayload) bool {
	return p == other
}

// SignedGrant pairs a payload with the wallet signature over its canonical
// message. Never mutated after creation.
type SignedGrant struct {
	Payload   GrantPayload `json:"p"`
	Signature string       `json:"s"`
	Chain     Chain        `json:"c"`
}

// Options configures a new grant. Expiry precedence: ExpiresAt (absolute
// unix seconds) wins; otherwise ExpiresIn (duration string) or
// ExpiresInSeconds is added to now; otherwise DefaultExpiry applies.
type Options struct {
	// Grantee is the wallet address being granted read access. Required.
	Grantee string

	// AgentID optionally narrows the grant to a single agent namespace.
	AgentID string

	// SubjectID optionally narrows the grant to a single subject.
	SubjectID string

	// ExpiresAt is an absolute unix-seconds expiry.
	ExpiresAt int64

	// ExpiresIn is a duration string such as "30s", "5m", "2h", "7d", "2w".
	ExpiresIn string

	// ExpiresInSeconds is a raw relative expiry in seconds.
	ExpiresInSeconds int64
}

// Sign completes the payload from the signer (the grantor address is always
// the signer's, never caller-supplied), signs the canonical grant message
// and returns the signed grant tagged with the signer's chain family.
func Sign(signer wallet.Signer, opts Options) (*SignedGrant, error) {
	if signer == nil {
		return nil, ErrNoSigner
	}
	if opts.Grantee == "" {
		return nil, ErrMissingGrantee
	}

	expiresAt, err := resolveExpiry(opts, time.Now())
	if err != nil {
		return nil, err
	}

	payload := GrantPayload{
		AgentID:   opts.AgentID,
		ExpiresAt: expiresAt,
		Grantor:   signer.Address(),
		Grantee:   opts.Grantee,
		SubjectID: opts.SubjectID,
	}

	message, err := BuildMessage(payload)
	if err != nil {
		return nil, err
	}

	signature, err := signer.SignMessage(message)
	if err != nil {
		return nil, fmt.Errorf("grant: failed to sign message: %w", err)
	}

	return &SignedGrant{
		Payload:   payload,
		Signature: signature,
		Chain:     chainOf(signer.Family()),
	}, nil
}

func resolveExpiry(opts Options, now time.Time) (int64, error) {
	if opts.ExpiresAt != 0 {
		return opts.ExpiresAt, nil
	}
	if opts.ExpiresIn != "" {
		seconds, err := ParseDuration(opts.ExpiresIn)
		if err != nil {
			return 0, err
		}
		return now.Unix() + seconds, nil
	}
	if opts.ExpiresInSeconds != 0 {
		return now.Unix() + opts.ExpiresInSeconds, nil
	}
	return now.Add(DefaultExpiry).Unix(), nil
}

func chainOf(family wallet.Family) Chain {
	if family == wallet.FamilyEVM {
		return ChainEVM
	}
	return ChainSolana
}
