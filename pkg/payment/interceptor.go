package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/zkstash/zkstash-go/pkg/wallet"
)

// Interceptor wraps operation invocations with the single-retry payment
// flow. One interceptor serves one payer wallet.
type Interceptor struct {
	signer    wallet.Signer
	prover    ProofGenerator
	maxAmount *big.Int
	chainID   int64
	logger    *zap.Logger
}

// InterceptorOption configures an Interceptor.
type InterceptorOption func(*Interceptor)

// WithMaxAmount sets the per-call spend ceiling in the smallest currency
// unit. Without a ceiling every offered amount is paid.
func WithMaxAmount(amount *big.Int) InterceptorOption {
	return func(i *Interceptor) {
		i.maxAmount = amount
	}
}

// WithChainID sets the EVM chain the payer settles on. Ignored for Solana
// payers. Defaults to Base mainnet.
func WithChainID(chainID int64) InterceptorOption {
	return func(i *Interceptor) {
		i.chainID = chainID
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) InterceptorOption {
	return func(i *Interceptor) {
		i.logger = logger
	}
}

// NewInterceptor creates a payment interceptor for the given payer wallet
// and proof generator.
func NewInterceptor(signer wallet.Signer, prover ProofGenerator, opts ...InterceptorOption) *Interceptor {
	i := &Interceptor{
		signer:  signer,
		prover:  prover,
		chainID: DefaultEVMChainID,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Invoke runs the wrapped operation through the payment state machine:
// first attempt; on a structured payment-required result, scheme gate, cap
// gate, proof generation, and exactly one replay with the proof attached.
// The second result is final even if it is itself payment-required.
func (i *Interceptor) Invoke(ctx context.Context, req *Request, next Invoker) (*Result, error) {
	first, err := next(ctx, req)
	if err != nil {
		return nil, err
	}

	required := paymentRequired(first)
	if required == nil {
		return first, nil
	}

	requirement := selectRequirement(i.signer.Family(), i.chainID, required.Accepts)

	if requirement.Scheme != SchemeExact {
		// Payment not attempted; the first result stands as-is.
		i.logger.Debug("unsupported payment scheme, not paying",
			zap.String("scheme", requirement.Scheme),
			zap.String("method", req.Method))
		return first, nil
	}

	amount, err := requirement.Amount()
	if err != nil {
		return nil, err
	}

	if i.maxAmount != nil && amount.Cmp(i.maxAmount) > 0 {
		i.logger.Warn("payment exceeds spend ceiling, declining",
			zap.String("required", amount.String()),
			zap.String("allowed", i.maxAmount.String()),
			zap.String("method", req.Method))
		return declinedResult(Declined{
			Required: amount.String(),
			Allowed:  i.maxAmount.String(),
			Network:  requirement.Network,
		})
	}

	proof, err := i.prover.GenerateProof(ctx, requirement, i.signer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofFailed, err)
	}

	i.logger.Info("retrying with payment",
		zap.String("method", req.Method),
		zap.String("network", requirement.Network),
		zap.String("amount", amount.String()))

	retry := req.clone()
	retry.Meta[MetaProof] = proof
	return next(ctx, retry)
}

// paymentRequired extracts the structured signal from a result. It is
// present only when the result is flagged as an error AND carries at least
// one offered requirement.
func paymentRequired(res *Result) *RequiredResponse {
	if res == nil || !res.IsError || res.Meta == nil {
		return nil
	}
	raw, ok := res.Meta[MetaRequired]
	if !ok {
		return nil
	}

	required, err := asRequiredResponse(raw)
	if err != nil || len(required.Accepts) == 0 {
		return nil
	}
	return required
}

// asRequiredResponse normalizes whatever the transport put in the metadata
// slot (typed value, generic map, raw JSON) into a RequiredResponse.
func asRequiredResponse(raw any) (*RequiredResponse, error) {
	switch v := raw.(type) {
	case *RequiredResponse:
		return v, nil
	case RequiredResponse:
		return &v, nil
	case json.RawMessage:
		var out RequiredResponse
		if err := json.Unmarshal(v, &out); err != nil {
			return nil, err
		}
		return &out, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		var out RequiredResponse
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}
}

// selectRequirement picks the offered entry matching the payer's chain
// family, falling back to the first entry when none matches.
func selectRequirement(family wallet.Family, chainID int64, accepts []Requirement) Requirement {
	if family == wallet.FamilyEVM {
		if name, ok := NetworkForChainID(chainID); ok {
			for _, r := range accepts {
				if r.Network == name {
					return r
				}
			}
		}
	} else {
		for _, r := range accepts {
			if IsSolanaNetwork(r.Network) {
				return r
			}
		}
	}
	return accepts[0]
}

// declinedResult builds the synthetic error result for a payment above the
// spend ceiling. No proof is generated and no retry happens.
func declinedResult(d Declined) (*Result, error) {
	body, err := json.Marshal(map[string]string{"error": d.message()})
	if err != nil {
		return nil, err
	}
	return &Result{
		IsError: true,
		Body:    body,
		Meta:    map[string]any{MetaDeclined: d},
	}, nil
}

// MetaDeclined is the side-channel key of the Declined record on a
// synthetic declined result.
const MetaDeclined = "zkstash/payment-declined"
