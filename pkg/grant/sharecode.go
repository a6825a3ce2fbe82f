package grant

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// ShareCodePrefix is the fixed envelope prefix of encoded grants.
const ShareCodePrefix = "zkg1_"

// ToShareCode encodes the signed grant as an opaque, transport-friendly
// string: the "zkg1_" prefix followed by the URL-safe base64 of the grant's
// JSON. Round-trip invariant: FromShareCode(ToShareCode(g)) == g.
func (g *SignedGrant) ToShareCode() (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("grant: failed to encode share code: %w", err)
	}
	return ShareCodePrefix + base64.RawURLEncoding.EncodeToString(data), nil
}

// FromShareCode decodes a share code back into a SignedGrant. The prefix is
// mandatory; the decoded grant is validated eagerly so a malformed code
// fails here rather than at first use.
func FromShareCode(code string) (*SignedGrant, error) {
	if !strings.HasPrefix(code, ShareCodePrefix) {
		return nil, fmt.Errorf("grant: share code must start with %s", ShareCodePrefix)
	}

	encoded := strings.TrimRight(strings.TrimPrefix(code, ShareCodePrefix), "=")
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("grant: share code is not valid base64url: %w", err)
	}

	var g SignedGrant
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("grant: share code is not valid JSON: %w", err)
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

func (g *SignedGrant) validate() error {
	switch {
	case g.Payload.Grantor == "":
		return fmt.Errorf("grant: decoded grant has no grantor")
	case g.Payload.Grantee == "":
		return fmt.Errorf("grant: decoded grant has no grantee")
	case g.Payload.ExpiresAt == 0:
		return fmt.Errorf("grant: decoded grant has no expiry")
	case g.Signature == "":
		return fmt.Errorf("grant: decoded grant has no signature")
	}

	if g.Chain != ChainEVM && g.Chain != ChainSolana {
		return fmt.Errorf("grant: unknown chain tag %q", g.Chain)
	}
	return nil
}
