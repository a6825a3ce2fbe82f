package grant

import (
	"encoding/base64"
	"fmt"

	"github.com/zkstash/zkstash-go/pkg/canonical"
)

// MessagePrefix is the fixed version tag of the canonical grant message.
const MessagePrefix = "zkstash:grant:v1:"

// BuildMessage derives the exact byte sequence a wallet signs for a grant:
// the version tag followed by the base64 of the payload's sorted-key JSON.
// Pure and deterministic; any deviation breaks every existing signature.
func BuildMessage(payload GrantPayload) (string, error) {
	data, err := canonical.MarshalSorted(payload)
	if err != nil {
		return "", fmt.Errorf("grant: failed to canonicalize payload: %w", err)
	}
	return MessagePrefix + base64.StdEncoding.EncodeToString(data), nil
}
