package attestation

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hexEncode(b []byte) string {
	return hex.EncodeToString(b)
}

func TestComputeMemoryHash_Deterministic(t *testing.T) {
	data := map[string]any{"text": "remember this", "tags": []any{"a", "b"}}

	first, err := ComputeMemoryHash("note", data, "agent-1")
	require.NoError(t, err)
	second, err := ComputeMemoryHash("note", data, "agent-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "0x"))
	assert.Len(t, first, 2+64)
}

func TestComputeMemoryHash_SensitiveToEveryInput(t *testing.T) {
	data := map[string]any{"text": "remember this"}

	base, err := ComputeMemoryHash("note", data, "agent-1")
	require.NoError(t, err)

	otherKind, err := ComputeMemoryHash("fact", data, "agent-1")
	require.NoError(t, err)
	otherAgent, err := ComputeMemoryHash("note", data, "agent-2")
	require.NoError(t, err)
	otherData, err := ComputeMemoryHash("note", map[string]any{"text": "remember that"}, "agent-1")
	require.NoError(t, err)

	assert.NotEqual(t, base, otherKind)
	assert.NotEqual(t, base, otherAgent)
	assert.NotEqual(t, base, otherData)
}

func TestVerifyMemoryHash_Intact(t *testing.T) {
	data := map[string]any{"text": "remember this"}
	stored, err := ComputeMemoryHash("note", data, "agent-1")
	require.NoError(t, err)

	report, err := VerifyMemoryHash("note", data, "agent-1", stored)
	require.NoError(t, err)
	assert.True(t, report.Intact)
	assert.Equal(t, stored, report.StoredHash)
	assert.Equal(t, stored, report.ComputedHash)
	assert.False(t, report.VerifiedAt.IsZero())
}

func TestVerifyMemoryHash_Tampered(t *testing.T) {
	stored, err := ComputeMemoryHash("note", map[string]any{"text": "original"}, "agent-1")
	require.NoError(t, err)

	report, err := VerifyMemoryHash("note", map[string]any{"text": "modified"}, "agent-1", stored)
	require.NoError(t, err)
	assert.False(t, report.Intact)
	assert.NotEqual(t, report.StoredHash, report.ComputedHash)
}
