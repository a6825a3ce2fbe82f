package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// keyPriority is the fixed ordering contract for StableStringify: these keys
// come first, in this order, when present; all other keys follow
// lexicographically. This must match the remote service's serializer.
var keyPriority = []string{"id", "kind", "tags"}

// MarshalSorted serializes v as compact JSON with every object's keys in
// lexicographic order. Struct fields marked omitempty never appear when
// empty, so optional fields are dropped rather than serialized as null.
func MarshalSorted(v any) ([]byte, error) {
	tree, err := normalize(v)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	if err := writeValue(&sb, tree, lexicographic); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// StableStringify serializes v as compact JSON with the key-priority
// ordering used by the zkStash attestation signer.
func StableStringify(v any) (string, error) {
	tree, err := normalize(v)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := writeValue(&sb, tree, prioritized); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// normalize round-trips v through encoding/json into a generic tree so that
// struct tags (field names, omitempty) apply and numbers keep their source
// formatting via json.Number.
func normalize(v any) (any, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("canonical: not a JSON-serializable value: %w", err)
	}

	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("canonical: failed to normalize value: %w", err)
	}
	return tree, nil
}

func lexicographic(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func prioritized(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for _, k := range keyPriority {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}

	rest := make([]string, 0, len(m))
	for k := range m {
		if isPriorityKey(k) {
			continue
		}
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func isPriorityKey(k string) bool {
	for _, p := range keyPriority {
		if k == p {
			return true
		}
	}
	return false
}

func writeValue(sb *strings.Builder, v any, order func(map[string]any) []string) error {
	switch val := v.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		if val {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case json.Number:
		sb.WriteString(val.String())
	case string:
		return writeString(sb, val)
	case []any:
		sb.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := writeValue(sb, elem, order); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case map[string]any:
		sb.WriteByte('{')
		for i, k := range order(val) {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := writeString(sb, k); err != nil {
				return err
			}
			sb.WriteByte(':')
			if err := writeValue(sb, val[k], order); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	default:
		return fmt.Errorf("canonical: unexpected value of type %T", v)
	}
	return nil
}

// writeString emits a JSON string without HTML escaping, matching
// JSON.stringify output for the same input.
func writeString(sb *strings.Builder, s string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("canonical: failed to encode string: %w", err)
	}
	sb.WriteString(strings.TrimSuffix(buf.String(), "\n"))
	return nil
}
