// Package canonical provides the deterministic JSON serializations that the
// zkStash service and its clients must agree on byte-for-byte.
//
// Two canonicalizers exist and must not be confused:
//
//   - MarshalSorted: plain lexicographic key ordering. The grant protocol
//     uses it to build the exact byte sequence that wallets sign.
//   - StableStringify: key-priority ordering ("id", "kind", "tags" first,
//     then lexicographic). The attestation verifier and the memory
//     integrity hash use it to reproduce the remote signer's serialization.
//
// Both emit compact JSON with no whitespace and without HTML escaping, so
// the output matches what a JavaScript JSON.stringify-based signer produces.
// Numbers are carried through as json.Number and re-emitted with their
// original formatting.
package canonical
