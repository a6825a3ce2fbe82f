package grant

import "sync"

// Set is the ordered collection of grants a client instance attaches to its
// requests. Grants are de-duplicated by payload equality; add and remove are
// the only mutations. Safe for concurrent use.
type Set struct {
	mu     sync.Mutex
	grants []SignedGrant
}

// NewSet creates an empty grant set.
func NewSet() *Set {
	return &Set{}
}

// Add appends a grant unless one with an equal payload is already present.
// Returns true if the grant was added.
func (s *Set) Add(g SignedGrant) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.grants {
		if existing.Payload.Equal(g.Payload) {
			return false
		}
	}
	s.grants = append(s.grants, g)
	return true
}

// Remove deletes the grant with an equal payload, preserving the order of
// the rest. Returns true if a grant was removed.
func (s *Set) Remove(p GrantPayload) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.grants {
		if existing.Payload.Equal(p) {
			s.grants = append(s.grants[:i], s.grants[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of grants held.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.grants)
}

// All returns a copy of the grants in insertion order.
func (s *Set) All() []SignedGrant {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SignedGrant, len(s.grants))
	copy(out, s.grants)
	return out
}

// ShareCodes encodes every held grant, in order, for request attachment.
func (s *Set) ShareCodes() ([]string, error) {
	grants := s.All()

	codes := make([]string, 0, len(grants))
	for i := range grants {
		code, err := grants[i].ToShareCode()
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}
