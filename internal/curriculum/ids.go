package curriculum

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator issues ids for generated curriculum records. Prefixes are
// "unit", "lo" and "ac".
type IDGenerator interface {
	NewID(prefix string) string
}

// UUIDGenerator issues random ids of the form "<prefix>_<uuid>".
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Sequence issues deterministic ids of the form "<prefix>_<n>", counting
// per prefix from 1. It is safe for concurrent use.
type Sequence struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewSequence creates a Sequence starting at 1 for every prefix.
func NewSequence() *Sequence {
	return &Sequence{counts: make(map[string]int)}
}

func (s *Sequence) NewID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[prefix]++
	return prefix + "_" + strconv.Itoa(s.counts[prefix])
}
