package mocks

import (
	"fmt"

	"github.com/outlast-gg/arena/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// ID results are queued separately from String results so tests can pin
// the exact identifiers the session manager will hand out.
type MockRandom struct {
	// IDResults is a queue of results to return from ID
	IDResults []string
	idIndex   int

	// StringResults is a queue of results to return from String
	StringResults []string
	stringIndex   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn always returns 0; mock callers pin String/ID results directly
func (r *MockRandom) Intn(n int) int {
	return 0
}

// String returns the next queued result, or empty string if none remaining
func (r *MockRandom) String(length int, alphabet string) string {
	if r.stringIndex >= len(r.StringResults) {
		return ""
	}
	result := r.StringResults[r.stringIndex]
	r.stringIndex++
	return result
}

// ID returns the next queued result; falls back to a deterministic
// prefixed value so tests that don't care about IDs still get unique ones
func (r *MockRandom) ID(prefix string) string {
	if r.idIndex >= len(r.IDResults) {
		r.idIndex++
		return fmt.Sprintf("%s-unqueued-%d", prefix, r.idIndex)
	}
	result := r.IDResults[r.idIndex]
	r.idIndex++
	return result
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.StringResults = append(r.StringResults, values...)
}

// QueueID adds values to the ID result queue
func (r *MockRandom) QueueID(values ...string) {
	r.IDResults = append(r.IDResults, values...)
}
