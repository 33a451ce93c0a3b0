package random

import (
	"crypto/rand"
	"math/big"
)

// IDAlphabet is the character set for generated identifiers.
// Confusable characters (0/O, 1/I) are excluded so IDs can be read out
// loud and typed into a join form.
const IDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// IDLength is the length of the random portion of generated identifiers
const IDLength = 10

// Random provides random generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// String generates a random string of the given length from the given alphabet
	String(length int, alphabet string) string

	// ID generates a prefixed opaque identifier, e.g. ID("g") -> "g-XX..."
	ID(prefix string) string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a cryptographically random int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	max := big.NewInt(int64(n))
	result, err := rand.Int(rand.Reader, max)
	if err != nil {
		// Fall back to 0 on error (should never happen with crypto/rand)
		return 0
	}
	return int(result.Int64())
}

// String generates a random string of the given length from the given alphabet
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		result[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(result)
}

// ID generates a prefixed opaque identifier
func (r *CryptoRandom) ID(prefix string) string {
	return prefix + "-" + r.String(IDLength, IDAlphabet)
}
