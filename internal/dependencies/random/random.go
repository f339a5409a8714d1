package random

import (
	"crypto/rand"
	"math/big"
)

// Random abstracts randomness for share-code and match-id generation so tests
// can produce deterministic identifiers
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// String draws length characters from alphabet
	String(length int, alphabet string) string
}

// CryptoRandom draws from crypto/rand. Share codes are guessable entry points
// to a session, so they use a CSPRNG rather than math/rand.
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
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails if the platform source is broken
		return 0
	}
	return int(result.Int64())
}

// String draws length characters from alphabet
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(out)
}
