package random

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"
	"sync"

	"github.com/myrjola/avalanchemystery/internal/errors"
)

var allowedLetters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

// Letters returns n random ASCII letters.
func Letters(n uint) (string, error) {
	letters := make([]rune, n)
	for i := range letters {
		letterIndex, err := rand.Int(rand.Reader, big.NewInt(int64(len(allowedLetters))))
		if err != nil {
			return "", errors.Wrap(err, "read random letter index")
		}
		letters[i] = allowedLetters[letterIndex.Int64()]
	}
	return string(letters), nil
}

// Source provides the uniform draws used by rarity sampling, theme selection and pricing.
type Source interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// lockedRand guards a math/rand/v2 generator so one Source can be shared across goroutines.
type lockedRand struct {
	mu sync.Mutex
	r  *mathrand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// NewSource returns a goroutine-safe Source seeded from crypto/rand.
func NewSource() Source {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		// crypto/rand.Read does not fail on supported platforms.
		panic(err)
	}
	return &lockedRand{r: mathrand.New(mathrand.NewChaCha8(seed))} //nolint:gosec // not used for secrets
}

// NewSeededSource returns a deterministic goroutine-safe Source. Use it in tests.
func NewSeededSource(seed uint64) Source {
	const stream = 0x9e3779b97f4a7c15
	return &lockedRand{r: mathrand.New(mathrand.NewPCG(seed, stream))} //nolint:gosec // deterministic on purpose
}
