package coupon

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// CodeLength is the number of random characters after the prefix.
	CodeLength = 10
	// Alphabet is the character set random characters are drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// Separator joins the prefix and the random part.
	Separator = "-"

	maxDrawAttempts = 8
)

// ErrNoFreeCode is returned when every draw collided with an issued code.
var ErrNoFreeCode = errors.New("could not draw an unused promo code")

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// randomGenerator draws codes uniformly from Alphabet.
type randomGenerator struct {
	random io.Reader
	logger zerolog.Logger
}

// NewGenerator creates a generator backed by crypto/rand.
func NewGenerator(logger zerolog.Logger) Generator {
	return NewGeneratorWithSource(rand.Reader, logger)
}

// NewGeneratorWithSource creates a generator reading randomness from src.
// src must be cryptographically secure outside of tests.
func NewGeneratorWithSource(src io.Reader, logger zerolog.Logger) Generator {
	return &randomGenerator{
		random: src,
		logger: logger.With().Str("component", "code-generator").Logger(),
	}
}

// Generate draws codes until one is not in taken.
func (g *randomGenerator) Generate(prefix string, taken CodeSet) (string, error) {
	for attempt := 1; attempt <= maxDrawAttempts; attempt++ {
		suffix, err := g.draw()
		if err != nil {
			g.logger.Error().Err(err).Msg("failed to read random source")
			return "", fmt.Errorf("failed to generate promo code: %w", err)
		}

		code := prefix + Separator + suffix
		if taken == nil || !taken.Contains(code) {
			return code, nil
		}

		g.logger.Warn().Int("attempt", attempt).Msg("generated code collides with an issued one, redrawing")
	}

	return "", ErrNoFreeCode
}

func (g *randomGenerator) draw() (string, error) {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		n, err := rand.Int(g.random, alphabetSize)
		if err != nil {
			return "", err
		}
		b.WriteByte(Alphabet[n.Int64()])
	}
	return b.String(), nil
}

// WellFormed reports whether code has the shape prefix-XXXXXXXXXX.
func WellFormed(prefix, code string) bool {
	suffix, ok := strings.CutPrefix(code, prefix+Separator)
	if !ok || len(suffix) != CodeLength {
		return false
	}
	for i := 0; i < len(suffix); i++ {
		if !strings.ContainsRune(Alphabet, rune(suffix[i])) {
			return false
		}
	}
	return true
}
