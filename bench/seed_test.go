package bench

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSeedFormat(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^\d{13}-[0-9a-f]{8}$`), NewSeed())
}

func TestNewSeedDistinct(t *testing.T) {
	seen := map[string]bool{}
	for range 1000 {
		s := NewSeed()
		assert.False(t, seen[s], "seed %s repeated", s)
		seen[s] = true
	}
}
