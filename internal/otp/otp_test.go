package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeShape(t *testing.T) {
	g := NewGenerator()
	for range 100 {
		code, err := g.Code()
		require.NoError(t, err)
		require.Len(t, code, 4)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code %q must be numeric", code)
		}
	}
}

func TestCodesVary(t *testing.T) {
	g := NewGenerator()
	seen := make(map[string]bool)
	for range 200 {
		code, err := g.Code()
		require.NoError(t, err)
		seen[code] = true
	}
	// 200 draws from a 10k space collide sometimes, but not into one bucket.
	assert.Greater(t, len(seen), 50)
}
