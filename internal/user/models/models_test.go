package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyRating(t *testing.T) {
	// (5.0*10 + 4) / 11 = 4.909... -> 4.9
	assert.Equal(t, 4.9, ApplyRating(5.0, 4))
	// Perfect score with a perfect rating stays put.
	assert.Equal(t, 5.0, ApplyRating(5.0, 5))
	// (3.0*10 + 5) / 11 = 3.1818... -> 3.2
	assert.Equal(t, 3.2, ApplyRating(3.0, 5))
	// (4.9*10 + 1) / 11 = 4.5454... -> 4.5
	assert.Equal(t, 4.5, ApplyRating(4.9, 1))
}
