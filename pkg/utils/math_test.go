package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundDecimal(t *testing.T) {
	tests := []struct {
		value    float64
		decimals int
		want     float64
	}{
		{3.14159, 2, 3.14},
		{2.675, 1, 2.7},
		{-3.14159, 2, -3.14},
		{-12.5, 0, -13},
		{42, 3, 42},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, RoundDecimal(tt.value, tt.decimals), 1e-9, "RoundDecimal(%v, %d)", tt.value, tt.decimals)
	}
}
