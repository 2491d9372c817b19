package cart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		name  string
		value int
		stock int
		want  int
	}{
		{"withinRange", 3, 10, 3},
		{"belowMin", 0, 10, 1},
		{"negative", -5, 10, 1},
		{"aboveStock", 99, 10, 10},
		{"outOfStock", 3, 0, 0},
		{"exactStock", 10, 10, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ClampQuantity(tc.value, tc.stock))
		})
	}
}

func TestIncrementNeverExceedsStock(t *testing.T) {
	require.Equal(t, 2, Increment(1, 10))
	require.Equal(t, 10, Increment(10, 10))
	require.Equal(t, 0, Increment(1, 0))
}

func TestDecrementNeverBelowOne(t *testing.T) {
	require.Equal(t, 1, Decrement(2, 10))
	require.Equal(t, 1, Decrement(1, 10))
	require.Equal(t, 0, Decrement(1, 0))
}
