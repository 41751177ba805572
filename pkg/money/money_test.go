package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2.345", "2.35"},
		{"2.344", "2.34"},
		{"-2.345", "-2.35"},
		{"-2.344", "-2.34"},
		{"0.005", "0.01"},
		{"-0.005", "-0.01"},
		{"10", "10.00"},
		{"17.5", "17.50"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := Round(decimal.RequireFromString(tc.in))
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestPercent(t *testing.T) {
	assert.True(t, Percent(decimal.NewFromInt(10)).Equal(decimal.RequireFromString("0.1")))
	assert.True(t, Percent(decimal.NewFromInt(100)).Equal(decimal.NewFromInt(1)))
	assert.True(t, Percent(decimal.Zero).IsZero())
}

func TestFromFloat(t *testing.T) {
	assert.Equal(t, "99.99", FromFloat(99.99).StringFixed(2))
	assert.Equal(t, "0.10", FromFloat(0.1).StringFixed(2))
}
