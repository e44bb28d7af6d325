package seatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name     string
		fare     float64
		count    int
		discount float64
		want     FareQuote
	}{
		{"no seats", 500, 0, 0, FareQuote{PerSeatFare: 500}},
		{"two seats", 500, 2, 0, FareQuote{PerSeatFare: 500, TotalSeats: 2, GrossPay: 1000, NetPay: 1000}},
		{"discounted", 750, 3, 250, FareQuote{PerSeatFare: 750, TotalSeats: 3, GrossPay: 2250, Discount: 250, NetPay: 2000}},
		{"not clamped", 100, 1, 150, FareQuote{PerSeatFare: 100, TotalSeats: 1, GrossPay: 100, Discount: 150, NetPay: -50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Quote(tt.fare, tt.count, tt.discount)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.PerSeatFare*float64(got.TotalSeats), got.GrossPay)
			assert.Equal(t, got.GrossPay-got.Discount, got.NetPay)
		})
	}
}

func TestValidateQuote(t *testing.T) {
	assert.NoError(t, ValidateQuote(Quote(500, 2, 1000)))

	var vErr *ValidationError
	require.ErrorAs(t, ValidateQuote(Quote(500, 2, 1001)), &vErr)
	assert.Contains(t, vErr.Fields, "discount")

	require.ErrorAs(t, ValidateQuote(Quote(500, 2, -1)), &vErr)
	assert.Equal(t, "Discount cannot be negative", vErr.Fields["discount"])
}

func TestSplitNetPay(t *testing.T) {
	assert.Equal(t, 450.0, SplitNetPay(Quote(500, 2, 100).NetPay, 2))
	assert.Equal(t, 0.0, SplitNetPay(900, 0))
}
