package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDistributeEvenly(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		ids    []string
		want   map[string]float64
	}{
		{
			name:   "clean division",
			amount: 90,
			ids:    []string{"a", "b", "c"},
			want:   map[string]float64{"a": 30, "b": 30, "c": 30},
		},
		{
			name:   "first participant absorbs the rounding remainder",
			amount: 100,
			ids:    []string{"a", "b", "c"},
			want:   map[string]float64{"a": 33.34, "b": 33.33, "c": 33.33},
		},
		{
			name:   "negative remainder also lands on the first participant",
			amount: 100,
			ids:    []string{"a", "b", "c", "d", "e", "f"},
			// 100/6 = 16.6667 -> 16.67 each would overshoot by 0.02.
			want: map[string]float64{"a": 16.65, "b": 16.67, "c": 16.67, "d": 16.67, "e": 16.67, "f": 16.67},
		},
		{
			name:   "single participant takes everything",
			amount: 42.37,
			ids:    []string{"solo"},
			want:   map[string]float64{"solo": 42.37},
		},
		{
			name:   "no participants",
			amount: 10,
			ids:    nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistributeEvenly(tt.amount, tt.ids)

			if len(got) != len(tt.want) {
				t.Fatalf("got %d shares, want %d", len(got), len(tt.want))
			}
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("share[%s] = %v, want %v", id, got[id], want)
				}
			}
		})
	}
}

func TestDistributeEvenlySumsExactly(t *testing.T) {
	amounts := []float64{100, 0.01, 7.77, 99.99, 250.10, 1}
	for n := 1; n <= 9; n++ {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('a' + i))
		}
		for _, amount := range amounts {
			shares := DistributeEvenly(amount, ids)

			sum := decimal.Zero
			for _, v := range shares {
				sum = sum.Add(decimal.NewFromFloat(v))
			}
			if !sum.Equal(decimal.NewFromFloat(amount)) {
				t.Errorf("DistributeEvenly(%v, %d ids) sums to %s, want exact", amount, n, sum)
			}
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$0.00"},
		{30, "$30.00"},
		{33.335, "$33.34"},
		{1234.5, "$1,234.50"},
		{1234567.89, "$1,234,567.89"},
		{-42.1, "-$42.10"},
	}

	for _, tt := range tests {
		if got := FormatCurrency(tt.amount); got != tt.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
