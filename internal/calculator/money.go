package calculator

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DistributeEvenly divides amount equally among the given participants,
// rounding each share to two decimals. The rounding remainder, positive or
// negative, is absorbed by the first participant so the shares always sum
// back to amount exactly.
//
// Returns nil when ids is empty.
func DistributeEvenly(amount float64, participantIDs []string) map[string]float64 {
	if len(participantIDs) == 0 {
		return nil
	}

	total := decimal.NewFromFloat(amount)
	share := total.Div(decimal.NewFromInt(int64(len(participantIDs)))).Round(2)

	result := make(map[string]float64, len(participantIDs))
	sum := decimal.Zero
	for _, id := range participantIDs {
		result[id] = share.InexactFloat64()
		sum = sum.Add(share)
	}

	// First participant absorbs the rounding error.
	if diff := total.Sub(sum); !diff.IsZero() {
		first := participantIDs[0]
		result[first] = share.Add(diff).Round(2).InexactFloat64()
	}

	return result
}

// FormatCurrency renders an amount as a dollar string with two decimals and
// thousands separators, e.g. 1234.5 -> "$1,234.50". Display-only.
func FormatCurrency(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
