package calculator

import (
	"math"
	"sort"

	"github.com/tallyhq/tally/internal/models"
)

// PlanSettlements produces a minimal set of pairwise transfers that settles
// all balances relative to the viewpoint participant.
//
// The balance set from CalculateBalances excludes the viewpoint user, so it
// is generally not conserved: what the friends owe in aggregate is exactly
// what the viewpoint user is owed. The planner closes the system by adding a
// synthetic entry for the viewpoint user equal to the negation of the sum,
// then greedily matches the largest debtor with the largest creditor until
// every balance is within Epsilon of zero.
//
// Direction convention: a positive balance means that participant owes the
// viewpoint user, so the positive side of every match is the settlement's
// FromID (the one who transfers funds) and the negative side its ToID.
//
// The greedy largest-vs-largest strategy yields at most N-1 transfers for N
// non-zero balances. Each iteration zeroes at least one endpoint, so it
// always terminates. The sort is stable, so equal balances keep their input
// order and the plan is fully deterministic. The caller's slice is never
// mutated.
func PlanSettlements(balances []models.Balance, viewpointID string) []models.Settlement {
	working := make([]models.Balance, 0, len(balances)+1)
	var sum float64
	for _, b := range balances {
		working = append(working, b)
		sum += b.Amount
	}
	if math.Abs(sum) >= Epsilon {
		working = append(working, models.Balance{ParticipantID: viewpointID, Amount: -sum})
	}

	// Most negative (owed the most) first, most positive (owes the most)
	// last. Stability keeps tie-breaks deterministic.
	sort.SliceStable(working, func(i, j int) bool {
		return working[i].Amount < working[j].Amount
	})

	var settlements []models.Settlement
	for len(working) > 1 {
		creditor := &working[0]
		debtor := &working[len(working)-1]

		if math.Abs(creditor.Amount) < Epsilon && math.Abs(debtor.Amount) < Epsilon {
			break
		}

		transfer := math.Min(math.Abs(creditor.Amount), debtor.Amount)
		if transfer <= 0 {
			// Only same-signed residue left; nothing meaningful to move.
			break
		}
		settlements = append(settlements, models.Settlement{
			FromID: debtor.ParticipantID,
			ToID:   creditor.ParticipantID,
			Amount: round2(transfer),
			Status: models.SettlementPending,
		})
		creditor.Amount += transfer
		debtor.Amount -= transfer

		if math.Abs(creditor.Amount) < Epsilon {
			working = working[1:]
		}
		if n := len(working); n > 0 && math.Abs(working[n-1].Amount) < Epsilon {
			working = working[:n-1]
		}
	}

	return settlements
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
