// Package calculator implements the pure balance and settlement engine.
//
// Both entry points are deterministic, side-effect-free transforms: they
// never mutate their inputs and allocate fresh outputs, so they are safe to
// call concurrently without locking. Neither performs validation; the
// expense-authoring boundary is responsible for well-formed input.
package calculator

import "github.com/tallyhq/tally/internal/models"

// Epsilon is the tolerance below which a currency amount is treated as
// settled. All float comparisons in this package use it.
const Epsilon = 0.01

// CalculateBalances reduces a list of expenses into one net balance per
// participant, signed relative to the viewpoint participant.
//
// Algorithm:
//   - If the viewpoint user paid an expense, every other participant's split
//     amount is added to their balance (they owe the viewpoint user)
//   - If a third party paid, the viewpoint user's own split (if any) is
//     subtracted from the payer's balance (the viewpoint user owes the payer)
//   - Splits among other third parties do not appear on this balance sheet;
//     it is always relative to one viewpoint, not a global ledger
//
// Expenses whose payer or split participants are not in the participant list
// simply contribute nothing for the missing ids. Output order follows the
// input participant order, minus the viewpoint, with zero balances included.
func CalculateBalances(expenses []models.Expense, participants []models.Participant, viewpointID string) []models.Balance {
	balances := make(map[string]float64, len(participants))
	for _, p := range participants {
		if p.ID != viewpointID {
			balances[p.ID] = 0
		}
	}

	// Each expense contributes independently, so iteration order does not
	// matter.
	for i := range expenses {
		exp := &expenses[i]
		if exp.PayerID == viewpointID {
			for _, split := range exp.Splits {
				if split.ParticipantID == viewpointID {
					continue // self-share
				}
				if _, known := balances[split.ParticipantID]; known {
					balances[split.ParticipantID] += split.Amount
				}
			}
			continue
		}

		if _, known := balances[exp.PayerID]; !known {
			continue
		}
		if own := exp.SplitFor(viewpointID); own != nil {
			balances[exp.PayerID] -= own.Amount
		}
	}

	result := make([]models.Balance, 0, len(balances))
	for _, p := range participants {
		if p.ID == viewpointID {
			continue
		}
		result = append(result, models.Balance{ParticipantID: p.ID, Amount: balances[p.ID]})
	}
	return result
}
