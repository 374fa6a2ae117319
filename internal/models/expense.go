package models

// ExpenseSplit is the share of one expense allocated to one participant.
type ExpenseSplit struct {
	// ParticipantID identifies who owes this share.
	ParticipantID string `json:"participant_id"`

	// Amount is this participant's share, non-negative, in the expense's
	// currency unit.
	Amount float64 `json:"amount"`

	// Percentage is the optional share expressed as a percentage of the
	// expense total. Informational; Amount is authoritative.
	Percentage float64 `json:"percentage,omitempty"`
}

// Expense represents a shared expense paid by one participant and split
// among several.
//
// The payer need not appear in Splits; if they do, that split is a
// self-share and never moves money between participants.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Description is the human-readable label (e.g., "Dinner at Luigi's").
	Description string `json:"description"`

	// Amount is the full expense total. The sum of split amounts is
	// expected to match it within 0.01; enforcing that is the job of the
	// expense-authoring boundary, not of this type.
	Amount float64 `json:"amount"`

	// Date is the Unix timestamp of when the expense occurred.
	Date int64 `json:"date"`

	// PayerID identifies who paid the full amount up front.
	PayerID string `json:"payer_id"`

	// Splits allocate the amount across participants.
	Splits []ExpenseSplit `json:"splits"`

	// Category is an optional grouping label (e.g., "groceries").
	Category string `json:"category,omitempty"`

	// Notes is optional free text.
	Notes string `json:"notes,omitempty"`

	// ProofOfPaymentURL optionally points at a receipt image hosted
	// elsewhere. Upload itself is outside this service.
	ProofOfPaymentURL string `json:"proof_of_payment_url,omitempty"`

	// Version starts at 1 and increments when an expense that is already
	// referenced by a completed settlement is edited. The ID stays stable
	// across versions; prior versions are archived.
	Version int64 `json:"version"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"created_at"`
}

// SplitFor returns the split belonging to the given participant, or nil.
func (e *Expense) SplitFor(participantID string) *ExpenseSplit {
	for i := range e.Splits {
		if e.Splits[i].ParticipantID == participantID {
			return &e.Splits[i]
		}
	}
	return nil
}
