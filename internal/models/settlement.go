package models

// SettlementStatus is the lifecycle state of a settlement.
type SettlementStatus string

const (
	// SettlementPending is a suggested or recorded but unpaid settlement.
	SettlementPending SettlementStatus = "pending"

	// SettlementCompleted means the transfer happened. Completing a
	// settlement records a matching expense (payer = FromID, single split
	// crediting ToID) so it feeds back into future balance computations.
	SettlementCompleted SettlementStatus = "completed"
)

// Settlement represents a suggested or recorded payment between two
// participants to clear debts.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// FromID is the participant who pays. Under the viewpoint-relative
	// sign convention this is the side with the positive balance: they
	// owe, so they transfer.
	FromID string `json:"from_id"`

	// ToID is the participant who receives the payment.
	ToID string `json:"to_id"`

	// Amount is the payment amount, rounded to two decimals.
	Amount float64 `json:"amount"`

	// Status is pending until the payment is confirmed.
	Status SettlementStatus `json:"status"`

	// ProofOfPaymentURL optionally points at an externally hosted receipt.
	ProofOfPaymentURL string `json:"proof_of_payment_url,omitempty"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"created_at"`

	// CompletedAt is the Unix timestamp when the payment was confirmed,
	// zero while pending.
	CompletedAt int64 `json:"completed_at,omitempty"`

	// ExpenseID links a completed settlement to the expense recorded for
	// it, empty while pending.
	ExpenseID string `json:"expense_id,omitempty"`
}
