package models

// Balance is the net amount one participant owes or is owed, relative to a
// fixed viewpoint participant.
//
// Positive: the participant owes the viewpoint user.
// Negative: the viewpoint user owes the participant.
//
// Balances are derived from expenses on demand and are never persisted as
// authoritative state.
type Balance struct {
	ParticipantID string  `json:"participant_id"`
	Amount        float64 `json:"amount"`
}
