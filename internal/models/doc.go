// Package models defines the core domain models for Tally.
//
// # Models
//
//   - Participant: A person involved in shared expenses, either a registered
//     app user or an external contact tracked by name only
//   - Expense: A shared expense with a payer and weighted splits
//   - ExpenseSplit: One participant's share of an expense
//   - Balance: A derived, viewpoint-relative net amount for one participant
//   - Settlement: A suggested or recorded payment that reduces balances
//
// # Design Principles
//
// 1. **Viewpoint-relative balances**: Balance amounts are always signed from
// the perspective of one participant; they are recomputed from expenses on
// demand and never stored as authoritative state
//
// 2. **Tagged participant kinds**: App users and external contacts share one
// struct with an explicit Kind, so a contact without an email is a valid
// state while an app user without one is not
//
// 3. **Avoid circular references**: Relationships use ID strings instead of
// pointers
//
// 4. **Value semantics**: The calculation engine borrows read-only snapshots
// of these types and returns freshly allocated results
package models
