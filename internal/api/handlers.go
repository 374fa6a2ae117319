package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyhq/tally/internal/calculator"
	"github.com/tallyhq/tally/internal/middleware"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/service"
	"github.com/tallyhq/tally/internal/storage"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	participants *service.ParticipantService
	expenses     *service.ExpenseService
	ledger       *service.LedgerService
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service/storage errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmptyDescription),
		errors.Is(err, service.ErrNonPositive),
		errors.Is(err, service.ErrNoSplits),
		errors.Is(err, service.ErrSplitMismatch),
		errors.Is(err, service.ErrDuplicateSplit),
		errors.Is(err, service.ErrNegativeSplit),
		errors.Is(err, service.ErrSelfSettlement),
		errors.Is(err, service.ErrUnknownViewpoint),
		errors.Is(err, service.ErrUnknownParticipants),
		errors.Is(err, models.ErrMissingName),
		errors.Is(err, models.ErrMissingEmail),
		errors.Is(err, models.ErrUnknownKind):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAlreadyCompleted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// viewpoint resolves the balance viewpoint: an explicit query parameter
// wins, otherwise the authenticated participant.
func viewpoint(r *http.Request) string {
	if v := r.URL.Query().Get("viewpoint"); v != "" {
		return v
	}
	return middleware.GetParticipantID(r.Context())
}

// --- participants ---

func (h *Handlers) AddParticipant(w http.ResponseWriter, r *http.Request) {
	var p models.Participant
	if !decode(w, r, &p) {
		return
	}
	if p.Kind == "" {
		p.Kind = models.KindContact
	}

	if err := h.participants.Add(r.Context(), &p); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) ListParticipants(w http.ResponseWriter, r *http.Request) {
	all, err := h.participants.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"participants": all})
}

func (h *Handlers) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	if err := h.participants.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- expenses ---

func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var e models.Expense
	if !decode(w, r, &e) {
		return
	}

	if err := h.expenses.Create(r.Context(), &e); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	all, err := h.expenses.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": all})
}

func (h *Handlers) GetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := h.expenses.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handlers) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var e models.Expense
	if !decode(w, r, &e) {
		return
	}
	e.ID = chi.URLParam(r, "id")

	if err := h.expenses.Update(r.Context(), &e); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.expenses.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- balances and settlements ---

// balanceView decorates a balance with its display string.
type balanceView struct {
	models.Balance
	Display string `json:"display"`
}

func (h *Handlers) GetBalances(w http.ResponseWriter, r *http.Request) {
	vp := viewpoint(r)
	balances, err := h.ledger.Balances(r.Context(), vp)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	views := make([]balanceView, len(balances))
	for i, b := range balances {
		views[i] = balanceView{Balance: b, Display: calculator.FormatCurrency(b.Amount)}
	}
	writeJSON(w, http.StatusOK, map[string]any{"viewpoint": vp, "balances": views})
}

func (h *Handlers) SuggestSettlements(w http.ResponseWriter, r *http.Request) {
	vp := viewpoint(r)
	plan, err := h.ledger.SuggestSettlements(r.Context(), vp)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"viewpoint": vp, "settlements": plan})
}

func (h *Handlers) RecordSettlement(w http.ResponseWriter, r *http.Request) {
	var s models.Settlement
	if !decode(w, r, &s) {
		return
	}

	if err := h.ledger.RecordSettlement(r.Context(), &s); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *Handlers) ListSettlements(w http.ResponseWriter, r *http.Request) {
	all, err := h.ledger.ListSettlements(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"settlements": all})
}

func (h *Handlers) CompleteSettlement(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProofOfPaymentURL string `json:"proof_of_payment_url"`
	}
	// An empty body is fine; proof is optional.
	_ = json.NewDecoder(r.Body).Decode(&body)

	s, err := h.ledger.CompleteSettlement(r.Context(), chi.URLParam(r, "id"), body.ProofOfPaymentURL)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// --- split helper ---

// DistributeEvenly serves expense forms: it divides an amount equally with
// the first participant absorbing the rounding remainder, so the client can
// prefill splits that sum exactly.
func (h *Handlers) DistributeEvenly(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount         float64  `json:"amount"`
		ParticipantIDs []string `json:"participant_ids"`
	}
	if !decode(w, r, &body) {
		return
	}
	if body.Amount <= 0 || len(body.ParticipantIDs) == 0 {
		writeError(w, http.StatusBadRequest, "amount and participant_ids are required")
		return
	}

	shares := calculator.DistributeEvenly(body.Amount, body.ParticipantIDs)
	writeJSON(w, http.StatusOK, map[string]any{"shares": shares})
}
