// Package api exposes the application over a JSON REST surface.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tallyhq/tally/internal/auth"
	"github.com/tallyhq/tally/internal/middleware"
	"github.com/tallyhq/tally/internal/service"
)

// NewRouter creates the chi router with all API routes mounted. Health and
// metrics stay outside the authenticated group.
func NewRouter(
	participants *service.ParticipantService,
	expenses *service.ExpenseService,
	ledger *service.LedgerService,
	jwtManager *auth.JWTManager,
) http.Handler {
	h := &Handlers{
		participants: participants,
		expenses:     expenses,
		ledger:       ledger,
	}

	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.SetHeader("Content-Type", "application/json"))
		r.Use(middleware.RequireAuth(jwtManager))

		// Participants.
		r.Post("/participants", h.AddParticipant)
		r.Get("/participants", h.ListParticipants)
		r.Delete("/participants/{id}", h.RemoveParticipant)

		// Expenses.
		r.Post("/expenses", h.CreateExpense)
		r.Get("/expenses", h.ListExpenses)
		r.Get("/expenses/{id}", h.GetExpense)
		r.Put("/expenses/{id}", h.UpdateExpense)
		r.Delete("/expenses/{id}", h.DeleteExpense)

		// Balances and settlements.
		r.Get("/balances", h.GetBalances)
		r.Get("/settlements/suggestions", h.SuggestSettlements)
		r.Post("/settlements", h.RecordSettlement)
		r.Get("/settlements", h.ListSettlements)
		r.Post("/settlements/{id}/complete", h.CompleteSettlement)

		// Split helper for expense forms.
		r.Post("/splits/even", h.DistributeEvenly)
	})

	return r
}
