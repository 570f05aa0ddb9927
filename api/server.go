/*
server.go - HTTP router configuration

PURPOSE:
  Configures the chi router and groups the engine endpoints under /api.

MIDDLEWARE STACK (applied in order):
  1. RequestID - tags each request for log correlation
  2. Logger    - request logging
  3. Recoverer - catches panics, returns 500
  4. CORS      - permissive cross-origin policy for browser clients

CORS NOTE:
  AllowedOrigins is "*" which is fine for internal tooling but must be
  restricted before exposing the API publicly.
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the HTTP routing table over the given handler.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/calendar", func(r chi.Router) {
			r.Get("/business-days", h.GetBusinessDays)
			r.Get("/{year}", h.GetHolidays)
		})

		r.Route("/legal", func(r chi.Router) {
			r.Get("/", h.ListParameterSets)
			r.Post("/", h.CreateParameterSet)
			r.Get("/active", h.GetActiveParameters)
			r.Post("/{id}/activate", h.ActivateParameterSet)
		})

		r.Route("/contracts", func(r chi.Router) {
			r.Post("/", h.CreateContract)
			r.Get("/{id}", h.GetContract)
			r.Post("/{id}/terminate", h.TerminateContract)
		})

		r.Route("/overtime", func(r chi.Router) {
			r.Post("/classify", h.ClassifyShifts)
			r.Post("/valuate", h.ValuateHours)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Post("/compute", h.ComputePayroll)
			r.Get("/{id}", h.GetPayroll)
			r.Post("/{id}/approve", h.ApprovePayroll)
		})

		r.Route("/sick-leaves", func(r chi.Router) {
			r.Post("/", h.RegisterSickLeave)
			r.Get("/{id}", h.GetSickLeave)
			r.Post("/{id}/transcribe", h.TranscribeSickLeave)
			r.Post("/{id}/collect", h.CollectSickLeave)
			r.Post("/{id}/finalize", h.FinalizeSickLeave)
			r.Post("/{id}/cancel", h.CancelSickLeave)
		})

		r.Route("/vacations", func(r chi.Router) {
			r.Post("/", h.RequestVacation)
		})

		r.Route("/employees/{id}", func(r chi.Router) {
			r.Get("/payroll", h.ListPayroll)
			r.Get("/sick-leaves", h.ListSickLeaves)
			r.Get("/vacations", h.ListVacations)
			r.Get("/vacations/balance", h.GetVacationBalance)
		})

		r.Route("/liquidations", func(r chi.Router) {
			r.Post("/", h.Liquidate)
		})
	})

	return r
}
