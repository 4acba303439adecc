package api

import (
	"net/http"

	"ride-entitlement/internal/shared/middleware"
	"ride-entitlement/internal/shared/models"
)

func (h *Handler) Register(mux *http.ServeMux, auth *middleware.Auth) {
	mux.HandleFunc("POST /subscriptions", auth.Require(h.Submit, models.RoleDriver))
	mux.HandleFunc("GET /drivers/{driver_id}/subscriptions", auth.Require(h.ListByDriver, models.RoleDriver, models.RoleAdmin))
	mux.HandleFunc("GET /plans", auth.Require(h.ListPlans, models.RoleDriver, models.RolePassenger, models.RoleAdmin))

	// Admin-only ledger decisions.
	mux.HandleFunc("POST /subscriptions/{subscription_id}/verify", auth.Require(h.Verify, models.RoleAdmin))
	mux.HandleFunc("POST /subscriptions/{subscription_id}/pause", auth.Require(h.Pause, models.RoleAdmin))
	mux.HandleFunc("POST /subscriptions/{subscription_id}/resume", auth.Require(h.Resume, models.RoleAdmin))
	mux.HandleFunc("DELETE /subscriptions/{subscription_id}", auth.Require(h.Delete, models.RoleAdmin))
}
