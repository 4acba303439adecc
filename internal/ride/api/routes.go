package api

import (
	"net/http"

	"ride-entitlement/internal/shared/middleware"
	"ride-entitlement/internal/shared/models"
)

func (h *Handler) Register(mux *http.ServeMux, auth *middleware.Auth) {
	mux.HandleFunc("POST /rides", auth.Require(h.CreateRide, models.RolePassenger))
	mux.HandleFunc("POST /rides/{ride_id}/accept", auth.Require(h.AcceptRide, models.RoleDriver))
	mux.HandleFunc("POST /rides/{ride_id}/status", auth.Require(h.UpdateRideStatus, models.RoleDriver, models.RoleAdmin))
	mux.HandleFunc("GET /rides/{ride_id}", auth.Require(h.GetRide, models.RoleDriver, models.RolePassenger, models.RoleAdmin))
}
