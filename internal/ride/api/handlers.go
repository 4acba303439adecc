package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"ride-entitlement/internal/ride/app"
	"ride-entitlement/internal/ride/domain"
	"ride-entitlement/internal/shared/apperrors"
	"ride-entitlement/internal/shared/middleware"
	"ride-entitlement/internal/shared/util"
)

type Handler struct {
	service *app.RideService
}

func NewHandler(service *app.RideService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateRide(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	passengerID := middleware.Subject(r.Context())

	ride, err := h.service.CreateRide(ctx, passengerID)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	util.ResponseInJson(w, http.StatusOK, "ride requested", ride)
}

func (h *Handler) AcceptRide(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rideID := r.PathValue("ride_id")
	driverID := middleware.Subject(r.Context())

	ride, err := h.service.AcceptRide(ctx, rideID, driverID)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	util.ResponseInJson(w, http.StatusOK, "ride accepted", ride)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateRideStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.ErrResponseInJson(w, apperrors.Validation("invalid request body"))
		return
	}

	ride, err := h.service.UpdateRideStatus(ctx,
		r.PathValue("ride_id"),
		middleware.Subject(r.Context()),
		middleware.Role(r.Context()),
		domain.RideStatus(req.Status),
	)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	util.ResponseInJson(w, http.StatusOK, "ride status updated", ride)
}

func (h *Handler) GetRide(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ride, err := h.service.GetRideByID(ctx, r.PathValue("ride_id"))
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	util.ResponseInJson(w, http.StatusOK, "ride", ride)
}
