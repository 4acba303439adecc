package handlers

import (
	"context"
	"net/http"
	"time"

	"ride-entitlement/internal/shared/util"
)

func (h *Handler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	driverID := r.PathValue("driver_id")

	profile, err := h.service.Heartbeat(ctx, driverID)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	util.ResponseInJson(w, http.StatusOK, "heartbeat recorded", map[string]interface{}{
		"online_status":       profile.OnlineStatus,
		"subscription_status": profile.SubscriptionStatus,
		"last_seen_at":        profile.LastSeenAt,
	})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	driverID := r.PathValue("driver_id")

	profile, err := h.service.GetProfile(ctx, driverID)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	util.ResponseInJson(w, http.StatusOK, "driver profile", profile)
}
