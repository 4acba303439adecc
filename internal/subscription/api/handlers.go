package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"ride-entitlement/internal/shared/apperrors"
	"ride-entitlement/internal/shared/middleware"
	"ride-entitlement/internal/shared/util"
	"ride-entitlement/internal/subscription/app"
)

type Handler struct {
	service *app.LedgerService
}

func NewHandler(service *app.LedgerService) *Handler {
	return &Handler{service: service}
}

type submitRequest struct {
	PlanID          string `json:"plan_id"`
	PaymentEvidence string `json:"payment_evidence"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.ErrResponseInJson(w, apperrors.Validation("invalid request body"))
		return
	}

	driverID := middleware.Subject(r.Context())

	sub, err := h.service.Submit(ctx, driverID, req.PlanID, req.PaymentEvidence)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	util.ResponseInJson(w, http.StatusOK, "subscription submitted, awaiting verification", sub)
}

type verifyRequest struct {
	Decision string `json:"decision"`
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.ErrResponseInJson(w, apperrors.Validation("invalid request body"))
		return
	}

	sub, err := h.service.Verify(ctx, r.PathValue("subscription_id"), req.Decision)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	util.ResponseInJson(w, http.StatusOK, "subscription "+string(sub.Status), sub)
}

func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sub, err := h.service.Pause(ctx, r.PathValue("subscription_id"))
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	util.ResponseInJson(w, http.StatusOK, "subscription paused", sub)
}

func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sub, err := h.service.Resume(ctx, r.PathValue("subscription_id"))
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	util.ResponseInJson(w, http.StatusOK, "subscription resumed", sub)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, r.PathValue("subscription_id")); err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	util.ResponseInJson(w, http.StatusOK, "subscription deleted", nil)
}

func (h *Handler) ListByDriver(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	subs, err := h.service.ListByDriver(ctx, r.PathValue("driver_id"))
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	util.ResponseInJson(w, http.StatusOK, "subscriptions", subs)
}

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	plans, err := h.service.ListPlans(ctx)
	if err != nil {
		util.ErrResponseInJson(w, err)
		return
	}

	util.ResponseInJson(w, http.StatusOK, "plans", plans)
}
