package handlers

import (
	"net/http"

	"ride-entitlement/internal/driver/app/usecase"
	"ride-entitlement/internal/shared/jwt"
	"ride-entitlement/internal/shared/middleware"
	"ride-entitlement/internal/shared/models"
	"ride-entitlement/internal/shared/util"
)

type Handler struct {
	service usecase.Service
	logger  *util.Logger
	tokens  *jwt.Manager
	ws      *WSManager
}

func NewHandler(service usecase.Service, logger *util.Logger, tokens *jwt.Manager) *Handler {
	return &Handler{service: service, logger: logger, tokens: tokens, ws: NewWSManager()}
}

// WS exposes the socket manager so forced-offline notices can be pushed to
// connected drivers.
func (h *Handler) WS() *WSManager { return h.ws }

func (h *Handler) Register(mux *http.ServeMux, auth *middleware.Auth) {
	mux.HandleFunc("POST /drivers/{driver_id}/heartbeat", auth.Require(h.Heartbeat, models.RoleDriver))
	mux.HandleFunc("GET /drivers/{driver_id}", auth.Require(h.GetProfile, models.RoleDriver, models.RoleAdmin))
	mux.HandleFunc("GET /ws/drivers/{driver_id}", h.HandleDriverWebSocket)
}
