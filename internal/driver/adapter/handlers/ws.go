package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"ride-entitlement/internal/driver/models"
	sharedmodels "ride-entitlement/internal/shared/models"
)

// WSManager tracks one socket per connected driver so the engine can push
// presence/entitlement notices without waiting for the next heartbeat.
type WSManager struct {
	drivers map[string]*websocket.Conn
	mu      sync.RWMutex
}

func NewWSManager() *WSManager {
	return &WSManager{
		drivers: make(map[string]*websocket.Conn),
	}
}

func (m *WSManager) AddConn(conn *websocket.Conn, driverID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.drivers[driverID]; ok {
		old.Close()
	}
	m.drivers[driverID] = conn
}

func (m *WSManager) DeleteConn(driverID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drivers, driverID)
}

// NotifyDriver pushes a JSON message to the driver's socket, if connected.
// A disconnected driver is not an error: it will see the new state on its
// next heartbeat response.
func (m *WSManager) NotifyDriver(driverID string, payload interface{}) error {
	m.mu.RLock()
	conn, ok := m.drivers[driverID]
	m.mu.RUnlock()

	if !ok {
		return nil
	}
	return conn.WriteJSON(payload)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type AuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type WSMessage struct {
	Type string `json:"type"`
}

type WSResponse struct {
	Type    string      `json:"type"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type PresenceSnapshot struct {
	OnlineStatus       models.OnlineStatus       `json:"online_status"`
	SubscriptionStatus models.SubscriptionStatus `json:"subscription_status"`
	LastSeenAt         *time.Time                `json:"last_seen_at,omitempty"`
}

// HandleDriverWebSocket upgrades the connection, authenticates the first
// frame, then treats every "heartbeat" frame like a heartbeat call and
// answers with the resulting presence snapshot.
func (h *Handler) HandleDriverWebSocket(w http.ResponseWriter, r *http.Request) {
	driverID := r.PathValue("driver_id")
	if driverID == "" {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("DriverWS", err)
		return
	}
	defer conn.Close()

	if !h.authenticateWS(conn, driverID) {
		return
	}

	h.ws.AddConn(conn, driverID)
	defer h.ws.DeleteConn(driverID)

	h.logger.Info("DriverWS", "driver connected: "+driverID)

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			h.logger.Info("DriverWS", "driver disconnected: "+driverID)
			return
		}

		switch msg.Type {
		case "heartbeat":
			ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
			profile, err := h.service.Heartbeat(ctx, driverID)
			cancel()
			if err != nil {
				conn.WriteJSON(WSResponse{Type: "error", Message: err.Error()})
				continue
			}
			conn.WriteJSON(WSResponse{Type: "heartbeat_ack", Data: PresenceSnapshot{
				OnlineStatus:       profile.OnlineStatus,
				SubscriptionStatus: profile.SubscriptionStatus,
				LastSeenAt:         profile.LastSeenAt,
			}})
		default:
			conn.WriteJSON(WSResponse{Type: "error", Message: "unknown message type"})
		}
	}
}

func (h *Handler) authenticateWS(conn *websocket.Conn, driverID string) bool {
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	defer conn.SetReadDeadline(time.Time{})

	var auth AuthMessage
	if err := conn.ReadJSON(&auth); err != nil || auth.Type != "auth" {
		conn.WriteJSON(WSResponse{Type: "error", Message: "expected auth message"})
		return false
	}

	claims, err := h.tokens.Parse(auth.Token)
	if err != nil {
		conn.WriteJSON(WSResponse{Type: "error", Message: "invalid token"})
		return false
	}

	if claims.Role != sharedmodels.RoleDriver || claims.Subject != driverID {
		conn.WriteJSON(WSResponse{Type: "error", Message: "forbidden"})
		return false
	}

	conn.WriteJSON(WSResponse{Type: "auth_ok"})
	return true
}
