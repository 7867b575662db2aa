package handler

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/ogrusev/bookmart/internal/realtime"
	"go.uber.org/zap"
)

// WSHandler upgrades authenticated requests to websocket connections and
// keeps the connection registry in sync with their lifetime
type WSHandler struct {
	registry *realtime.Registry
	logger   *zap.Logger
}

// NewWSHandler creates new WSHandler instance
func NewWSHandler(registry *realtime.Registry, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		registry: registry,
		logger:   logger,
	}
}

// Serve performs the socket upgrade, registers the connection under the
// caller's identity and unregisters it when the peer goes away
// 101 — соединение установлено;
// 401 — пользователь не аутентифицирован.
func (wh *WSHandler) Serve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			wh.logger.Debug("websocket upgrade failed",
				zap.Uint64("user_id", payload.UserID),
				zap.Error(err))
			return
		}

		handle := realtime.NewWSHandle(conn)
		wh.registry.Register(payload.UserID, handle)
		wh.logger.Debug("connection registered", zap.Uint64("user_id", payload.UserID))

		defer func() {
			wh.registry.Unregister(payload.UserID, handle)
			_ = handle.Close()
			wh.logger.Debug("connection unregistered", zap.Uint64("user_id", payload.UserID))
		}()

		// the push channel is one-way, incoming frames are drained until the
		// peer disconnects
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				return
			}
		}
	}
}
