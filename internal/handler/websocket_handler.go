package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/widyatma/duit-backend/internal/service"
	ws "github.com/widyatma/duit-backend/internal/websocket"
)

// WebSocketHandler upgrades connections and attaches them to the hub.
// Browsers cannot set an Authorization header on the WebSocket handshake,
// so the token travels in the ?token= query param instead.
type WebSocketHandler struct {
	hub         *ws.Hub
	authService *service.AuthService
	upgrader    websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, authService *service.AuthService, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
	}
}

// Connect handles GET /ws?token=<jwt>
func (h *WebSocketHandler) Connect(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return NewUnauthorizedError(c, "Missing token")
	}

	userID, err := h.authService.ValidateToken(token)
	if err != nil {
		return NewUnauthorizedError(c, "Invalid or expired token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return nil
	}

	client := ws.NewClient(conn, userID, h.hub)
	h.hub.Register(client)

	log.Debug().
		Str("client_id", client.ID()).
		Str("user_id", userID.String()).
		Msg("WebSocket client connected")

	go client.WritePump()
	go client.ReadPump()

	return nil
}
