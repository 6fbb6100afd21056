package feed

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	ws "github.com/gokatarajesh/ingenieras/pkg/http/ws"
)

// Handler upgrades admin requests to WebSocket and registers them with the hub.
type Handler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates the /ws/reports handler. Admin checks happen in middleware.
func NewHandler(hub *ws.Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger.With().Str("component", "feed_ws").Logger(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	id := uuid.New()
	conn := ws.NewConnection(raw, h.logger.With().Str("conn_id", id.String()).Logger())
	h.hub.RegisterConnection(id, conn)
	defer h.hub.UnregisterConnection(id)

	go conn.WritePump()
	conn.ReadPump(func(msg ws.Message) error {
		switch msg.Type {
		case ws.TypePing:
			return conn.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})
		default:
			errMsg, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{Code: "unsupported_type", Message: "feed is read-only"})
			if err != nil {
				return err
			}
			errMsg.RequestID = msg.RequestID
			return conn.Send(errMsg)
		}
	})
}
