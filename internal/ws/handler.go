package ws

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/celianh/marketplace-backend/internal/auth"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin filtering happens at the CORS layer for REST; browsers do
		// not enforce CORS for websockets, so production deployments should
		// restrict this.
		return true
	},
}

// ParticipantChecker answers whether a user belongs to a conversation.
type ParticipantChecker interface {
	IsParticipant(ctx context.Context, convID, userID uint64) (bool, error)
}

type Handler struct {
	hub          *Hub
	tokens       *auth.Manager
	participants ParticipantChecker
}

func NewHandler(hub *Hub, tokens *auth.Manager, participants ParticipantChecker) *Handler {
	return &Handler{hub: hub, tokens: tokens, participants: participants}
}

// Serve upgrades the connection, then authenticates the token query
// parameter and checks conversation membership. Refusals close with policy
// violation (1008) so the client sees a distinct close code instead of a
// silent drop. Upgrading before authenticating is deliberate: a pre-upgrade
// refusal could only carry an HTTP status.
func (h *Handler) Serve(c echo.Context) error {
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid conversation id")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil
	}

	claims, err := h.tokens.Parse(c.QueryParam("token"))
	if err != nil {
		refuse(conn, "invalid token")
		return nil
	}
	ok, err := h.participants.IsParticipant(c.Request().Context(), convID, claims.UserID)
	if err != nil || !ok {
		refuse(conn, "not a conversation participant")
		return nil
	}

	client := newClient(h.hub, convID, conn)
	h.hub.Join(convID, client)
	go client.writePump()
	go client.readPump()
	return nil
}

func refuse(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	_ = conn.Close()
}
