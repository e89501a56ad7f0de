// internal/messaging/handlers.go

package messaging

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/gymmatch/gymmatch-backend/internal/auth"
	"github.com/gymmatch/gymmatch-backend/internal/common/utils"
	"github.com/gymmatch/gymmatch-backend/internal/logging"
)

type Handler struct {
	service  Service
	gateway  *Gateway
	upgrader websocket.Upgrader
}

func NewHandler(service Service, gateway *Gateway, allowedOrigins []string) *Handler {
	return &Handler{
		service: service,
		gateway: gateway,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker accepts requests without an Origin header (non-browser clients).
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.ToLower(strings.TrimRight(origin, "/"))] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}

// HandleWebSocket upgrades an authenticated request to a realtime connection.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Warn().Err(err).Int64("user_id", userID).Msg("WebSocket upgrade failed")
		return
	}

	h.gateway.Serve(conn, userID)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req SendMessageRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	msg, err := h.service.SendMessage(r.Context(), userID, req.ReceiverID, req.Content)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	messagesSentTotal.WithLabelValues(transportREST).Inc()
	h.gateway.Deliver(msg)

	utils.RespondWithData(w, http.StatusCreated, msg)
}

func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())
	otherID, err := utils.PathID(r, "userId")
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	messages, err := h.service.GetConversation(r.Context(), userID, otherID)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, messages)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())
	senderID, err := utils.PathID(r, "userId")
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	updated, err := h.service.MarkRead(r.Context(), userID, senderID)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]int64{"updated": updated})
}

func (h *Handler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]int{"count": count})
}
