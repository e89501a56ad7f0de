// internal/messaging/routes.go

package messaging

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gymmatch/gymmatch-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	router.Handle("/ws", authMiddleware.Authenticate(http.HandlerFunc(handler.HandleWebSocket))).Methods("GET")

	api := router.PathPrefix("/api/v1/messages").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.SendMessage).Methods("POST")
	api.HandleFunc("/unread-count", handler.GetUnreadCount).Methods("GET")
	api.HandleFunc("/{userId:[0-9]+}", handler.GetConversation).Methods("GET")
	api.HandleFunc("/{userId:[0-9]+}/read", handler.MarkRead).Methods("POST")
}
