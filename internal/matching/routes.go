package matching

import (
	"github.com/gorilla/mux"

	"github.com/gymmatch/gymmatch-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matches").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.RequestMatch).Methods("POST")
	api.HandleFunc("", handler.ListMatches).Methods("GET")
	api.HandleFunc("/with/{userId:[0-9]+}", handler.GetMatchWith).Methods("GET")
	api.HandleFunc("/{id:[0-9]+}/respond", handler.RespondToMatch).Methods("POST")
	api.HandleFunc("/{id:[0-9]+}", handler.DeleteMatch).Methods("DELETE")
}
