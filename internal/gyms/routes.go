package gyms

import (
	"github.com/gorilla/mux"

	"github.com/gymmatch/gymmatch-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/gyms", handler.ListGyms).Methods("GET")
	api.HandleFunc("/gyms/recommendations", handler.GetRecommendations).Methods("GET")
	api.HandleFunc("/gyms/{id:[0-9]+}", handler.GetGym).Methods("GET")
	api.HandleFunc("/gyms/{id:[0-9]+}/save", handler.SaveGym).Methods("POST")
	api.HandleFunc("/gyms/{id:[0-9]+}/save", handler.UnsaveGym).Methods("DELETE")
	api.HandleFunc("/saved-gyms", handler.ListSavedGyms).Methods("GET")

	admin := router.PathPrefix("/api/v1/admin/gyms").Subrouter()
	admin.Use(authMiddleware.Authenticate, authMiddleware.RequireAdmin)

	admin.HandleFunc("", handler.CreateGym).Methods("POST")
	admin.HandleFunc("/{id:[0-9]+}", handler.UpdateGym).Methods("PUT")
	admin.HandleFunc("/{id:[0-9]+}", handler.DeleteGym).Methods("DELETE")
}
