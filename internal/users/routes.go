package users

import (
	"github.com/gorilla/mux"

	"github.com/gymmatch/gymmatch-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/profile", handler.GetMyProfile).Methods("GET")
	api.HandleFunc("/profile", handler.UpdateMyProfile).Methods("PUT")
	api.HandleFunc("/users/{id:[0-9]+}", handler.GetUser).Methods("GET")

	admin := router.PathPrefix("/api/v1/admin/users").Subrouter()
	admin.Use(authMiddleware.Authenticate, authMiddleware.RequireAdmin)

	admin.HandleFunc("", handler.ListUsers).Methods("GET")
	admin.HandleFunc("", handler.CreateUser).Methods("POST")
	admin.HandleFunc("/{id:[0-9]+}/ban", handler.BanUser).Methods("POST")
	admin.HandleFunc("/{id:[0-9]+}/unban", handler.UnbanUser).Methods("POST")
	admin.HandleFunc("/{id:[0-9]+}", handler.DeleteUser).Methods("DELETE")
}
