// internal/users/handlers.go

package users

import (
	"net/http"

	"github.com/gymmatch/gymmatch-backend/internal/auth"
	"github.com/gymmatch/gymmatch-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, user)
}

func (h *Handler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req UpdateProfileRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, user)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	profile, err := h.service.GetPublicProfile(r.Context(), id)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, profile)
}

// Admin handlers

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), &req)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, user)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, err := utils.QueryInt(r, "limit", defaultListLimit)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	offset, err := utils.QueryInt(r, "offset", 0)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	users, err := h.service.ListUsers(r.Context(), ListParams{Limit: limit, Offset: offset})
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, users)
}

func (h *Handler) BanUser(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, true)
}

func (h *Handler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	h.setBanned(w, r, false)
}

func (h *Handler) setBanned(w http.ResponseWriter, r *http.Request, banned bool) {
	actorID, _ := auth.GetUserIDFromContext(r.Context())
	targetID, err := utils.PathID(r, "id")
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	user, err := h.service.SetBanned(r.Context(), actorID, targetID, banned)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, _ := auth.GetUserIDFromContext(r.Context())
	targetID, err := utils.PathID(r, "id")
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), actorID, targetID); err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "User deleted")
}
