// internal/matching/handlers.go

package matching

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

func (h *Handler) RequestMatch(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var dto RequestMatchDTO
	if err := utils.DecodeJSON(r, &dto); err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	match, err := h.service.RequestMatch(r.Context(), userID, dto.ReceiverID)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, match)
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var filter *Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := Status(raw)
		filter = &status
	}

	matches, err := h.service.ListMatches(r.Context(), userID, filter)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, matches)
}

func (h *Handler) GetMatchWith(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())
	otherID, err := utils.PathID(r, "userId")
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	match, err := h.service.GetMatchBetween(r.Context(), userID, otherID)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, match)
}

func (h *Handler) RespondToMatch(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())
	matchID, err := utils.PathID(r, "id")
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	var dto RespondMatchDTO
	if err := utils.DecodeJSON(r, &dto); err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	match, err := h.service.RespondToMatch(r.Context(), matchID, userID, dto.Status)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, match)
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())
	matchID, err := utils.PathID(r, "id")
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	removed, err := h.service.DeleteMatch(r.Context(), matchID, userID)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]bool{"deleted": removed})
}
