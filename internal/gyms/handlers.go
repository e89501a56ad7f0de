// internal/gyms/handlers.go

package gyms

import (
	"net/http"
	"strconv"

	"github.com/gymmatch/gymmatch-backend/internal/auth"
	"github.com/gymmatch/gymmatch-backend/internal/common/errs"
	"github.com/gymmatch/gymmatch-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListGyms(w http.ResponseWriter, r *http.Request) {
	gyms, err := h.service.ListGyms(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, gyms)
}

func (h *Handler) GetGym(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	gym, err := h.service.GetGym(r.Context(), id)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, gym)
}

func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	limit, err := utils.QueryInt(r, "limit", 0)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	params := RecommendParams{Limit: limit}
	if params.Latitude, err = queryFloat(r, "lat"); err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	if params.Longitude, err = queryFloat(r, "lng"); err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	ranked, err := h.service.Recommend(r.Context(), userID, params)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, ranked)
}

func (h *Handler) SaveGym(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())
	gymID, err := utils.PathID(r, "id")
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	saved, err := h.service.SaveGym(r.Context(), userID, gymID)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, saved)
}

func (h *Handler) UnsaveGym(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())
	gymID, err := utils.PathID(r, "id")
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	if err := h.service.UnsaveGym(r.Context(), userID, gymID); err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Gym removed from favourites")
}

func (h *Handler) ListSavedGyms(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	saved, err := h.service.ListSavedGyms(r.Context(), userID)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, saved)
}

// Admin handlers

func (h *Handler) CreateGym(w http.ResponseWriter, r *http.Request) {
	var req GymRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	gym, err := h.service.CreateGym(r.Context(), &req)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, gym)
}

func (h *Handler) UpdateGym(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	var req GymRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	gym, err := h.service.UpdateGym(r.Context(), id, &req)
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, gym)
}

func (h *Handler) DeleteGym(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "id")
	if err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}

	if err := h.service.DeleteGym(r.Context(), id); err != nil {
		utils.RespondWithAppError(w, r, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Gym deleted")
}

func queryFloat(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errs.Invalid("invalid %s", name)
	}
	return &v, nil
}
