package handler

import (
	"net/http"
	"strconv"

	"github.com/TLEonTestCase37/devbits/internal/api/middleware"
	"github.com/TLEonTestCase37/devbits/internal/app/service"
	"github.com/TLEonTestCase37/devbits/internal/common"

	"github.com/go-chi/chi/v5"
)

type PracticeHandler struct {
	practiceService *service.PracticeService
}

func NewPracticeHandler(practiceService *service.PracticeService) *PracticeHandler {
	return &PracticeHandler{practiceService: practiceService}
}

func (h *PracticeHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/profile", h.distribution)
	r.Get("/suggestions", h.suggestions)
}

func (h *PracticeHandler) distribution(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	dist, err := h.practiceService.Distribution(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, dist)
}

func (h *PracticeHandler) suggestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	strategy := r.URL.Query().Get("by")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	suggestions, err := h.practiceService.Suggest(r.Context(), userID, strategy, limit)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, suggestions)
}
