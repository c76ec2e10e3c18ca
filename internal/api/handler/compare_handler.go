package handler

import (
	"net/http"

	"github.com/TLEonTestCase37/devbits/internal/app/service"
	"github.com/TLEonTestCase37/devbits/internal/common"

	"github.com/go-chi/chi/v5"
)

type CompareHandler struct {
	compareService *service.CompareService
}

func NewCompareHandler(compareService *service.CompareService) *CompareHandler {
	return &CompareHandler{compareService: compareService}
}

func (h *CompareHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.compare)
}

func (h *CompareHandler) compare(w http.ResponseWriter, r *http.Request) {
	first := r.URL.Query().Get("first")
	second := r.URL.Query().Get("second")
	if first == "" || second == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Both 'first' and 'second' handles are required")
		return
	}

	resp, err := h.compareService.Compare(r.Context(), first, second)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}
