package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/TLEonTestCase37/devbits/internal/api/middleware"
	"github.com/TLEonTestCase37/devbits/internal/app/service"
	"github.com/TLEonTestCase37/devbits/internal/common"

	"github.com/go-chi/chi/v5"
)

type ProblemsetHandler struct {
	problemsetService *service.ProblemsetService
}

func NewProblemsetHandler(problemsetService *service.ProblemsetService) *ProblemsetHandler {
	return &ProblemsetHandler{problemsetService: problemsetService}
}

// RegisterRoutes mounts the public catalog endpoints. Identity is optional:
// an authenticated caller gets solved / wrong-attempted markers.
func (h *ProblemsetHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.OptionalIdentity)
	r.Get("/", h.listProblems)
}

func (h *ProblemsetHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	q := r.URL.Query()
	filter := service.ProblemFilter{}
	if tags := q.Get("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filter.Tags = append(filter.Tags, t)
			}
		}
	}
	filter.MinRating, _ = strconv.Atoi(q.Get("minRating"))
	filter.MaxRating, _ = strconv.Atoi(q.Get("maxRating"))
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PageSize, _ = strconv.Atoi(q.Get("pageSize"))

	page, err := h.problemsetService.ListProblems(r.Context(), userID, filter)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, page)
}

type ContestListHandler struct {
	problemsetService *service.ProblemsetService
}

func NewContestListHandler(problemsetService *service.ProblemsetService) *ContestListHandler {
	return &ContestListHandler{problemsetService: problemsetService}
}

func (h *ContestListHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listContests)
}

func (h *ContestListHandler) listContests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	phase := q.Get("phase")
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	resp, err := h.problemsetService.ListContests(r.Context(), phase, page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}
