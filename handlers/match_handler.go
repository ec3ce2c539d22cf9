package handlers

import (
	"net/http"
	"time"

	"github.com/clubops/club-system/middleware"
	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
	"github.com/clubops/club-system/services"
)

type MatchHandler struct {
	matchService   services.MatchService
	metricsService services.MetricsService
}

func NewMatchHandler(matchService services.MatchService, metricsService services.MetricsService) *MatchHandler {
	return &MatchHandler{
		matchService:   matchService,
		metricsService: metricsService,
	}
}

func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusCreated, match)
}

func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, match)
}

func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListMatchesFilter{
		ListParams: parseListParams(r),
		Season:     queryString(r, "season"),
	}
	if status := queryString(r, "status"); status != nil {
		matchStatus := models.MatchStatus(*status)
		filter.Status = &matchStatus
	}
	if from := queryString(r, "from"); from != nil {
		if t, err := time.Parse(time.RFC3339, *from); err == nil {
			filter.From = &t
		}
	}
	if to := queryString(r, "to"); to != nil {
		if t, err := time.Parse(time.RFC3339, *to); err == nil {
			filter.To = &t
		}
	}

	matches, total, err := h.matchService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	listResponse(w, r, matches, filter.ListParams, total)
}

func (h *MatchHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, match)
}

func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	if err := h.matchService.Delete(r.Context(), id, &actorID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *MatchHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.matchService.Timeline(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, entries)
}

// Metrics derives the win/draw/loss view of one match's goals.
func (h *MatchHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	metrics, err := h.metricsService.MatchMetrics(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, metrics)
}

// Stats is the admin dashboard: season reduction plus club-wide counters.
func (h *MatchHandler) Stats(w http.ResponseWriter, r *http.Request) {
	season := r.URL.Query().Get("season")

	stats, err := h.metricsService.Dashboard(r.Context(), season)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, stats)
}
