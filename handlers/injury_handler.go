package handlers

import (
	"net/http"

	"github.com/clubops/club-system/middleware"
	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
	"github.com/clubops/club-system/services"
)

type InjuryHandler struct {
	eventService services.EventService
}

func NewInjuryHandler(eventService services.EventService) *InjuryHandler {
	return &InjuryHandler{eventService: eventService}
}

func (h *InjuryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.RecordInjuryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}
	input.CreatedBy = &actorID

	injury, err := h.eventService.RecordInjury(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusCreated, injury)
}

func (h *InjuryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	injury, err := h.eventService.GetInjury(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, injury)
}

func (h *InjuryHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListInjuriesFilter{
		ListParams: parseListParams(r),
		MatchID:    queryInt(r, "match_id"),
		PlayerID:   queryInt(r, "player_id"),
	}
	if severity := queryString(r, "severity"); severity != nil {
		injSeverity := models.InjurySeverity(*severity)
		filter.Severity = &injSeverity
	}
	if status := queryString(r, "status"); status != nil {
		injStatus := models.InjuryStatus(*status)
		filter.Status = &injStatus
	}
	h.list(w, r, filter)
}

func (h *InjuryHandler) ByMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.list(w, r, repositories.ListInjuriesFilter{
		ListParams: parseListParams(r),
		MatchID:    &matchID,
	})
}

func (h *InjuryHandler) ByPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.list(w, r, repositories.ListInjuriesFilter{
		ListParams: parseListParams(r),
		PlayerID:   &playerID,
	})
}

func (h *InjuryHandler) list(w http.ResponseWriter, r *http.Request, filter repositories.ListInjuriesFilter) {
	injuries, total, err := h.eventService.ListInjuries(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	listResponse(w, r, injuries, filter.ListParams, total)
}

func (h *InjuryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordInjuryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	injury, err := h.eventService.UpdateInjury(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, injury)
}

func (h *InjuryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	injury, err := h.eventService.DeleteInjury(r.Context(), id, &actorID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, injury)
}

// Stats reports injury counts grouped by severity and status.
func (h *InjuryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.eventService.InjuryStats(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, stats)
}
