package handlers

import (
	"net/http"
	"strconv"

	"github.com/clubops/club-system/middleware"
	"github.com/clubops/club-system/repositories"
	"github.com/clubops/club-system/services"
)

type GoalHandler struct {
	eventService services.EventService
}

func NewGoalHandler(eventService services.EventService) *GoalHandler {
	return &GoalHandler{eventService: eventService}
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.RecordGoalInput
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

	goal, err := h.eventService.RecordGoal(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusCreated, goal)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	goal, err := h.eventService.GetGoal(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, goal)
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListGoalsFilter{
		ListParams: parseListParams(r),
		MatchID:    queryInt(r, "match_id"),
		PlayerID:   queryInt(r, "player_id"),
		ForClub:    queryBool(r, "for_club"),
	}
	h.list(w, r, filter)
}

// ByMatch lists a single match's goals via the nested route.
func (h *GoalHandler) ByMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.list(w, r, repositories.ListGoalsFilter{
		ListParams: parseListParams(r),
		MatchID:    &matchID,
	})
}

// ByPlayer lists goals a player scored or assisted.
func (h *GoalHandler) ByPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.list(w, r, repositories.ListGoalsFilter{
		ListParams: parseListParams(r),
		PlayerID:   &playerID,
	})
}

func (h *GoalHandler) list(w http.ResponseWriter, r *http.Request, filter repositories.ListGoalsFilter) {
	goals, total, err := h.eventService.ListGoals(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	listResponse(w, r, goals, filter.ListParams, total)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordGoalInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	goal, err := h.eventService.UpdateGoal(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	goal, err := h.eventService.DeleteGoal(r.Context(), id, &actorID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, goal)
}

// Stats is the top-scorers leaderboard.
func (h *GoalHandler) Stats(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	scorers, err := h.eventService.TopScorers(r.Context(), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, scorers)
}
