package handlers

import (
	"net/http"
	"strconv"

	"github.com/clubops/club-system/middleware"
	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
	"github.com/clubops/club-system/services"
)

type CardHandler struct {
	eventService services.EventService
}

func NewCardHandler(eventService services.EventService) *CardHandler {
	return &CardHandler{eventService: eventService}
}

func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.RecordCardInput
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

	card, err := h.eventService.RecordCard(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusCreated, card)
}

func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	card, err := h.eventService.GetCard(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, card)
}

func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListCardsFilter{
		ListParams: parseListParams(r),
		MatchID:    queryInt(r, "match_id"),
		PlayerID:   queryInt(r, "player_id"),
	}
	if color := queryString(r, "color"); color != nil {
		cardColor := models.CardColor(*color)
		filter.Color = &cardColor
	}
	h.list(w, r, filter)
}

func (h *CardHandler) ByMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.list(w, r, repositories.ListCardsFilter{
		ListParams: parseListParams(r),
		MatchID:    &matchID,
	})
}

func (h *CardHandler) ByPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.list(w, r, repositories.ListCardsFilter{
		ListParams: parseListParams(r),
		PlayerID:   &playerID,
	})
}

func (h *CardHandler) list(w http.ResponseWriter, r *http.Request, filter repositories.ListCardsFilter) {
	cards, total, err := h.eventService.ListCards(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	listResponse(w, r, cards, filter.ListParams, total)
}

func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RecordCardInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	card, err := h.eventService.UpdateCard(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, card)
}

func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	card, err := h.eventService.DeleteCard(r.Context(), id, &actorID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, card)
}

// Stats reports card counts by color and the most-booked players.
func (h *CardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	stats, err := h.eventService.CardStats(r.Context(), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, stats)
}
