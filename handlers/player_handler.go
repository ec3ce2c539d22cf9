package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/clubops/club-system/middleware"
	"github.com/clubops/club-system/repositories"
	"github.com/clubops/club-system/services"
	"github.com/go-chi/chi/v5"
)

type PlayerHandler struct {
	playerService services.PlayerService
	eventService  services.EventService
}

func NewPlayerHandler(playerService services.PlayerService, eventService services.EventService) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
		eventService:  eventService,
	}
}

func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreatePlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusCreated, player)
}

// Get resolves the path parameter as a numeric ID or a slug.
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	player, err := h.playerService.GetByIdentifier(r.Context(), identifier)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, player)
}

func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListPlayersFilter{
		ListParams: parseListParams(r),
		TeamID:     queryInt(r, "team_id"),
		Position:   queryString(r, "position"),
	}

	players, total, err := h.playerService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	listResponse(w, r, players, filter.ListParams, total)
}

func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "identifier")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdatePlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, player)
}

func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "identifier")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	if err := h.playerService.Delete(r.Context(), id, &actorID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *PlayerHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "identifier")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to get photo file from form: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content-type header is required for photo"))
		return
	}

	player, err := h.playerService.UploadPhoto(r.Context(), id, file, contentType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, player)
}

// Stats reports squad composition by position.
func (h *PlayerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.playerService.PositionStats(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, counts)
}

// Involvement rolls up a player's event participation counts.
func (h *PlayerHandler) Involvement(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "identifier")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	involvement, err := h.eventService.PlayerInvolvement(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, involvement)
}
