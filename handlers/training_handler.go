package handlers

import (
	"net/http"
	"time"

	"github.com/clubops/club-system/middleware"
	"github.com/clubops/club-system/repositories"
	"github.com/clubops/club-system/services"
)

type TrainingHandler struct {
	trainingService services.TrainingService
}

func NewTrainingHandler(trainingService services.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainingService: trainingService}
}

func (h *TrainingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTrainingInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	coachID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}
	input.CoachID = &coachID

	training, err := h.trainingService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusCreated, training)
}

func (h *TrainingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	training, err := h.trainingService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, training)
}

func (h *TrainingHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListTrainingsFilter{
		ListParams: parseListParams(r),
		CoachID:    queryInt(r, "coach_id"),
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

	trainings, total, err := h.trainingService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	listResponse(w, r, trainings, filter.ListParams, total)
}

func (h *TrainingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateTrainingInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	training, err := h.trainingService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, training)
}

func (h *TrainingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.trainingService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}
