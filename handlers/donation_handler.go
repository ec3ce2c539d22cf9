package handlers

import (
	"net/http"

	"github.com/clubops/club-system/middleware"
	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
	"github.com/clubops/club-system/services"
)

type DonationHandler struct {
	donationService services.DonationService
}

func NewDonationHandler(donationService services.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

// Create is public: supporters donate without an account.
func (h *DonationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateDonationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	donation, err := h.donationService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusCreated, donation)
}

func (h *DonationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	donation, err := h.donationService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, donation)
}

func (h *DonationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListDonationsFilter{
		ListParams: parseListParams(r),
		Currency:   queryString(r, "currency"),
	}
	if status := queryString(r, "status"); status != nil {
		donationStatus := models.DonationStatus(*status)
		filter.Status = &donationStatus
	}

	donations, total, err := h.donationService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	listResponse(w, r, donations, filter.ListParams, total)
}

func (h *DonationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Status models.DonationStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	donation, err := h.donationService.UpdateStatus(r.Context(), id, input.Status, &actorID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, donation)
}

// Stats reports totals grouped by status and currency.
func (h *DonationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	totals, err := h.donationService.Totals(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, totals)
}
