package handlers

import (
	"net/http"

	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
	"github.com/clubops/club-system/services"
)

type ArchiveHandler struct {
	archiveService services.ArchiveService
}

func NewArchiveHandler(archiveService services.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{archiveService: archiveService}
}

func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListArchivesFilter{
		ListParams: parseListParams(r),
	}
	if source := queryString(r, "source"); source != nil {
		archiveSource := models.ArchiveSource(*source)
		filter.Source = &archiveSource
	}

	archives, total, err := h.archiveService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	listResponse(w, r, archives, filter.ListParams, total)
}

func (h *ArchiveHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	archive, err := h.archiveService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, archive)
}
