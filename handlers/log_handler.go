package handlers

import (
	"net/http"

	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
	"github.com/clubops/club-system/services"
)

type LogHandler struct {
	auditService services.AuditService
}

func NewLogHandler(auditService services.AuditService) *LogHandler {
	return &LogHandler{auditService: auditService}
}

func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListAuditLogsFilter{
		ListParams: parseListParams(r),
		UserID:     queryInt(r, "user_id"),
	}
	if severity := queryString(r, "severity"); severity != nil {
		logSeverity := models.LogSeverity(*severity)
		filter.Severity = &logSeverity
	}

	entries, total, err := h.auditService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	listResponse(w, r, entries, filter.ListParams, total)
}

func (h *LogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.auditService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	dataResponse(w, r, http.StatusOK, entry)
}
