package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/clubops/club-system/models"
	"github.com/clubops/club-system/repositories"
)

// AuditEntry is what callers hand to Record; the service fills in the rest.
type AuditEntry struct {
	Title       string
	Description string
	Severity    models.LogSeverity
	Metadata    map[string]interface{}
	UserID      *int
}

// AuditService writes best-effort action records. A failed write must never
// fail the operation being audited, so Record swallows errors after logging
// them.
type AuditService interface {
	Record(ctx context.Context, entry AuditEntry)
	GetByID(ctx context.Context, id int) (*models.AuditLog, error)
	List(ctx context.Context, filter repositories.ListAuditLogsFilter) ([]models.AuditLog, int, error)
}

type auditService struct {
	logRepo repositories.AuditLogRepository
	logger  *slog.Logger
}

func NewAuditService(logRepo repositories.AuditLogRepository, logger *slog.Logger) AuditService {
	return &auditService{logRepo: logRepo, logger: logger}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) {
	severity := entry.Severity
	if !models.ValidLogSeverity(severity) {
		severity = models.SeverityInfo
	}

	var metadata json.RawMessage
	if entry.Metadata != nil {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			s.logger.Warn("audit metadata not serializable, dropping it",
				slog.String("title", entry.Title), slog.Any("error", err))
		} else {
			metadata = raw
		}
	}

	record := &models.AuditLog{
		Title:       entry.Title,
		Description: entry.Description,
		Severity:    severity,
		Metadata:    metadata,
		UserID:      entry.UserID,
	}

	if err := s.logRepo.Create(ctx, nil, record); err != nil {
		s.logger.Error("failed to write audit log entry",
			slog.String("title", entry.Title), slog.Any("error", err))
	}
}

func (s *auditService) GetByID(ctx context.Context, id int) (*models.AuditLog, error) {
	entry, err := s.logRepo.GetByID(ctx, id)
	if err != nil {
		if err == repositories.ErrAuditLogNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (s *auditService) List(ctx context.Context, filter repositories.ListAuditLogsFilter) ([]models.AuditLog, int, error) {
	filter.ListParams = repositories.NormalizeListParams(filter.ListParams)
	return s.logRepo.List(ctx, filter)
}
