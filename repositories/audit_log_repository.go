package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/clubops/club-system/models"
)

var ErrAuditLogNotFound = errors.New("audit log entry not found")

type ListAuditLogsFilter struct {
	ListParams
	Severity *models.LogSeverity
	UserID   *int
}

type AuditLogRepository interface {
	Create(ctx context.Context, exec SQLExecutor, entry *models.AuditLog) error
	GetByID(ctx context.Context, id int) (*models.AuditLog, error)
	List(ctx context.Context, filter ListAuditLogsFilter) ([]models.AuditLog, int, error)
}

type postgresAuditLogRepository struct {
	db *sql.DB
}

func NewPostgresAuditLogRepository(db *sql.DB) AuditLogRepository {
	return &postgresAuditLogRepository{db: db}
}

const auditLogColumns = `id, title, description, severity, metadata, user_id, created_at`

func (r *postgresAuditLogRepository) Create(ctx context.Context, exec SQLExecutor, entry *models.AuditLog) error {
	executor := SQLExecutor(r.db)
	if exec != nil {
		executor = exec
	}
	query := `
		INSERT INTO audit_logs (title, description, severity, metadata, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	var metadata interface{}
	if len(entry.Metadata) > 0 {
		metadata = []byte(entry.Metadata)
	}

	return executor.QueryRowContext(ctx, query,
		entry.Title, entry.Description, entry.Severity, metadata, entry.UserID,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *postgresAuditLogRepository) GetByID(ctx context.Context, id int) (*models.AuditLog, error) {
	e := &models.AuditLog{}
	var metadata []byte
	err := r.db.QueryRowContext(ctx, `SELECT `+auditLogColumns+` FROM audit_logs WHERE id = $1`, id).Scan(
		&e.ID, &e.Title, &e.Description, &e.Severity, &metadata, &e.UserID, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAuditLogNotFound
		}
		return nil, err
	}
	e.Metadata = metadata
	return e, nil
}

func (r *postgresAuditLogRepository) List(ctx context.Context, filter ListAuditLogsFilter) ([]models.AuditLog, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argID := 1

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}
	if filter.Severity != nil {
		where = append(where, fmt.Sprintf("severity = $%d", argID))
		args = append(args, *filter.Severity)
		argID++
	}
	if filter.UserID != nil {
		where = append(where, fmt.Sprintf("user_id = $%d", argID))
		args = append(args, *filter.UserID)
		argID++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+auditLogColumns+` FROM audit_logs WHERE %s ORDER BY id DESC LIMIT $%d OFFSET $%d`,
		whereClause, argID, argID+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]models.AuditLog, 0)
	for rows.Next() {
		var e models.AuditLog
		var metadata []byte
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Severity, &metadata, &e.UserID, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		e.Metadata = metadata
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
