package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/clubops/club-system/models"
)

var ErrArchiveNotFound = errors.New("archive entry not found")

type ListArchivesFilter struct {
	ListParams
	Source *models.ArchiveSource
}

type ArchiveRepository interface {
	// Create runs on the caller's executor so archival commits atomically
	// with the delete it snapshots.
	Create(ctx context.Context, exec SQLExecutor, archive *models.Archive) error
	GetByID(ctx context.Context, id int) (*models.Archive, error)
	List(ctx context.Context, filter ListArchivesFilter) ([]models.Archive, int, error)
}

type postgresArchiveRepository struct {
	db *sql.DB
}

func NewPostgresArchiveRepository(db *sql.DB) ArchiveRepository {
	return &postgresArchiveRepository{db: db}
}

const archiveColumns = `id, source, source_id, snapshot, deleted_by, created_at`

func (r *postgresArchiveRepository) Create(ctx context.Context, exec SQLExecutor, archive *models.Archive) error {
	executor := SQLExecutor(r.db)
	if exec != nil {
		executor = exec
	}
	query := `
		INSERT INTO archives (source, source_id, snapshot, deleted_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return executor.QueryRowContext(ctx, query,
		archive.Source, archive.SourceID, []byte(archive.Snapshot), archive.DeletedBy,
	).Scan(&archive.ID, &archive.CreatedAt)
}

func (r *postgresArchiveRepository) GetByID(ctx context.Context, id int) (*models.Archive, error) {
	a := &models.Archive{}
	var snapshot []byte
	err := r.db.QueryRowContext(ctx, `SELECT `+archiveColumns+` FROM archives WHERE id = $1`, id).Scan(
		&a.ID, &a.Source, &a.SourceID, &snapshot, &a.DeletedBy, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArchiveNotFound
		}
		return nil, err
	}
	a.Snapshot = snapshot
	return a, nil
}

func (r *postgresArchiveRepository) List(ctx context.Context, filter ListArchivesFilter) ([]models.Archive, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argID := 1

	if filter.Source != nil {
		where = append(where, fmt.Sprintf("source = $%d", argID))
		args = append(args, *filter.Source)
		argID++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM archives WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+archiveColumns+` FROM archives WHERE %s ORDER BY id DESC LIMIT $%d OFFSET $%d`,
		whereClause, argID, argID+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	archives := make([]models.Archive, 0)
	for rows.Next() {
		var a models.Archive
		var snapshot []byte
		if err := rows.Scan(&a.ID, &a.Source, &a.SourceID, &snapshot, &a.DeletedBy, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		a.Snapshot = snapshot
		archives = append(archives, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return archives, total, nil
}
