package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/clubops/club-system/models"
	"github.com/lib/pq"
)

var (
	ErrInjuryNotFound     = errors.New("injury not found")
	ErrInjuryMatchInvalid = errors.New("injury match reference invalid")
)

type ListInjuriesFilter struct {
	ListParams
	MatchID  *int
	PlayerID *int
	Severity *models.InjurySeverity
	Status   *models.InjuryStatus
}

// InjuryStats aggregates the injuries collection for the stats endpoint.
type InjuryStats struct {
	BySeverity map[string]int `json:"by_severity"`
	ByStatus   map[string]int `json:"by_status"`
}

type InjuryRepository interface {
	Create(ctx context.Context, exec SQLExecutor, injury *models.Injury) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Injury, error)
	List(ctx context.Context, filter ListInjuriesFilter) ([]models.Injury, int, error)
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Injury, error)
	Update(ctx context.Context, exec SQLExecutor, injury *models.Injury) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	Stats(ctx context.Context) (*InjuryStats, error)
}

type postgresInjuryRepository struct {
	db *sql.DB
}

func NewPostgresInjuryRepository(db *sql.DB) InjuryRepository {
	return &postgresInjuryRepository{db: db}
}

func (r *postgresInjuryRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const injuryColumns = `id, match_id, minute, severity, status, description,
	player_id, player_name, player_number, player_position, created_by, created_at`

func (r *postgresInjuryRepository) Create(ctx context.Context, exec SQLExecutor, injury *models.Injury) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO injuries (match_id, minute, severity, status, description,
			player_id, player_name, player_number, player_position, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		injury.MatchID, injury.Minute, injury.Severity, injury.Status, injury.Description,
		injury.Player.PlayerID, injury.Player.Name, injury.Player.Number, injury.Player.Position,
		injury.CreatedBy,
	).Scan(&injury.ID, &injury.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrInjuryMatchInvalid
		}
		return err
	}
	return nil
}

func (r *postgresInjuryRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Injury, error) {
	executor := r.getExecutor(exec)
	row := executor.QueryRowContext(ctx, `SELECT `+injuryColumns+` FROM injuries WHERE id = $1`, id)
	injury, err := scanInjury(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInjuryNotFound
		}
		return nil, err
	}
	return injury, nil
}

func (r *postgresInjuryRepository) List(ctx context.Context, filter ListInjuriesFilter) ([]models.Injury, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argID := 1

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(player_name ILIKE $%d OR description ILIKE $%d)", argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}
	if filter.MatchID != nil {
		where = append(where, fmt.Sprintf("match_id = $%d", argID))
		args = append(args, *filter.MatchID)
		argID++
	}
	if filter.PlayerID != nil {
		where = append(where, fmt.Sprintf("player_id = $%d", argID))
		args = append(args, *filter.PlayerID)
		argID++
	}
	if filter.Severity != nil {
		where = append(where, fmt.Sprintf("severity = $%d", argID))
		args = append(args, *filter.Severity)
		argID++
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM injuries WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+injuryColumns+` FROM injuries WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		whereClause, argID, argID+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	injuries, err := scanInjuryRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return injuries, total, nil
}

func (r *postgresInjuryRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.Injury, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx, `SELECT `+injuryColumns+` FROM injuries WHERE match_id = $1 ORDER BY id ASC`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInjuryRows(rows)
}

func (r *postgresInjuryRepository) Update(ctx context.Context, exec SQLExecutor, injury *models.Injury) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE injuries SET
			minute = $1, severity = $2, status = $3, description = $4,
			player_id = $5, player_name = $6, player_number = $7, player_position = $8
		WHERE id = $9`

	result, err := executor.ExecContext(ctx, query,
		injury.Minute, injury.Severity, injury.Status, injury.Description,
		injury.Player.PlayerID, injury.Player.Name, injury.Player.Number, injury.Player.Position,
		injury.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrInjuryNotFound)
}

func (r *postgresInjuryRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM injuries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrInjuryNotFound)
}

func (r *postgresInjuryRepository) Stats(ctx context.Context) (*InjuryStats, error) {
	stats := &InjuryStats{
		BySeverity: make(map[string]int),
		ByStatus:   make(map[string]int),
	}

	rows, err := r.db.QueryContext(ctx, `SELECT severity, COUNT(*) FROM injuries GROUP BY severity`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var severity string
		var count int
		if err := rows.Scan(&severity, &count); err != nil {
			return nil, err
		}
		stats.BySeverity[severity] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	statusRows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM injuries GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var status string
		var count int
		if err := statusRows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}
	return stats, statusRows.Err()
}

func scanInjury(row rowScanner) (*models.Injury, error) {
	i := &models.Injury{}
	err := row.Scan(
		&i.ID, &i.MatchID, &i.Minute, &i.Severity, &i.Status, &i.Description,
		&i.Player.PlayerID, &i.Player.Name, &i.Player.Number, &i.Player.Position,
		&i.CreatedBy, &i.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return i, nil
}

func scanInjuryRows(rows *sql.Rows) ([]models.Injury, error) {
	injuries := make([]models.Injury, 0)
	for rows.Next() {
		i, err := scanInjury(rows)
		if err != nil {
			return nil, err
		}
		injuries = append(injuries, *i)
	}
	return injuries, rows.Err()
}
