package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clubops/club-system/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound        = errors.New("match not found")
	ErrMatchOpponentInvalid = errors.New("match opponent reference invalid")
)

type ListMatchesFilter struct {
	ListParams
	Season *string
	Status *models.MatchStatus
	From   *time.Time
	To     *time.Time
}

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	List(ctx context.Context, filter ListMatchesFilter) ([]models.Match, int, error)
	ListBySeasonAndStatus(ctx context.Context, season string, status models.MatchStatus) ([]models.Match, error)
	Update(ctx context.Context, match *models.Match) error
	UpdateScore(ctx context.Context, exec SQLExecutor, id int, clubScore, opponentScore int) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error

	AppendTimeline(ctx context.Context, exec SQLExecutor, entry *models.TimelineEntry) error
	ListTimeline(ctx context.Context, matchID int) ([]models.TimelineEntry, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, opponent_id, date, venue, season, status, club_score, opponent_score, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (opponent_id, date, venue, season, status, club_score, opponent_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		match.OpponentID, match.Date, match.Venue, match.Season,
		match.Status, match.ClubScore, match.OpponentScore,
	).Scan(&match.ID, &match.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrMatchOpponentInvalid
		}
		return err
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m := &models.Match{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.OpponentID, &m.Date, &m.Venue, &m.Season,
		&m.Status, &m.ClubScore, &m.OpponentScore, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) List(ctx context.Context, filter ListMatchesFilter) ([]models.Match, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argID := 1

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(season ILIKE $%d OR venue ILIKE $%d)", argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}
	if filter.Season != nil {
		where = append(where, fmt.Sprintf("season = $%d", argID))
		args = append(args, *filter.Season)
		argID++
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.From != nil {
		where = append(where, fmt.Sprintf("date >= $%d", argID))
		args = append(args, *filter.From)
		argID++
	}
	if filter.To != nil {
		where = append(where, fmt.Sprintf("date <= $%d", argID))
		args = append(args, *filter.To)
		argID++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+matchColumns+` FROM matches WHERE %s ORDER BY date DESC LIMIT $%d OFFSET $%d`,
		whereClause, argID, argID+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	matches, err := scanMatchRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return matches, total, nil
}

func (r *postgresMatchRepository) ListBySeasonAndStatus(ctx context.Context, season string, status models.MatchStatus) ([]models.Match, error) {
	where := []string{"status = $1"}
	args := []interface{}{status}
	if season != "" {
		where = append(where, "season = $2")
		args = append(args, season)
	}
	query := `SELECT ` + matchColumns + ` FROM matches WHERE ` + strings.Join(where, " AND ") + ` ORDER BY date ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMatchRows(rows)
}

func (r *postgresMatchRepository) Update(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches SET
			opponent_id = $1, date = $2, venue = $3, season = $4,
			status = $5, club_score = $6, opponent_score = $7
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		match.OpponentID, match.Date, match.Venue, match.Season,
		match.Status, match.ClubScore, match.OpponentScore, match.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrMatchOpponentInvalid
		}
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateScore(ctx context.Context, exec SQLExecutor, id int, clubScore, opponentScore int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE matches SET club_score = $1, opponent_score = $2 WHERE id = $3`,
		clubScore, opponentScore, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) AppendTimeline(ctx context.Context, exec SQLExecutor, entry *models.TimelineEntry) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_timeline (match_id, entry_type, minute, title, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return executor.QueryRowContext(ctx, query,
		entry.MatchID, entry.EntryType, entry.Minute, entry.Title, entry.Description,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *postgresMatchRepository) ListTimeline(ctx context.Context, matchID int) ([]models.TimelineEntry, error) {
	query := `
		SELECT id, match_id, entry_type, minute, title, description, created_at
		FROM match_timeline
		WHERE match_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.TimelineEntry, 0)
	for rows.Next() {
		var e models.TimelineEntry
		if err := rows.Scan(&e.ID, &e.MatchID, &e.EntryType, &e.Minute, &e.Title, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanMatchRows(rows *sql.Rows) ([]models.Match, error) {
	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(
			&m.ID, &m.OpponentID, &m.Date, &m.Venue, &m.Season,
			&m.Status, &m.ClubScore, &m.OpponentScore, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
