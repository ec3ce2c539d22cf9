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
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayerSlugConflict = errors.New("player slug conflict")
	ErrPlayerTeamInvalid  = errors.New("player team reference invalid")
)

type ListPlayersFilter struct {
	ListParams
	TeamID   *int
	Position *string
}

// PositionCount is one row of the players-by-position stat.
type PositionCount struct {
	Position string `json:"position"`
	Count    int    `json:"count"`
}

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetBySlug(ctx context.Context, slug string) (*models.Player, error)
	List(ctx context.Context, filter ListPlayersFilter) ([]models.Player, int, error)
	ListByTeamID(ctx context.Context, teamID int) ([]models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	UpdatePhotoKey(ctx context.Context, playerID int, photoKey *string) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	CountByPosition(ctx context.Context) ([]PositionCount, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, slug, first_name, last_name, number, position, team_id, date_of_birth, photo_key, created_at`

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (slug, first_name, last_name, number, position, team_id, date_of_birth, photo_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		player.Slug, player.FirstName, player.LastName, player.Number,
		player.Position, player.TeamID, player.DateOfBirth, player.PhotoKey,
	).Scan(&player.ID, &player.CreatedAt)

	return r.handlePlayerError(err)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	return r.scanPlayer(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
}

func (r *postgresPlayerRepository) GetBySlug(ctx context.Context, slug string) (*models.Player, error) {
	return r.scanPlayer(ctx, `SELECT `+playerColumns+` FROM players WHERE slug = $1`, slug)
}

func (r *postgresPlayerRepository) List(ctx context.Context, filter ListPlayersFilter) ([]models.Player, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argID := 1

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR position ILIKE $%d)", argID, argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}
	if filter.TeamID != nil {
		where = append(where, fmt.Sprintf("team_id = $%d", argID))
		args = append(args, *filter.TeamID)
		argID++
	}
	if filter.Position != nil {
		where = append(where, fmt.Sprintf("position = $%d", argID))
		args = append(args, *filter.Position)
		argID++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+playerColumns+` FROM players WHERE %s ORDER BY number ASC, last_name ASC LIMIT $%d OFFSET $%d`,
		whereClause, argID, argID+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	players, err := scanPlayerRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return players, total, nil
}

func (r *postgresPlayerRepository) ListByTeamID(ctx context.Context, teamID int) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE team_id = $1 ORDER BY number ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlayerRows(rows)
}

func (r *postgresPlayerRepository) Update(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players SET
			slug = $1, first_name = $2, last_name = $3, number = $4,
			position = $5, team_id = $6, date_of_birth = $7
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		player.Slug, player.FirstName, player.LastName, player.Number,
		player.Position, player.TeamID, player.DateOfBirth, player.ID,
	)
	if err != nil {
		return r.handlePlayerError(err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdatePhotoKey(ctx context.Context, playerID int, photoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE players SET photo_key = $1 WHERE id = $2`, photoKey, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) CountByPosition(ctx context.Context) ([]PositionCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT position, COUNT(*) FROM players
		GROUP BY position
		ORDER BY COUNT(*) DESC, position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]PositionCount, 0)
	for rows.Next() {
		var c PositionCount
		if err := rows.Scan(&c.Position, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *postgresPlayerRepository) scanPlayer(ctx context.Context, query string, args ...interface{}) (*models.Player, error) {
	p := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&p.ID, &p.Slug, &p.FirstName, &p.LastName, &p.Number,
		&p.Position, &p.TeamID, &p.DateOfBirth, &p.PhotoKey, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanPlayerRows(rows *sql.Rows) ([]models.Player, error) {
	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(
			&p.ID, &p.Slug, &p.FirstName, &p.LastName, &p.Number,
			&p.Position, &p.TeamID, &p.DateOfBirth, &p.PhotoKey, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) handlePlayerError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "players_slug_key" {
				return ErrPlayerSlugConflict
			}
		case "23503":
			return ErrPlayerTeamInvalid
		}
	}
	return err
}
