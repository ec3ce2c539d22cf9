package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clubops/club-system/models"
)

var ErrTrainingNotFound = errors.New("training session not found")

type ListTrainingsFilter struct {
	ListParams
	CoachID *int
	From    *time.Time
	To      *time.Time
}

type TrainingRepository interface {
	Create(ctx context.Context, training *models.Training) error
	GetByID(ctx context.Context, id int) (*models.Training, error)
	List(ctx context.Context, filter ListTrainingsFilter) ([]models.Training, int, error)
	Update(ctx context.Context, training *models.Training) error
	Delete(ctx context.Context, id int) error
}

type postgresTrainingRepository struct {
	db *sql.DB
}

func NewPostgresTrainingRepository(db *sql.DB) TrainingRepository {
	return &postgresTrainingRepository{db: db}
}

const trainingColumns = `id, title, date, location, focus, notes, coach_id, created_at`

func (r *postgresTrainingRepository) Create(ctx context.Context, training *models.Training) error {
	query := `
		INSERT INTO trainings (title, date, location, focus, notes, coach_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		training.Title, training.Date, training.Location, training.Focus, training.Notes, training.CoachID,
	).Scan(&training.ID, &training.CreatedAt)
}

func (r *postgresTrainingRepository) GetByID(ctx context.Context, id int) (*models.Training, error) {
	t := &models.Training{}
	err := r.db.QueryRowContext(ctx, `SELECT `+trainingColumns+` FROM trainings WHERE id = $1`, id).Scan(
		&t.ID, &t.Title, &t.Date, &t.Location, &t.Focus, &t.Notes, &t.CoachID, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTrainingRepository) List(ctx context.Context, filter ListTrainingsFilter) ([]models.Training, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argID := 1

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR focus ILIKE $%d OR location ILIKE $%d)", argID, argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}
	if filter.CoachID != nil {
		where = append(where, fmt.Sprintf("coach_id = $%d", argID))
		args = append(args, *filter.CoachID)
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
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trainings WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+trainingColumns+` FROM trainings WHERE %s ORDER BY date DESC LIMIT $%d OFFSET $%d`,
		whereClause, argID, argID+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	trainings := make([]models.Training, 0)
	for rows.Next() {
		var t models.Training
		if err := rows.Scan(&t.ID, &t.Title, &t.Date, &t.Location, &t.Focus, &t.Notes, &t.CoachID, &t.CreatedAt); err != nil {
			return nil, 0, err
		}
		trainings = append(trainings, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return trainings, total, nil
}

func (r *postgresTrainingRepository) Update(ctx context.Context, training *models.Training) error {
	query := `
		UPDATE trainings SET title = $1, date = $2, location = $3, focus = $4, notes = $5, coach_id = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		training.Title, training.Date, training.Location, training.Focus, training.Notes, training.CoachID, training.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTrainingNotFound)
}

func (r *postgresTrainingRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trainings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTrainingNotFound)
}
