package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/clubops/club-system/models"
)

var ErrStaffNotFound = errors.New("staff member not found")

type ListStaffFilter struct {
	ListParams
	RoleTitle *string
}

type StaffRepository interface {
	Create(ctx context.Context, staff *models.Staff) error
	GetByID(ctx context.Context, id int) (*models.Staff, error)
	List(ctx context.Context, filter ListStaffFilter) ([]models.Staff, int, error)
	Update(ctx context.Context, staff *models.Staff) error
	UpdatePhotoKey(ctx context.Context, staffID int, photoKey *string) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresStaffRepository struct {
	db *sql.DB
}

func NewPostgresStaffRepository(db *sql.DB) StaffRepository {
	return &postgresStaffRepository{db: db}
}

const staffColumns = `id, full_name, role_title, bio, photo_key, joined_at, created_at`

func (r *postgresStaffRepository) Create(ctx context.Context, staff *models.Staff) error {
	query := `
		INSERT INTO staff (full_name, role_title, bio, photo_key, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		staff.FullName, staff.RoleTitle, staff.Bio, staff.PhotoKey, staff.JoinedAt,
	).Scan(&staff.ID, &staff.CreatedAt)
}

func (r *postgresStaffRepository) GetByID(ctx context.Context, id int) (*models.Staff, error) {
	s := &models.Staff{}
	err := r.db.QueryRowContext(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id).Scan(
		&s.ID, &s.FullName, &s.RoleTitle, &s.Bio, &s.PhotoKey, &s.JoinedAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *postgresStaffRepository) List(ctx context.Context, filter ListStaffFilter) ([]models.Staff, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argID := 1

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(full_name ILIKE $%d OR role_title ILIKE $%d)", argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}
	if filter.RoleTitle != nil {
		where = append(where, fmt.Sprintf("role_title = $%d", argID))
		args = append(args, *filter.RoleTitle)
		argID++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+staffColumns+` FROM staff WHERE %s ORDER BY full_name ASC LIMIT $%d OFFSET $%d`,
		whereClause, argID, argID+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	members := make([]models.Staff, 0)
	for rows.Next() {
		var s models.Staff
		if err := rows.Scan(&s.ID, &s.FullName, &s.RoleTitle, &s.Bio, &s.PhotoKey, &s.JoinedAt, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		members = append(members, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *postgresStaffRepository) Update(ctx context.Context, staff *models.Staff) error {
	query := `UPDATE staff SET full_name = $1, role_title = $2, bio = $3, joined_at = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, staff.FullName, staff.RoleTitle, staff.Bio, staff.JoinedAt, staff.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStaffNotFound)
}

func (r *postgresStaffRepository) UpdatePhotoKey(ctx context.Context, staffID int, photoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE staff SET photo_key = $1 WHERE id = $2`, photoKey, staffID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStaffNotFound)
}

func (r *postgresStaffRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrStaffNotFound)
}
