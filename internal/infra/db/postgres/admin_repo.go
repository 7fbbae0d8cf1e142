package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-group-transfer/internal/domain/model"
	"telegram-group-transfer/internal/domain/ports/repository"
)

var _ repository.AdminRepository = (*AdminRepo)(nil)

// AdminRepo is the Postgres adapter for the admin allow-list.
type AdminRepo struct {
	pool *pgxpool.Pool
}

func NewAdminRepo(pool *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{pool: pool}
}

// Save inserts or updates an admin entry.
func (r *AdminRepo) Save(ctx context.Context, a *model.Admin) error {
	const sql = `
INSERT INTO admins (user_id, username, first_name, added_by, added_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO UPDATE
  SET username   = EXCLUDED.username,
      first_name = EXCLUDED.first_name;
`
	_, err := r.pool.Exec(ctx, sql, a.UserID, a.Username, a.FirstName, a.AddedBy, a.AddedAt)
	if err != nil {
		return fmt.Errorf("postgres: saving admin: %w", err)
	}
	return nil
}

func (r *AdminRepo) Remove(ctx context.Context, userID int64) error {
	const sql = `DELETE FROM admins WHERE user_id = $1;`
	if _, err := r.pool.Exec(ctx, sql, userID); err != nil {
		return fmt.Errorf("postgres: removing admin: %w", err)
	}
	return nil
}

func (r *AdminRepo) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	const sql = `SELECT 1 FROM admins WHERE user_id = $1;`
	var one int
	if err := r.pool.QueryRow(ctx, sql, userID).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("postgres: querying admin: %w", err)
	}
	return true, nil
}

func (r *AdminRepo) List(ctx context.Context) ([]*model.Admin, error) {
	const sql = `
SELECT user_id, username, first_name, added_by, added_at
  FROM admins
 ORDER BY added_at;
`
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing admins: %w", err)
	}
	defer rows.Close()

	var admins []*model.Admin
	for rows.Next() {
		a := &model.Admin{}
		if err := rows.Scan(&a.UserID, &a.Username, &a.FirstName, &a.AddedBy, &a.AddedAt); err != nil {
			return nil, fmt.Errorf("postgres: scanning admin: %w", err)
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}
