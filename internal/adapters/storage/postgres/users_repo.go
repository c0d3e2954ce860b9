package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-alert-network/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, first_name, last_name, email, phone,
			role, active, allow_contact_sharing, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		u.ID,
		u.FirstName,
		u.LastName,
		u.Email,
		u.Phone,
		u.Role,
		u.Active,
		u.AllowContactSharing,
		u.CreatedAt,
	)
	return err
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return users.User{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, first_name, last_name, email, phone,
			role, active, allow_contact_sharing, created_at
		FROM users
		WHERE id = $1
	`, id)

	var u users.User
	if err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Phone,
		&u.Role,
		&u.Active,
		&u.AllowContactSharing,
		&u.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return users.User{}, ErrNotFound
		}
		return users.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) ListActiveByRole(ctx context.Context, role users.Role, limit int) ([]users.User, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, first_name, last_name, email, phone,
			role, active, allow_contact_sharing, created_at
		FROM users
		WHERE role = $1 AND active = TRUE
		ORDER BY created_at ASC
		LIMIT $2
	`, role, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		var u users.User
		if err := rows.Scan(
			&u.ID,
			&u.FirstName,
			&u.LastName,
			&u.Email,
			&u.Phone,
			&u.Role,
			&u.Active,
			&u.AllowContactSharing,
			&u.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, u)
	}

	return out, rows.Err()
}
