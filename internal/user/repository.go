package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wardwatch/platform/internal/shared/errors"
)

// Repository provides database operations for user accounts
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new user repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUser registers a user account
func (r *Repository) CreateUser(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (uid, name, email, role)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, u.UID, u.Name, u.Email, u.Role)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("user with this uid or email already exists")
		}
		return errors.Wrap(err, "failed to create user")
	}

	return nil
}

// GetUser retrieves a user by identity-provider uid
func (r *Repository) GetUser(ctx context.Context, uid string) (*User, error) {
	query := `
		SELECT uid, name, email, role, created_at, updated_at
		FROM users
		WHERE uid = $1`

	u := &User{}
	err := r.pool.QueryRow(ctx, query, uid).Scan(
		&u.UID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("user", uid)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}

	return u, nil
}

// UpdateUser updates a user account
func (r *Repository) UpdateUser(ctx context.Context, u *User) error {
	query := `
		UPDATE users SET
			name = $2, email = $3, role = $4, updated_at = NOW()
		WHERE uid = $1`

	result, err := r.pool.Exec(ctx, query, u.UID, u.Name, u.Email, u.Role)
	if err != nil {
		return errors.Wrap(err, "failed to update user")
	}

	if result.RowsAffected() == 0 {
		return errors.NotFound("user", u.UID)
	}

	return nil
}

// DeleteUser deletes a user account
func (r *Repository) DeleteUser(ctx context.Context, uid string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	if err != nil {
		return errors.Wrap(err, "failed to delete user")
	}

	if result.RowsAffected() == 0 {
		return errors.NotFound("user", uid)
	}

	return nil
}

// ListUsers lists users with optional filters
func (r *Repository) ListUsers(ctx context.Context, filter ListUsersFilter) ([]User, int, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argNum))
		args = append(args, *filter.Role)
		argNum++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", argNum, argNum))
		args = append(args, "%"+filter.Search+"%")
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM users %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count users")
	}

	limit := 50
	if filter.Limit > 0 && filter.Limit <= 100 {
		limit = filter.Limit
	}

	query := fmt.Sprintf(`
		SELECT uid, name, email, role, created_at, updated_at
		FROM users
		%s
		ORDER BY name, email
		LIMIT $%d OFFSET $%d`, whereClause, argNum, argNum+1)

	args = append(args, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list users")
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.UID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan user")
		}
		users = append(users, u)
	}

	return users, total, nil
}
