package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, user User) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insertUser = `
INSERT INTO users (id, email, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())`
	if _, err := tx.ExecContext(ctx, insertUser, user.ID, user.Email, nullableString(user.PasswordHash)); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	const insertInfo = `
INSERT INTO user_infos (id, user_id, name, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())`
	role := user.Role
	if role == "" {
		role = RoleApplicant
	}
	if _, err := tx.ExecContext(ctx, insertInfo, uuid.NewString(), user.ID, user.Name, role); err != nil {
		return err
	}

	return tx.Commit()
}

const selectUser = `
SELECT u.id, u.email, u.password_hash, i.name, i.role, u.created_at, u.updated_at
FROM users u
JOIN user_infos i ON i.user_id = u.id
`

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx, selectUser+"WHERE u.email = $1 LIMIT 1", email))
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx, selectUser+"WHERE u.id = $1 LIMIT 1", userID))
}

func (r *PGRepo) scanOne(row *sql.Row) (User, error) {
	var user User
	var passwordHash sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Email,
		&passwordHash,
		&user.Name,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if passwordHash.Valid {
		user.PasswordHash = passwordHash.String
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
