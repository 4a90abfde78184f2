package auth

import (
	"context"
	"database/sql"
	"errors"
)

type PGSessionRepo struct {
	DB *sql.DB
}

func (r *PGSessionRepo) Save(ctx context.Context, session Session) error {
	const query = `
INSERT INTO refresh_tokens (user_id, token_hash, ip, user_agent, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
  token_hash = EXCLUDED.token_hash,
  ip = EXCLUDED.ip,
  user_agent = EXCLUDED.user_agent,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		session.UserID,
		session.TokenHash,
		nullableString(session.IP),
		nullableString(session.UserAgent),
	)
	return err
}

func (r *PGSessionRepo) Get(ctx context.Context, userID string) (Session, error) {
	const query = `
SELECT user_id, token_hash, ip, user_agent, created_at, updated_at
FROM refresh_tokens
WHERE user_id = $1
LIMIT 1`
	var session Session
	var ip sql.NullString
	var userAgent sql.NullString
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&session.UserID,
		&session.TokenHash,
		&ip,
		&userAgent,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNoSession
		}
		return Session{}, err
	}
	if ip.Valid {
		session.IP = ip.String
	}
	if userAgent.Valid {
		session.UserAgent = userAgent.String
	}
	return session, nil
}

func (r *PGSessionRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	return err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
