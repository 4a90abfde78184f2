package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (id, user_id, title, personal_statement, application_status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.UserID,
		resume.Title,
		resume.PersonalStatement,
		resume.Status,
	)
	return err
}

const selectResume = `
SELECT r.id, r.user_id, r.title, r.personal_statement, r.application_status, r.created_at, r.updated_at, i.name
FROM resumes r
JOIN user_infos i ON i.user_id = r.user_id
`

func (r *PGRepo) List(ctx context.Context, q ListQuery) ([]ResumeWithAuthor, error) {
	var where []string
	var args []any
	if q.OwnerID != "" {
		args = append(args, q.OwnerID)
		where = append(where, fmt.Sprintf("r.user_id = $%d", len(args)))
	}
	if q.Status != "" {
		args = append(args, q.Status)
		where = append(where, fmt.Sprintf("r.application_status = $%d", len(args)))
	}

	query := selectResume
	if len(where) > 0 {
		query += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	query += "ORDER BY r.created_at DESC"
	if q.SortAsc {
		query = strings.TrimSuffix(query, "DESC") + "ASC"
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ResumeWithAuthor, 0)
	for rows.Next() {
		item, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *PGRepo) Get(ctx context.Context, resumeID string) (ResumeWithAuthor, error) {
	row := r.DB.QueryRowContext(ctx, selectResume+"WHERE r.id = $1 LIMIT 1", resumeID)
	item, err := scanResume(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ResumeWithAuthor{}, ErrNotFound
		}
		return ResumeWithAuthor{}, err
	}
	return item, nil
}

func (r *PGRepo) Update(ctx context.Context, resume Resume) error {
	const query = `
UPDATE resumes
SET title = $1, personal_statement = $2, updated_at = now()
WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, resume.Title, resume.PersonalStatement, resume.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) Delete(ctx context.Context, resumeID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, resumeID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) TransitionStatus(ctx context.Context, log StatusLog) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const updateStatus = `
UPDATE resumes
SET application_status = $1, updated_at = now()
WHERE id = $2 AND application_status = $3`
	res, err := tx.ExecContext(ctx, updateStatus, log.NewStatus, log.ResumeID, log.PrevStatus)
	if err != nil {
		return err
	}
	if err := requireRow(res); err != nil {
		return err
	}

	const insertLog = `
INSERT INTO resume_status_logs (id, resume_id, recruiter_id, prev_status, new_status, reason, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.ExecContext(ctx, insertLog,
		log.ID,
		log.ResumeID,
		log.RecruiterID,
		log.PrevStatus,
		log.NewStatus,
		log.Reason,
		log.CreatedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepo) ListLogs(ctx context.Context, resumeID string) ([]StatusLogWithActor, error) {
	const query = `
SELECT l.id, l.resume_id, l.recruiter_id, l.prev_status, l.new_status, l.reason, l.created_at, i.name
FROM resume_status_logs l
JOIN user_infos i ON i.user_id = l.recruiter_id
WHERE l.resume_id = $1
ORDER BY l.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, resumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]StatusLogWithActor, 0)
	for rows.Next() {
		var log StatusLogWithActor
		if err := rows.Scan(
			&log.ID,
			&log.ResumeID,
			&log.RecruiterID,
			&log.PrevStatus,
			&log.NewStatus,
			&log.Reason,
			&log.CreatedAt,
			&log.RecruiterName,
		); err != nil {
			return nil, err
		}
		out = append(out, log)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (ResumeWithAuthor, error) {
	var item ResumeWithAuthor
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Title,
		&item.PersonalStatement,
		&item.Status,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.AuthorName,
	)
	return item, err
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
