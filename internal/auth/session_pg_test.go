package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGSessionRepoSaveUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGSessionRepo{DB: db}

	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs("user-1", "hash-1", "10.0.0.1", "cli/1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Save(context.Background(), Session{
		UserID:    "user-1",
		TokenHash: "hash-1",
		IP:        "10.0.0.1",
		UserAgent: "cli/1",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGSessionRepoSaveNullsEmptyClientFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGSessionRepo{DB: db}

	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs("user-1", "hash-1", nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), Session{UserID: "user-1", TokenHash: "hash-1"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGSessionRepoGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGSessionRepo{DB: db}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"user_id", "token_hash", "ip", "user_agent", "created_at", "updated_at"}).
		AddRow("user-1", "hash-1", "10.0.0.1", nil, now, now)
	mock.ExpectQuery("SELECT user_id, token_hash").
		WithArgs("user-1").
		WillReturnRows(rows)

	session, err := repo.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if session.TokenHash != "hash-1" || session.IP != "10.0.0.1" || session.UserAgent != "" {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestPGSessionRepoGetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGSessionRepo{DB: db}

	mock.ExpectQuery("SELECT user_id, token_hash").
		WithArgs("user-2").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "token_hash", "ip", "user_agent", "created_at", "updated_at"}))

	_, err = repo.Get(context.Background(), "user-2")
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestPGSessionRepoDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGSessionRepo{DB: db}

	mock.ExpectExec("DELETE FROM refresh_tokens").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "user-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
