package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/auth"
	"recruit-backend/internal/resumes"
	"recruit-backend/internal/shared/apperr"
	"recruit-backend/internal/shared/config"
	"recruit-backend/internal/shared/server"
	"recruit-backend/internal/shared/server/middleware"
	"recruit-backend/internal/shared/storage/db"
	"recruit-backend/internal/users"
)

// App holds shared dependencies behind the router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	UsersRepo    users.Repo
	SessionsRepo auth.SessionRepo
	ResumesRepo  resumes.Repo

	Tokens        *auth.TokenIssuer
	AuthService   *auth.Service
	UsersService  *users.Service
	ResumeService *resumes.Service

	AuthHandler   *auth.Handler
	GoogleAuth    *auth.GoogleService
	UsersHandler  *users.Handler
	ResumeHandler *resumes.Handler
}

// Build prepares dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	accounts := &accountSource{users: app.UsersRepo}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		AuthHandler:   app.AuthHandler,
		GoogleAuth:    app.GoogleAuth,
		UserHandler:   app.UsersHandler,
		ResumeHandler: app.ResumeHandler,
		AccessAuth:    middleware.AccessAuth(app.Tokens, accounts),
		RefreshAuth:   middleware.RefreshAuth(app.Tokens, accounts),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.SessionsRepo = &auth.PGSessionRepo{DB: app.DB}
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
	} else {
		userRepo := users.NewMemoryRepo()
		app.UsersRepo = userRepo
		app.SessionsRepo = auth.NewMemorySessionRepo()
		app.ResumesRepo = resumes.NewMemoryRepo(userRepo)
	}

	tokens, err := auth.NewTokenIssuer(app.Config.AccessTokenSecret, app.Config.RefreshTokenSecret)
	if err != nil {
		return err
	}
	app.Tokens = tokens

	app.AuthService = auth.NewService(app.UsersRepo, app.SessionsRepo, tokens)
	app.UsersService = users.NewService(app.UsersRepo)
	app.ResumeService = resumes.NewService(app.ResumesRepo)

	app.AuthHandler = auth.NewHandler(app.AuthService)
	app.UsersHandler = users.NewHandler(app.UsersService)
	app.ResumeHandler = resumes.NewHandler(app.ResumeService)

	if app.Config.GoogleClientID != "" && app.Config.GoogleClientSecret != "" {
		app.GoogleAuth = auth.NewGoogleService(
			app.Config.GoogleClientID,
			app.Config.GoogleClientSecret,
			app.Config.GoogleRedirectURL,
			app.Config.UIRedirectURL,
			app.AuthService,
		)
	}

	return nil
}

// accountSource adapts the users repository to the auth middleware.
type accountSource struct {
	users users.Repo
}

func (s *accountSource) LoadAccount(ctx context.Context, id string) (middleware.Account, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return middleware.Account{}, apperr.New(apperr.KindUnauthenticated, "no account matches credentials")
		}
		return middleware.Account{}, err
	}
	return middleware.Account{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
