package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/matchdayhq/matchday/internal/config"
	"github.com/matchdayhq/matchday/internal/domain/match"
	"github.com/matchdayhq/matchday/internal/domain/team"
	"github.com/matchdayhq/matchday/internal/domain/user"
	"github.com/matchdayhq/matchday/internal/domain/venue"
	"github.com/matchdayhq/matchday/internal/infrastructure/auth"
	"github.com/matchdayhq/matchday/internal/infrastructure/notify/webhook"
	cacherepo "github.com/matchdayhq/matchday/internal/infrastructure/repository/cache"
	"github.com/matchdayhq/matchday/internal/infrastructure/repository/memory"
	"github.com/matchdayhq/matchday/internal/infrastructure/repository/postgres"
	"github.com/matchdayhq/matchday/internal/interfaces/httpapi"
	basecache "github.com/matchdayhq/matchday/internal/platform/cache"
	idgen "github.com/matchdayhq/matchday/internal/platform/id"
	"github.com/matchdayhq/matchday/internal/platform/logging"
	"github.com/matchdayhq/matchday/internal/usecase"
)

type repositories struct {
	users  user.Repository
	teams  team.Repository
	venues venue.Repository
	store  match.Store
}

// NewHTTPServer wires repositories, services, and the router into a
// ready-to-run HTTP server. The returned cleanup releases the database
// handle and the notifier pool, and is safe to call after shutdown.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	cleanups := make([]func(context.Context) error, 0, 2)
	cleanup := func(ctx context.Context) error {
		var firstErr error
		for i := len(cleanups) - 1; i >= 0; i-- {
			if err := cleanups[i](ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	repos, db, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if db != nil {
		cleanups = append(cleanups, func(context.Context) error { return db.Close() })
	}

	if cfg.CacheEnabled {
		repos.venues = cacherepo.NewVenueRepository(repos.venues, basecache.NewStore(cfg.CacheTTL))
	}

	tokenManager, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		_ = cleanup(ctx)
		return nil, nil, fmt.Errorf("build token manager: %w", err)
	}

	var notifier usecase.MatchNotifier = usecase.NopNotifier{}
	if cfg.WebhookEnabled {
		hook, err := webhook.NewNotifier(webhook.Config{
			URL:     cfg.WebhookURL,
			Timeout: cfg.WebhookTimeout,
			Retries: cfg.WebhookRetries,
			Workers: cfg.WebhookWorkers,
		}, logger)
		if err != nil {
			_ = cleanup(ctx)
			return nil, nil, fmt.Errorf("build webhook notifier: %w", err)
		}
		cleanups = append(cleanups, func(context.Context) error {
			hook.Close()
			return nil
		})
		notifier = hook
	}

	ids := idgen.NewUUIDGenerator()
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	userSvc := usecase.NewUserService(repos.users, hasher, tokenManager, ids, logger)
	teamSvc := usecase.NewTeamService(repos.teams, repos.store, ids, logger)
	venueSvc := usecase.NewVenueService(repos.venues, ids, logger)
	matchSvc := usecase.NewMatchService(repos.store, ids, notifier, logger)

	handler := httpapi.NewHandler(userSvc, teamSvc, venueSvc, matchSvc, logger)
	router := httpapi.NewRouter(handler, tokenManager, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = cleanup(ctx)
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	if cfg.DBURL == "" {
		logger.Info("database url not configured, using in-memory repositories")

		users := memory.NewUserRepository(memory.SeedUsers())
		teams := memory.NewTeamRepository(memory.SeedTeams(), memory.SeedMembers())
		venues := memory.NewVenueRepository(memory.SeedVenues(), nil)

		return repositories{
			users:  users,
			teams:  teams,
			venues: venues,
			store:  memory.NewMatchStore(users, teams, venues),
		}, nil, nil
	}

	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect database: %w", err)
	}

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		_ = db.Close()
		return repositories{}, nil, fmt.Errorf("bootstrap seed: %w", err)
	}

	logger.Info("database connected", "db_name", dbNameFromURL(cfg.DBURL))

	return repositories{
		users:  postgres.NewUserRepository(db),
		teams:  postgres.NewTeamRepository(db),
		venues: postgres.NewVenueRepository(db),
		store:  postgres.NewMatchStore(db),
	}, db, nil
}
