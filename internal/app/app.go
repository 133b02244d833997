// Package app assembles the service: storage, caches, the NHL feed, auth,
// the HTTP surface, and the background sweeper.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/avsfam/firstgoal/external/nhlfeed"
	"github.com/avsfam/firstgoal/internal/config"
	"github.com/avsfam/firstgoal/internal/domain/game"
	"github.com/avsfam/firstgoal/internal/domain/leaderboard"
	"github.com/avsfam/firstgoal/internal/domain/player"
	"github.com/avsfam/firstgoal/internal/domain/prediction"
	"github.com/avsfam/firstgoal/internal/domain/user"
	"github.com/avsfam/firstgoal/internal/infrastructure/account/gotrue"
	cacherepo "github.com/avsfam/firstgoal/internal/infrastructure/repository/cache"
	"github.com/avsfam/firstgoal/internal/infrastructure/repository/memory"
	"github.com/avsfam/firstgoal/internal/infrastructure/repository/postgres"
	"github.com/avsfam/firstgoal/internal/interfaces/httpapi"
	idgen "github.com/avsfam/firstgoal/internal/platform/id"
	"github.com/avsfam/firstgoal/internal/platform/logging"
	"github.com/avsfam/firstgoal/internal/platform/resilience"
	"github.com/avsfam/firstgoal/internal/usecase"
	"github.com/avsfam/firstgoal/internal/worker"
)

// Application bundles the HTTP server and the background sweeper so the
// entrypoint can start and stop them together.
type Application struct {
	Server  *http.Server
	Sweeper *worker.Sweeper

	db     *sqlx.DB
	logger *logging.Logger
}

type repositories struct {
	players     player.Repository
	games       game.Repository
	predictions prediction.Repository
	standings   leaderboard.Repository
	profiles    user.ProfileRepository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, db, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// The prediction path reads games and players through the raw repos so
	// a cached start time can never decide whether a pick is still open.
	uncachedGames := repos.games
	uncachedPlayers := repos.players

	var invalidator usecase.CacheInvalidator
	leaderboardReader := usecase.LeaderboardReader(usecase.DirectLeaderboardReader{Repository: repos.standings})
	if cfg.CacheEnabled {
		layer := cacherepo.NewLayer(repos.players, repos.games, repos.standings, cfg.RosterCacheTTL, cfg.LeaderboardCacheTTL)
		repos.players = layer.Players
		repos.games = layer.Games
		leaderboardReader = layer.Leaderboard
		invalidator = layer
	} else {
		invalidator = usecase.NewNoopCacheInvalidator()
	}

	policy := prediction.PointsPolicy{Correct: cfg.PointsCorrect, Incorrect: cfg.PointsIncorrect}

	rosterService := usecase.NewRosterService(repos.players)
	scheduleService := usecase.NewScheduleService(repos.games, cfg.GameInProgressWindow)
	profileService := usecase.NewProfileService(repos.profiles)
	predictionService := usecase.NewPredictionService(uncachedGames, uncachedPlayers, repos.predictions, profileService, idgen.NewRandomGenerator())
	verificationService := usecase.NewVerificationService(uncachedGames, uncachedPlayers, repos.predictions, policy, invalidator, logger)
	leaderboardService := usecase.NewLeaderboardService(leaderboardReader)
	syncService := usecase.NewSyncService(buildFeed(cfg, logger), repos.players, repos.games, invalidator, logger)
	sweeperService := usecase.NewSweeperService(uncachedGames, verificationService, usecase.ManualConfirmationOracle{}, logger)

	authClient := gotrue.NewClient(
		&http.Client{Timeout: cfg.AuthTimeout},
		cfg.AuthBaseURL,
		cfg.AuthAPIKey,
		logger,
	)

	handler := httpapi.NewHandler(
		rosterService,
		scheduleService,
		predictionService,
		verificationService,
		leaderboardService,
		profileService,
		syncService,
		sweeperService,
		logger,
	)
	router := httpapi.NewRouter(handler, authClient, logger, cfg.AdminEmails, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var sweeper *worker.Sweeper
	if cfg.SweepEnabled {
		sweeper = worker.NewSweeper(sweeperService, cfg.SweepInterval, cfg.SweepInitialDelay, logger)
	}

	return &Application{
		Server:  server,
		Sweeper: sweeper,
		db:      db,
		logger:  logger,
	}, nil
}

// Start launches the background sweeper. The HTTP server is started by the
// entrypoint so it owns ListenAndServe errors.
func (a *Application) Start(ctx context.Context) {
	if a.Sweeper != nil {
		a.Sweeper.Start(ctx)
	}
}

// Shutdown stops the sweeper, drains the HTTP server, and closes the DB.
func (a *Application) Shutdown(ctx context.Context) error {
	if a.Sweeper != nil {
		a.Sweeper.Stop()
	}

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("close db: %w", err)
		}
	}

	return nil
}

// buildRepositories picks the backing store. With DB_URL set the service
// runs on Postgres; without it, on a seeded in-memory store for local runs.
func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	if cfg.DBURL == "" {
		logger.Warn("DB_URL not set, using in-memory store")

		store := memory.NewStore(idgen.NewRandomGenerator())
		if err := store.Seed(ctx); err != nil {
			return repositories{}, nil, fmt.Errorf("seed memory store: %w", err)
		}

		return repositories{
			players:     store.Players(),
			games:       store.Games(),
			predictions: store.Predictions(),
			standings:   store.Leaderboard(),
			profiles:    store.Profiles(),
		}, nil, nil
	}

	db, err := otelsqlx.Connect("postgres", cfg.DBURL,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect db: %w", err)
	}

	ids := idgen.NewRandomGenerator()

	return repositories{
		players:     postgres.NewPlayerRepository(db, ids),
		games:       postgres.NewGameRepository(db, ids),
		predictions: postgres.NewPredictionRepository(db),
		standings:   postgres.NewLeaderboardRepository(db),
		profiles:    postgres.NewProfileRepository(db),
	}, db, nil
}

func buildFeed(cfg config.Config, logger *logging.Logger) usecase.ScheduleFeed {
	if !cfg.NHLFeedEnabled {
		return disabledFeed{}
	}

	return nhlfeed.NewClient(nhlfeed.ClientConfig{
		HTTPClient: &http.Client{Timeout: cfg.NHLFeedTimeout},
		BaseURL:    cfg.NHLFeedBaseURL,
		TeamCode:   cfg.NHLTeamCode,
		Timeout:    cfg.NHLFeedTimeout,
		MaxRetries: cfg.NHLFeedMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.NHLFeedCircuitEnabled,
			FailureThreshold: cfg.NHLFeedCircuitFailureCount,
			OpenTimeout:      cfg.NHLFeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.NHLFeedCircuitHalfOpenReq,
		},
	})
}

// disabledFeed keeps the sync endpoints wired when the upstream feed is
// switched off. Every call reports the dependency as unavailable.
type disabledFeed struct{}

func (disabledFeed) FetchRoster(context.Context) ([]player.Player, error) {
	return nil, fmt.Errorf("%w: nhl feed is disabled", usecase.ErrDependencyUnavailable)
}

func (disabledFeed) FetchSchedule(context.Context) ([]game.Game, error) {
	return nil, fmt.Errorf("%w: nhl feed is disabled", usecase.ErrDependencyUnavailable)
}
