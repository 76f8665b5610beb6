package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/openfantasy/dota-fantasy/external/opendota"
	"github.com/openfantasy/dota-fantasy/internal/config"
	"github.com/openfantasy/dota-fantasy/internal/domain/competition"
	"github.com/openfantasy/dota-fantasy/internal/domain/fantasy"
	"github.com/openfantasy/dota-fantasy/internal/domain/match"
	"github.com/openfantasy/dota-fantasy/internal/domain/player"
	"github.com/openfantasy/dota-fantasy/internal/domain/scoring"
	"github.com/openfantasy/dota-fantasy/internal/domain/team"
	"github.com/openfantasy/dota-fantasy/internal/infrastructure/jobqueue"
	"github.com/openfantasy/dota-fantasy/internal/infrastructure/repository/memory"
	"github.com/openfantasy/dota-fantasy/internal/infrastructure/repository/postgres"
	"github.com/openfantasy/dota-fantasy/internal/interfaces/httpapi"
	"github.com/openfantasy/dota-fantasy/internal/platform/logging"
	"github.com/openfantasy/dota-fantasy/internal/platform/resilience"
	"github.com/openfantasy/dota-fantasy/internal/usecase"
)

const dbPingTimeout = 5 * time.Second

type repositories struct {
	matches      match.Repository
	series       match.SeriesRepository
	ignores      match.IgnoreRepository
	competitions competition.Repository
	teams        team.Repository
	players      player.Repository
	results      player.ResultRepository
	fantasy      fantasy.Repository
}

// App bundles the HTTP server with the resources it owns.
type App struct {
	Server *http.Server
	db     *sqlx.DB
	logger *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, db, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	formula, err := loadFormula(cfg)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	source := opendota.NewClient(opendota.ClientConfig{
		BaseURL:    cfg.OpenDotaBaseURL,
		Timeout:    cfg.OpenDotaTimeout,
		MaxRetries: cfg.OpenDotaMaxRetries,
		RetryDelay: cfg.OpenDotaRetryDelay,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.OpenDotaCircuitEnabled,
			FailureThreshold: cfg.OpenDotaCircuitFailureCount,
			OpenTimeout:      cfg.OpenDotaCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.OpenDotaCircuitHalfOpenMaxReq,
		},
	})

	pipeline := usecase.NewPipelineService(
		source,
		repos.matches,
		repos.series,
		repos.ignores,
		repos.competitions,
		repos.teams,
		repos.players,
		repos.results,
		formula,
		usecase.PipelineConfig{
			DetailAttempts:   cfg.PipelineDetailAttempts,
			DetailRetryDelay: cfg.PipelineDetailRetryDelay,
			RegisterWorkers:  cfg.PipelineRegisterWorkers,
		},
		logger,
	)
	rollup := usecase.NewRollupService(
		repos.matches,
		repos.series,
		repos.results,
		repos.competitions,
		repos.fantasy,
		cfg.RollupWorkers,
		logger,
	)
	chain := usecase.NewJobChainService(
		pipeline,
		rollup,
		repos.matches,
		buildJobQueue(cfg, logger),
		usecase.JobChainConfig{
			RetryDelay:  cfg.JobChainRetryDelay,
			DedupBucket: cfg.JobChainDedupBucket,
		},
		logger,
	)
	rating := usecase.NewRatingService(repos.competitions, repos.fantasy, repos.players, fantasy.DefaultRules())

	handler := httpapi.NewHandler(chain, pipeline, rating, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{Server: server, db: db, logger: logger}, nil
}

// Close releases resources held outside the HTTP server.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Info("storage configured", "mode", "memory")
		return repositories{
			matches:      memory.NewMatchRepository(),
			series:       memory.NewSeriesRepository(),
			ignores:      memory.NewIgnoreRepository(),
			competitions: memory.NewCompetitionRepository(memory.SeedCompetitions(), memory.SeedTours()),
			teams:        memory.NewTeamRepository(memory.SeedTeams()),
			players:      memory.NewPlayerRepository(memory.SeedPlayers()),
			results:      memory.NewPlayerResultRepository(),
			fantasy:      memory.NewFantasyRepository(memory.SeedFantasyTeams(), memory.SeedFantasyTeamTours(), memory.SeedFantasySlots()),
		}, nil, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return repositories{}, nil, err
	}

	logger.Info("storage configured", "mode", "postgres", "database", dbNameFromURL(cfg.DBURL))
	return repositories{
		matches:      postgres.NewMatchRepository(db),
		series:       postgres.NewSeriesRepository(db),
		ignores:      postgres.NewIgnoreRepository(db),
		competitions: postgres.NewCompetitionRepository(db),
		teams:        postgres.NewTeamRepository(db),
		players:      postgres.NewPlayerRepository(db),
		results:      postgres.NewPlayerResultRepository(db),
		fantasy:      postgres.NewFantasyRepository(db),
	}, db, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

func loadFormula(cfg config.Config) (scoring.Formula, error) {
	if strings.TrimSpace(cfg.FormulaPath) == "" {
		return scoring.DefaultFormula(), nil
	}

	raw, err := os.ReadFile(cfg.FormulaPath)
	if err != nil {
		return scoring.Formula{}, fmt.Errorf("read formula file: %w", err)
	}

	formula, err := scoring.ParseFormula(raw)
	if err != nil {
		return scoring.Formula{}, fmt.Errorf("parse formula file %s: %w", cfg.FormulaPath, err)
	}

	return formula, nil
}

func buildJobQueue(cfg config.Config, logger *logging.Logger) usecase.JobQueue {
	if !cfg.QStashEnabled {
		logger.Info("job queue configured", "mode", "noop")
		return usecase.NewNoopJobQueue()
	}

	logger.Info("job queue configured", "mode", "qstash", "target", cfg.QStashTargetBaseURL)
	return jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.QStashCircuitEnabled,
			FailureThreshold: cfg.QStashCircuitFailureCount,
			OpenTimeout:      cfg.QStashCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
		},
	}, logger)
}
