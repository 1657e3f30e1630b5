package app

import (
	"context"
	"fmt"
	"net/http"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fpl-hub/internal/config"
	"github.com/riskibarqy/fpl-hub/internal/domain/event"
	"github.com/riskibarqy/fpl-hub/internal/domain/league"
	"github.com/riskibarqy/fpl-hub/internal/domain/player"
	"github.com/riskibarqy/fpl-hub/internal/domain/roster"
	"github.com/riskibarqy/fpl-hub/internal/infrastructure/events"
	cacherepo "github.com/riskibarqy/fpl-hub/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fpl-hub/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fpl-hub/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fpl-hub/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/fpl-hub/internal/platform/cache"
	"github.com/riskibarqy/fpl-hub/internal/platform/id"
	"github.com/riskibarqy/fpl-hub/internal/platform/logging"
	"github.com/riskibarqy/fpl-hub/internal/usecase"
)

type closeFunc func() error

// App owns the HTTP server and every connection opened to build it.
type App struct {
	Server  *http.Server
	closers []closeFunc
}

type repositories struct {
	players player.Repository
	rosters roster.Repository
	leagues league.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{}
	repos, err := a.buildRepositories(ctx, cfg, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if cfg.CatalogCacheEnabled {
		repos.players = cacherepo.NewPlayerRepository(repos.players, basecache.NewStore(cfg.CatalogCacheTTL))
	}

	publisher, err := a.buildPublisher(ctx, cfg, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	idGen := id.NewUUIDGenerator()
	rosterSvc := usecase.NewRosterService(repos.players, repos.rosters, roster.DefaultRules(), idGen, logger)
	leagueSvc := usecase.NewLeagueService(
		repos.leagues,
		repos.rosters,
		publisher,
		idGen,
		usecase.LeagueServiceConfig{
			ReopenOnLeave:     cfg.LeagueReopenOnLeave,
			PointsWorkerCount: cfg.PointsWorkerCount,
		},
		logger,
	)

	handler := httpapi.NewHandler(rosterSvc, leagueSvc, logger)
	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("app initialized",
		"storage", cfg.StorageDriver,
		"events", cfg.EventsBackends,
		"catalog_cache", cfg.CatalogCacheEnabled,
	)
	return a, nil
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = crerr.CombineErrors(err, a.closers[i]())
	}
	a.closers = nil
	return err
}

func (a *App) buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := postgres.Open(ctx, postgres.ConnConfig{
			URL:                   cfg.DBURL,
			DisablePreparedBinary: cfg.DBDisablePreparedBinary,
			MaxOpenConns:          cfg.DBMaxOpenConns,
			MaxIdleConns:          cfg.DBMaxIdleConns,
		})
		if err != nil {
			return repositories{}, err
		}
		a.closers = append(a.closers, db.Close)
		logger.Info("postgres storage connected", "db", postgres.DBNameFromURL(cfg.DBURL))

		return repositories{
			players: postgres.NewPlayerRepository(db),
			rosters: postgres.NewRosterRepository(db),
			leagues: postgres.NewLeagueRepository(db),
		}, nil
	default:
		store := memory.NewStore()
		return repositories{
			players: memory.NewPlayerRepository(memory.SeedPlayers()),
			rosters: memory.NewRosterRepository(store),
			leagues: memory.NewLeagueRepository(store),
		}, nil
	}
}

func (a *App) buildPublisher(ctx context.Context, cfg config.Config, logger *logging.Logger) (event.Publisher, error) {
	if len(cfg.EventsBackends) == 0 {
		return event.NopPublisher{}, nil
	}

	publishers := make([]event.Publisher, 0, len(cfg.EventsBackends))
	for _, backend := range cfg.EventsBackends {
		var next event.Publisher
		switch backend {
		case config.EventsRedis:
			client, err := events.NewRedisClient(ctx, cfg.RedisURL)
			if err != nil {
				return nil, fmt.Errorf("connect events redis: %w", err)
			}
			publisher := events.NewRedisStreamPublisher(client, cfg.RedisStream)
			a.closers = append(a.closers, publisher.Close)
			next = publisher
			logger.Info("league events publishing to redis stream", "stream", cfg.RedisStream)
		case config.EventsNATS:
			conn, err := events.ConnectNATS(cfg.NATSURL, cfg.ServiceName)
			if err != nil {
				return nil, fmt.Errorf("connect events nats: %w", err)
			}
			publisher := events.NewNATSPublisher(conn, cfg.NATSSubject)
			a.closers = append(a.closers, func() error {
				publisher.Close()
				return nil
			})
			next = publisher
			logger.Info("league events publishing to nats", "subject", cfg.NATSSubject)
		default:
			return nil, fmt.Errorf("unsupported events backend %q", backend)
		}
		publishers = append(publishers, events.NewGuarded(backend, next, cfg.EventsCircuit, logger))
	}

	return events.NewFanout(publishers...), nil
}
