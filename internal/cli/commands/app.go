package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/conduit-lang/jsonapi-view/internal/cli/config"
	"github.com/conduit-lang/jsonapi-view/internal/jsonapi"
	"github.com/conduit-lang/jsonapi-view/internal/orm/introspect"
	"github.com/conduit-lang/jsonapi-view/internal/orm/schema"
	"github.com/conduit-lang/jsonapi-view/internal/serializer"
	"github.com/conduit-lang/jsonapi-view/internal/store"
	"github.com/conduit-lang/jsonapi-view/internal/web/cache"
	"github.com/conduit-lang/jsonapi-view/internal/web/middleware"
	"github.com/conduit-lang/jsonapi-view/internal/web/profiling"
	"github.com/conduit-lang/jsonapi-view/internal/web/router"
	"github.com/conduit-lang/jsonapi-view/internal/web/view"
)

// App is the wired document service
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    *store.Store
	Registry *schema.Registry
	Handler  *view.Handler
	Router   *router.Router

	cache cache.Cache
}

// NewLogger builds the zap logger described by cfg
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := cfg.ZapLevel()
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zapConfig := zap.NewProductionConfig()
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	return zapConfig.Build()
}

// NewApp opens the store and wires the document pipeline and routes
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: schema.NewRegistry(),
	}

	if err := store.Register(app.Registry); err != nil {
		return nil, fmt.Errorf("failed to register models: %w", err)
	}

	naming, err := serializer.ParseNamingStrategy(cfg.JSONAPI.Naming)
	if err != nil {
		return nil, err
	}

	assembler := jsonapi.NewAssembler(
		introspect.New(app.Registry),
		serializer.New(
			serializer.WithNaming(naming),
			serializer.WithExclusion(app.Registry.IsAssociation),
		),
		jsonapi.WithLogger(logger.Named("jsonapi")),
		jsonapi.WithIncludedDeduplication(cfg.JSONAPI.DedupeIncluded),
	)

	st, err := store.Open(ctx, cfg.Database.URL, logger.Named("store"))
	if err != nil {
		return nil, err
	}
	app.Store = st

	if err := st.Migrate(ctx); err != nil {
		app.Close()
		return nil, err
	}
	if cfg.Database.Seed {
		if err := st.Seed(ctx); err != nil {
			app.Close()
			return nil, err
		}
	}

	opts := []view.Option{
		view.WithIncludeParam(cfg.JSONAPI.IncludeParam),
		view.WithLogger(logger),
	}
	if cfg.Cache.Enabled {
		c, err := newCache(ctx, cfg.Cache)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.cache = c
		opts = append(opts, view.WithDocumentCache(cache.NewDocumentCache(c, cfg.Cache.TTL, logger.Named("cache"))))
	}
	app.Handler = view.NewHandler(assembler, opts...)

	app.Router = router.NewRouter(cfg.Server.APIPrefix)
	chain := middleware.NewChain(
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Recovery(logger),
	)
	app.Router.Use(chain.Handlers()...)
	app.Router.Use(cache.ETag(cache.ETagConfig{CacheControl: "no-cache"}))

	if cfg.Server.Profiling {
		app.Router.Mount(profiling.DefaultPath, profiling.Handler(profiling.DefaultConfig()))
	}

	if err := view.RegisterBlog(app.Router, app.Handler, st); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	common := cache.DefaultCacheConfig()
	if cfg.TTL > 0 {
		common.DefaultTTL = cfg.TTL
	}

	switch cfg.Backend {
	case "redis":
		return cache.NewRedisCacheWithConfig(ctx, cache.RedisConfig{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			CacheConfig: common,
		})
	default:
		return cache.NewMemoryCacheWithConfig(common), nil
	}
}

// ServeHTTP serves the routed document endpoints
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.Router.ServeHTTP(w, r)
}

// Close releases the cache and the store
func (a *App) Close() error {
	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}
