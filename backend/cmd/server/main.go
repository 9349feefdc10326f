package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/nat20/combatcore/backend/internal/auth"
	"github.com/nat20/combatcore/backend/internal/cache"
	"github.com/nat20/combatcore/backend/internal/config"
	"github.com/nat20/combatcore/backend/internal/content"
	"github.com/nat20/combatcore/backend/internal/engine/action"
	"github.com/nat20/combatcore/backend/internal/engine/combat"
	"github.com/nat20/combatcore/backend/internal/engine/controller"
	"github.com/nat20/combatcore/backend/internal/engine/effect"
	"github.com/nat20/combatcore/backend/internal/engine/id"
	"github.com/nat20/combatcore/backend/internal/engine/registry"
	"github.com/nat20/combatcore/backend/internal/httpapi"
	"github.com/nat20/combatcore/backend/internal/middleware"
	"github.com/nat20/combatcore/backend/internal/registrystore"
	"github.com/nat20/combatcore/backend/internal/wsobserver"
	"github.com/nat20/combatcore/backend/pkg/logger"
	"github.com/nat20/combatcore/backend/pkg/rng"
)

func main() {
	log := initializeLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logConfiguration(log, cfg)

	world := initializeWorld(cfg, log)
	ctrl := controller.New(world)

	// The registry store backs future content-authoring endpoints; the
	// action/effect registries the engine runs against come from
	// internal/content instead (spec.md §6 "registry file loading is
	// explicitly out of scope"), so the store is only opened here, not
	// yet consulted by any httpapi handler.
	_ = initializeRegistryStore(cfg, log)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenDuration, cfg.Auth.RefreshTokenDuration)

	hub := wsobserver.NewHub()
	go hub.Run()

	h := httpapi.NewHandlers(ctrl, hub, auth.NewCSRFStore(), log)
	log.Info().Msg("handlers initialized")

	handler := setupHTTPServer(cfg, h, jwtManager, hub, log)

	runServer(cfg, handler, hub, log)

	log.Info().Msg("server shutdown complete")
}

func initializeLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Pretty: getEnvOrDefault("LOG_PRETTY", "false") == "true",
	})
}

func logConfiguration(log *logger.Logger, cfg *config.Config) {
	log.Info().
		Str("port", cfg.Server.Port).
		Str("environment", cfg.Server.Environment).
		Str("registry_db_driver", cfg.RegistryDB.Driver).
		Int64("engine_rng_seed", cfg.Engine.RNGSeed).
		Msg("configuration loaded")

	if cfg.Server.Environment == "development" {
		log.Warn().Msg("running in development mode")
	}
}

// initializeWorld builds the combat.World every encounter runs against:
// a production math/rand-backed source (seeded if cfg.Engine.RNGSeed is
// non-zero, for a reproducible run per spec.md §2 C2), the built-in
// action/effect registry from internal/content, and an empty effect
// instance store.
func initializeWorld(cfg *config.Config, log *logger.Logger) *combat.World {
	seed := cfg.Engine.RNGSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	var src rng.Source = rng.New(seed)

	actions, err := registry.Load[id.ActionID, action.Definition](content.Actions())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load built-in action pack")
	}
	effects, err := registry.Load[id.EffectID, effect.Definition](content.Effects())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load built-in effect pack")
	}

	return combat.New(src, actions, effect.NewStore(effects))
}

// initializeRegistryStore wires the read-only content store: an
// in-memory map by default, or a Postgres/sqlite3-backed store behind a
// Redis read-through cache when REGISTRY_DB_DRIVER is set.
func initializeRegistryStore(cfg *config.Config, log *logger.Logger) registrystore.Store {
	if cfg.RegistryDB.Driver == "" {
		log.Info().Msg("using in-memory registry store")
		return registrystore.NewMemoryStore()
	}

	db, err := registrystore.NewConnection(cfg.RegistryDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to registry database")
	}
	if err := registrystore.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run registry migrations")
	}
	sqlStore := registrystore.NewSQLStore(db)

	redisClient, err := cache.NewRedisClient(&cfg.Cache, log)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, registry store running uncached")
		return sqlStore
	}
	cacheService := cache.NewCacheService(redisClient, log, "action", "effect", "spell", "item", "monster")
	log.Info().Str("driver", cfg.RegistryDB.Driver).Msg("using cached SQL-backed registry store")
	return registrystore.NewCachedStore(sqlStore, cacheService)
}

func setupHTTPServer(cfg *config.Config, h *httpapi.Handlers, jwtManager *auth.JWTManager, hub *wsobserver.Hub, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recovery(log))

	isDevelopment := cfg.Server.Environment == "development"
	r.Use(middleware.SecurityHeaders(isDevelopment))

	routeConfig := &httpapi.Config{
		Handlers:        h,
		AuthMiddleware:  auth.NewMiddleware(jwtManager),
		CSRFStore:       h.CSRFStore,
		AuthRateLimiter: middleware.AuthRateLimiter(),
		APIRateLimiter:  middleware.APIRateLimiter(),
		Observer:        wsobserver.NewHandler(hub, jwtManager),
		Log:             log,
		IsProduction:    !isDevelopment,
	}
	httpapi.RegisterRoutes(r, routeConfig)
	log.Info().Msg("routes configured")

	allowedOrigins := []string{"http://localhost:3000", "http://localhost:8080"}
	if cfg.Server.Environment == "production" {
		allowedOrigins = []string{"https://yourdomain.com"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           86400,
	})

	return c.Handler(r)
}

func runServer(cfg *config.Config, handler http.Handler, hub *wsobserver.Hub, log *logger.Logger) {
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", srv.Addr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start http server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	hub.Shutdown()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
