package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"

	"github.com/2beens/portfolio/internal/admin"
	"github.com/2beens/portfolio/internal/auth"
	"github.com/2beens/portfolio/internal/blog"
	"github.com/2beens/portfolio/internal/cache"
	"github.com/2beens/portfolio/internal/config"
	"github.com/2beens/portfolio/internal/contacts"
	"github.com/2beens/portfolio/internal/db"
	"github.com/2beens/portfolio/internal/middleware"
	"github.com/2beens/portfolio/internal/projects"
	"github.com/2beens/portfolio/internal/resume"
	"github.com/2beens/portfolio/internal/services"
	"github.com/2beens/portfolio/internal/storage"
	"github.com/2beens/portfolio/internal/telemetry/metrics"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
	"github.com/2beens/portfolio/pkg"
)

const (
	serviceName = "portfolio-backend"

	apiPrefix   = "/api"
	adminPrefix = "/config"
)

// ProtectedPrefixes are guarded by the session gate. The login page itself
// lives at /config and stays reachable.
var ProtectedPrefixes = []string{adminPrefix + "/"}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter

	tokenManager   *auth.TokenManager
	trustedProxies pkg.TrustedProxies
	objectStore    *storage.ObjectStore
	publicCache    *cache.PublicCache

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	Secrets                 config.Secrets
	HoneycombTracingEnabled bool
	InitSchema              bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	// fail fast, before any connection is opened
	tokenManager, err := auth.NewTokenManager(params.Secrets.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("new token manager: %w", err)
	}

	trustedProxies, err := pkg.ParseTrustedProxies(params.Config.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, serviceName)
	if err != nil {
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.Secrets.PostgresPassword,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if params.InitSchema {
		if err := db.ApplySchema(ctx, dbPool); err != nil {
			return nil, fmt.Errorf("apply schema: %w", err)
		}
		log.Info("db schema applied")
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("portfolio", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.Secrets.RedisPassword,
		DB:       0, // use default DB
	})

	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	objectStore, err := storage.NewObjectStore(afero.NewOsFs(), params.Config.StorageRootPath)
	if err != nil {
		return nil, fmt.Errorf("new object store: %w", err)
	}

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		redisClient: rdb,
		rateLimiter: redis_rate.NewLimiter(rdb),

		tokenManager:   tokenManager,
		trustedProxies: trustedProxies,
		objectStore:    objectStore,
		publicCache:    cache.NewPublicCache(params.Config.PublicCacheSizeMB),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

// routerSetup builds the main router and wraps it with the session gate, so
// unmatched paths under the protected prefixes are redirected as well.
func (s *Server) routerSetup() http.Handler {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))
	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.DrainAndCloseRequest())

	// login surface and its assets, registered before the gated subrouter
	adminHandler := admin.NewHandler(s.tokenManager)
	adminHandler.SetupRoutes(r)

	apiRouter := r.PathPrefix(apiPrefix).Subrouter()
	apiRouter.Use(middleware.Cors(s.config.AllowedOrigins))
	apiRouter.Use(s.publicCache.CacheGET())

	adminRouter := r.PathPrefix(adminPrefix).Subrouter()
	adminRouter.Use(s.publicCache.PurgeOnWrite())

	authHandler := auth.NewHandler(
		auth.NewService(auth.NewAdminRepo(s.dbPool), s.tokenManager),
		s.config.SecureCookies,
		s.metricsManager,
	)
	authHandler.SetupRoutes(
		apiRouter,
		middleware.RateLimit(s.rateLimiter, "auth", s.config.LoginRateLimitAllowedPerMin, s.trustedProxies, s.metricsManager),
	)

	contactsHandler := contacts.NewHandler(contacts.NewRepo(s.dbPool), s.metricsManager)
	contactsHandler.SetupRoutes(
		apiRouter,
		adminRouter,
		middleware.RateLimit(s.rateLimiter, "contact", s.config.ContactRateLimitAllowedPerMin, s.trustedProxies, s.metricsManager),
	)

	resume.NewHandler(resume.NewRepo(s.dbPool)).SetupRoutes(apiRouter, adminRouter)
	blog.NewBlogHandler(blog.NewRepo(s.dbPool)).SetupRoutes(apiRouter, adminRouter)
	projects.NewHandler(projects.NewRepo(s.dbPool)).SetupRoutes(apiRouter, adminRouter)
	services.NewHandler(services.NewRepo(s.dbPool)).SetupRoutes(apiRouter, adminRouter)

	storageHandler := storage.NewHandler(s.objectStore, s.config.PublicBaseURL, s.metricsManager)
	storageHandler.SetupRoutes(r, adminRouter)

	gate := middleware.NewSessionGate(s.tokenManager, admin.LoginPath, ProtectedPrefixes, s.metricsManager)
	return gate.Check()(r)
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:           s.routerSetup(),
		Addr:              ipAndPort,
		WriteTimeout:      time.Minute,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		ConnState:         s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var err error
	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown http server: %w", shutdownErr))
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if shutdownErr := s.metricsHttpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown metrics http server: %w", shutdownErr))
		}
		log.Warnln("metrics server shut down")
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	return err
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed, http.StateHijacked:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
