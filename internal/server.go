package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/config"
	"github.com/2beens/liftlog/internal/db"
	"github.com/2beens/liftlog/internal/docstore"
	"github.com/2beens/liftlog/internal/fitness/body"
	"github.com/2beens/liftlog/internal/fitness/catalog"
	"github.com/2beens/liftlog/internal/fitness/records"
	"github.com/2beens/liftlog/internal/fitness/routines"
	"github.com/2beens/liftlog/internal/fitness/session"
	fitnesssync "github.com/2beens/liftlog/internal/fitness/sync"
	"github.com/2beens/liftlog/internal/geoip"
	"github.com/2beens/liftlog/internal/middleware"
	"github.com/2beens/liftlog/internal/misc"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool
	geoIp  *geoip.Api

	store       *docstore.PostgresStore
	syncManager *fitnesssync.Manager

	catalogService  *catalog.Service
	recordsService  *records.Service
	routinesService *routines.Service
	sessionService  *session.Service
	bodyService     *body.Service

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	IpInfoAPIKey            string
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("liftlog", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(&auth.Admin{
		Username:     params.AdminUsername,
		PasswordHash: params.AdminPasswordHash,
	}, auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "liftlog-backend", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	listenDSN := fmt.Sprintf(
		"postgres://postgres@%s:%s/%s?sslmode=disable",
		params.Config.PostgresHost, params.Config.PostgresPort, params.Config.PostgresDBName,
	)
	store, err := docstore.NewPostgresStore(dbPool, listenDSN, metricsManager)
	if err != nil {
		return nil, fmt.Errorf("new documents store: %w", err)
	}

	userID := authService.UserID()

	// seed before the mirrors start, the first snapshots then already carry
	// the defaults
	seeder := routines.NewSeeder(store, userID)
	if err := seeder.EnsureDefaults(ctx); err != nil {
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	syncManager := fitnesssync.NewManager(store, userID)
	if err := syncManager.Start(ctx); err != nil {
		return nil, fmt.Errorf("start sync manager: %w", err)
	}

	catalogService := catalog.NewService(store, syncManager, userID)
	recordsService := records.NewService(store, syncManager, userID, metricsManager)
	routinesService := routines.NewService(store, syncManager, userID)
	sessionService := session.NewService(store, recordsService, userID)
	bodyService := body.NewService(store, syncManager, userID)

	syncManager.OnPersonalRecordsChange(recordsService.InvalidateInsightsCache)
	syncManager.OnBodyMeasurementsChange(bodyService.InvalidateSummaryCache)

	if err := selectActiveRoutine(ctx, store, syncManager, userID); err != nil {
		log.Errorf("select active routine: %s", err)
	}

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,
		geoIp: geoip.NewApi(
			params.IpInfoAPIKey,
			tracedHttpClient,
			rdb,
		),

		store:       store,
		syncManager: syncManager,

		catalogService:  catalogService,
		recordsService:  recordsService,
		routinesService: routinesService,
		sessionService:  sessionService,
		bodyService:     bodyService,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

// selectActiveRoutine points the days mirror at the currently active routine.
// The routines collection is read authoritatively, the mirror may still be
// empty right after start.
func selectActiveRoutine(
	ctx context.Context,
	store docstore.Store,
	syncManager *fitnesssync.Manager,
	userID string,
) error {
	snapshot, err := store.GetOnce(ctx, docstore.UserCollection(userID, docstore.CollRoutines))
	if err != nil {
		return fmt.Errorf("get routines: %w", err)
	}
	for _, doc := range snapshot {
		if isActive, _ := doc.Fields["isActive"].(bool); isActive {
			return syncManager.SelectRoutine(ctx, doc.ID)
		}
	}
	return nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("liftlog-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	miscHandler := misc.NewHandler(s.geoIp, s.versionInfo, s.authService)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager, s.config.LoginRateLimitAllowedPerMin)

	catalogRouter := r.PathPrefix("/fit/catalog").Subrouter()
	catalog.NewHandler(s.catalogService).SetupRoutes(catalogRouter)

	recordsRouter := r.PathPrefix("/fit/records").Subrouter()
	records.NewHandler(s.recordsService).SetupRoutes(recordsRouter)

	routinesRouter := r.PathPrefix("/fit/routines").Subrouter()
	routines.NewHandler(s.routinesService).SetupRoutes(routinesRouter)

	sessionRouter := r.PathPrefix("/fit/session").Subrouter()
	session.NewHandler(s.sessionService).SetupRoutes(sessionRouter)

	bodyRouter := r.PathPrefix("/fit/body").Subrouter()
	body.NewHandler(s.bodyService).SetupRoutes(bodyRouter)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
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

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.syncManager != nil {
		s.syncManager.Stop()
		log.Debugln("sync manager stopped")
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Errorf("failed to close documents store: %s", err)
		}
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
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

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
