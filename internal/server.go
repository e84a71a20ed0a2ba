package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/healthtrack/internal/config"
	"github.com/2beens/healthtrack/internal/db"
	"github.com/2beens/healthtrack/internal/health"
	"github.com/2beens/healthtrack/internal/hydration"
	"github.com/2beens/healthtrack/internal/middleware"
	"github.com/2beens/healthtrack/internal/steps"
	"github.com/2beens/healthtrack/internal/telemetry/metrics"
	"github.com/2beens/healthtrack/internal/telemetry/tracing"
	"github.com/2beens/healthtrack/internal/tips"
	"github.com/2beens/healthtrack/internal/user"
	"github.com/2beens/healthtrack/pkg"

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
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient *redis.Client

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
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
		map[string]string{"db_name": "healthtrack_db"},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("healthtrack", "main", promRegistry)
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

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "healthtrack-backend", rdb)
	if err != nil {
		return nil, err
	}

	// make sure a fresh db has some tips to serve
	if err := tips.NewRepo(dbPool).Seed(ctx); err != nil {
		log.Errorf("failed to seed health tips: %s", err)
	}

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient: rdb,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	users := user.NewService(user.NewRepo(s.dbPool))
	userHandler := user.NewHandler(users)
	r.HandleFunc("/profile", userHandler.HandleGetProfile).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/profile", userHandler.HandleUpdateProfile).Methods("PUT", "OPTIONS").Name("update-profile")

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	logRateLimit := middleware.RateLimit(
		reqRateLimiter,
		"log",
		s.config.LogRateLimitAllowedPerMin,
		s.metricsManager,
	)

	hydrationRepo := hydration.NewRepo(s.dbPool)
	hydrationHandler := hydration.NewHandler(
		hydrationRepo,
		users,
		hydration.NewReportCache(s.redisClient),
		s.metricsManager,
		s.config.WaterGoalMl,
	)
	r.Handle("/hydration", logRateLimit(http.HandlerFunc(hydrationHandler.HandleLog))).Methods("POST", "OPTIONS").Name("new-intake")
	r.HandleFunc("/hydration/today", hydrationHandler.HandleToday).Methods("GET", "OPTIONS").Name("intakes-today")
	r.HandleFunc("/hydration/pattern", hydrationHandler.HandlePattern).Methods("GET", "OPTIONS").Name("intake-pattern")
	r.HandleFunc("/hydration/list/page/{page}/size/{size}", hydrationHandler.HandleList).Methods("GET", "OPTIONS").Name("list-intakes")
	r.Handle("/hydration/{id}", logRateLimit(http.HandlerFunc(hydrationHandler.HandleDelete))).Methods("DELETE", "OPTIONS").Name("remove-intake")

	stepsRepo := steps.NewRepo(s.dbPool)
	stepsHandler := steps.NewHandler(stepsRepo, users, s.metricsManager, s.config.StepsGoal)
	r.Handle("/steps", logRateLimit(http.HandlerFunc(stepsHandler.HandleLog))).Methods("POST", "OPTIONS").Name("new-steps")
	r.HandleFunc("/steps/today", stepsHandler.HandleToday).Methods("GET", "OPTIONS").Name("steps-today")
	r.HandleFunc("/steps/list", stepsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-steps")
	r.Handle("/steps/{id}", logRateLimit(http.HandlerFunc(stepsHandler.HandleDelete))).Methods("DELETE", "OPTIONS").Name("remove-steps")

	recordsRepo := health.NewRepo(s.dbPool)
	summaries := health.NewSummaryService(
		recordsRepo,
		hydrationRepo,
		stepsRepo,
		s.config.WaterGoalMl,
		s.config.StepsGoal,
	)
	healthHandler := health.NewHandler(recordsRepo, users, summaries, s.metricsManager)
	r.Handle("/health/record", logRateLimit(http.HandlerFunc(healthHandler.HandleAddRecord))).Methods("POST", "OPTIONS").Name("new-record")
	r.HandleFunc("/health/record/latest", healthHandler.HandleLatestRecord).Methods("GET", "OPTIONS").Name("latest-record")
	r.HandleFunc("/health/records", healthHandler.HandleListRecords).Methods("GET", "OPTIONS").Name("list-records")
	r.HandleFunc("/health/summary", healthHandler.HandleSummary).Methods("GET", "OPTIONS").Name("health-summary")

	tipsHandler := tips.NewHandler(tips.NewRepo(s.dbPool))
	r.HandleFunc("/tips/random", tipsHandler.HandleRandom).Methods("GET", "OPTIONS").Name("random-tip")
	r.Handle("/tips", logRateLimit(http.HandlerFunc(tipsHandler.HandleAdd))).Methods("POST", "OPTIONS").Name("new-tip")

	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
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
