package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	appointmentHTTP "github.com/tair/garage-management/internal/appointment/delivery/http"
	appointmentRepo "github.com/tair/garage-management/internal/appointment/repository"
	customerHTTP "github.com/tair/garage-management/internal/customer/delivery/http"
	customerRepo "github.com/tair/garage-management/internal/customer/repository"
	mechanicHTTP "github.com/tair/garage-management/internal/mechanic/delivery/http"
	mechanicRepo "github.com/tair/garage-management/internal/mechanic/repository"
	partHTTP "github.com/tair/garage-management/internal/part/delivery/http"
	partRepo "github.com/tair/garage-management/internal/part/repository"
	userHTTP "github.com/tair/garage-management/internal/user/delivery/http"
	userRepo "github.com/tair/garage-management/internal/user/repository"
	vehicleHTTP "github.com/tair/garage-management/internal/vehicle/delivery/http"
	vehicleRepo "github.com/tair/garage-management/internal/vehicle/repository"
	"github.com/tair/garage-management/internal/workorder"
	workorderDomain "github.com/tair/garage-management/internal/workorder/domain"
	workorderRepo "github.com/tair/garage-management/internal/workorder/repository"
	"github.com/tair/garage-management/kafka"
	"github.com/tair/garage-management/pkg/database"
	"github.com/tair/garage-management/pkg/logger"
	"github.com/tair/garage-management/pkg/tracing"
)

const serviceName = "garage-management"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func main() {
	logger.Init(serviceName, getEnv("APP_ENV", "development") == "development")
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(ctx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
		}
	}()

	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "garage"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	gormDB, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := database.NewPostgresConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open health check connection")
	}
	defer sqlDB.Close()

	// Migrations
	userRepository := userRepo.NewGormUserRepository(gormDB)
	customerRepository := customerRepo.NewGormCustomerRepository(gormDB)
	vehicleRepository := vehicleRepo.NewGormVehicleRepository(gormDB)
	mechanicRepository := mechanicRepo.NewGormMechanicRepository(gormDB)
	appointmentRepository := appointmentRepo.NewGormAppointmentRepository(gormDB)
	partRepository := partRepo.NewGormPartRepository(gormDB)
	workOrderStore := workorderRepo.NewGormStore(gormDB)

	for name, migrate := range map[string]func() error{
		"users":        userRepository.AutoMigrate,
		"customers":    customerRepository.AutoMigrate,
		"vehicles":     vehicleRepository.AutoMigrate,
		"mechanics":    mechanicRepository.AutoMigrate,
		"appointments": appointmentRepository.AutoMigrate,
		"parts":        partRepository.AutoMigrate,
		"work_orders":  workOrderStore.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			logger.Logger.Fatal().Err(err).Str("tables", name).Msg("Failed to run migrations")
		}
	}

	// Kafka is optional; without brokers status changes are logged and dropped
	var publisher workorderDomain.Publisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		kafkaPublisher, err := kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to connect to Kafka")
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		logger.Logger.Warn().Msg("KAFKA_BROKERS not set, status change events will be dropped")
		publisher = kafka.NopPublisher{}
	}

	// Redis is optional; without it GET responses are simply not cached
	var redisClient *redis.Client
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       mustAtoi(getEnv("REDIS_DB", "0")),
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Logger.Warn().Err(err).Msg("Redis unreachable, response caching disabled")
			redisClient = nil
		}
	}

	workOrderHandler, err := workorder.InitializeHTTPHandler(gormDB, publisher, redisClient)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize work order handler")
	}

	userHandler := userHTTP.NewUserHandler(userRepository)

	router := mux.NewRouter()
	router.Use(metricsMiddleware)

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	workOrderHandler.RegisterHealthCheck(router, sqlDB)
	userHandler.RegisterRoutes(router)

	// Everything under /api except auth requires a valid token
	protected := router.NewRoute().Subrouter()
	protected.Use(userHTTP.JWTMiddleware)

	customerHTTP.NewCustomerHandler(customerRepository).RegisterRoutes(protected)
	vehicleHTTP.NewVehicleHandler(vehicleRepository).RegisterRoutes(protected)
	mechanicHTTP.NewMechanicHandler(mechanicRepository).RegisterRoutes(protected)
	appointmentHTTP.NewAppointmentHandler(appointmentRepository).RegisterRoutes(protected)
	partHTTP.NewPartHandler(partRepository).RegisterRoutes(protected)
	workOrderHandler.RegisterRoutes(protected)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(getEnv("CORS_ORIGINS", "*"), ","),
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(router)

	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Logger.Info().Str("port", port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Forced shutdown")
	}
	logger.Logger.Info().Msg("Server stopped")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
