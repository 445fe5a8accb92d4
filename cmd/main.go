package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/avtomir/ASC-BookingService/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/avtomir/ASC-BookingService/internal/api/handlers/complete_booking"
	confirmBookingHandler "github.com/avtomir/ASC-BookingService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/avtomir/ASC-BookingService/internal/api/handlers/create_booking"
	getBookingHandler "github.com/avtomir/ASC-BookingService/internal/api/handlers/get_booking"
	getBookingHistoryHandler "github.com/avtomir/ASC-BookingService/internal/api/handlers/get_booking_history"
	getCenterBookingsHandler "github.com/avtomir/ASC-BookingService/internal/api/handlers/get_center_bookings"
	getUserBookingsHandler "github.com/avtomir/ASC-BookingService/internal/api/handlers/get_user_bookings"
	startBookingHandler "github.com/avtomir/ASC-BookingService/internal/api/handlers/start_booking"
	"github.com/avtomir/ASC-BookingService/internal/api/middleware"
	"github.com/avtomir/ASC-BookingService/internal/config"
	bookingRepo "github.com/avtomir/ASC-BookingService/internal/infra/storage/booking"
	historyRepo "github.com/avtomir/ASC-BookingService/internal/infra/storage/history"
	outboxRepo "github.com/avtomir/ASC-BookingService/internal/infra/storage/outbox"
	catalogServiceClient "github.com/avtomir/ASC-BookingService/internal/integrations/catalogservice"
	userServiceClient "github.com/avtomir/ASC-BookingService/internal/integrations/userservice"
	bookingsService "github.com/avtomir/ASC-BookingService/internal/service/bookings"
	cancelBookingUC "github.com/avtomir/ASC-BookingService/internal/usecase/cancel_booking"
	completeBookingUC "github.com/avtomir/ASC-BookingService/internal/usecase/complete_booking"
	confirmBookingUC "github.com/avtomir/ASC-BookingService/internal/usecase/confirm_booking"
	createBookingUC "github.com/avtomir/ASC-BookingService/internal/usecase/create_booking"
	startBookingUC "github.com/avtomir/ASC-BookingService/internal/usecase/start_booking"
	"github.com/avtomir/ASC-BookingService/internal/worker"
	"github.com/avtomir/ASC-BookingService/pkg/dbmetrics"
	"github.com/avtomir/ASC-BookingService/pkg/logger"
	"github.com/avtomir/ASC-BookingService/pkg/metrics"
	"github.com/avtomir/ASC-BookingService/pkg/mq"
	"github.com/avtomir/ASC-BookingService/pkg/simpletxmanager"
	"github.com/avtomir/ASC-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting ASC-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime.Duration)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Подключаемся к RabbitMQ
	publisher, err := mq.NewPublisher(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()
	log.Info("Connected to RabbitMQ, exchange=%s", cfg.Rabbit.Exchange)

	// Инициализируем интеграционных клиентов
	userClient := userServiceClient.NewClient(cfg.UserService.URL, cfg.UserService.Timeout.Duration, log)
	catalogClient := catalogServiceClient.NewClient(cfg.CatalogService.URL, cfg.CatalogService.Timeout.Duration, log)
	log.Info("Integration clients initialized (UserService=%s, CatalogService=%s)",
		cfg.UserService.URL, cfg.CatalogService.URL)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		historyRepository *historyRepo.Repository
		outboxRepository  *outboxRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		historyRepository = historyRepo.NewRepository(wrappedDB)
		outboxRepository = outboxRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		historyRepository = historyRepo.NewRepository(db)
		outboxRepository = outboxRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервис чтения
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		historyRepository,
		catalogClient,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		historyRepository,
		outboxRepository,
		userClient,
		catalogClient,
		txMgr,
		cfg.Booking.MinNoticeMinutes,
		log,
	)
	confirmBookingUseCase := confirmBookingUC.NewUseCase(
		bookingRepository, historyRepository, outboxRepository, txMgr, log)
	startBookingUseCase := startBookingUC.NewUseCase(
		bookingRepository, historyRepository, txMgr, log)
	completeBookingUseCase := completeBookingUC.NewUseCase(
		bookingRepository, historyRepository, outboxRepository, txMgr, log)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository, historyRepository, outboxRepository, txMgr, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	confirmBooking := confirmBookingHandler.NewHandler(confirmBookingUseCase, log)
	startBooking := startBookingHandler.NewHandler(startBookingUseCase, log)
	completeBooking := completeBookingHandler.NewHandler(completeBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookingHistory := getBookingHistoryHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getCenterBookings := getCenterBookingsHandler.NewHandler(bookingSvc, log)

	// Запускаем outbox relay
	relayCtx, relayCancel := context.WithCancel(context.Background())
	defer relayCancel()

	relay := worker.NewRelay(
		outboxRepository,
		publisher,
		txMgr,
		metricsOrNop(metricsCollector),
		log,
		cfg.Rabbit.PollInterval.Duration,
		cfg.Rabbit.BatchSize,
	)
	go relay.Run(relayCtx)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Все маршруты требуют заголовков X-User-ID и X-User-Role
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/history", getBookingHistory.Handle).Methods(http.MethodGet)

	// --- Переходы жизненного цикла ---
	api.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/start", startBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Списки ---
	api.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/centers/{centerId}/bookings", getCenterBookings.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем relay и сбор метрик connection pool
	relayCancel()
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// metricsOrNop возвращает рабочий коллектор или заглушку, когда метрики выключены
func metricsOrNop(m *metrics.Metrics) worker.Metrics {
	if m != nil {
		return m
	}
	return nopMetrics{}
}

type nopMetrics struct{}

func (nopMetrics) IncOutboxPublished(string) {}
func (nopMetrics) IncOutboxFailed(string)    {}
func (nopMetrics) SetOutboxPending(int)      {}
