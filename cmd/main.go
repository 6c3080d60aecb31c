package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	createBookingHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/get_customer_bookings"
	getProviderBookingsHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/get_provider_bookings"
	getProviderServicesHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/get_provider_services"
	listServicesHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/list_services"
	updateBookingStatusHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/update_booking_status"
	updateProviderServicesHandler "github.com/m04kA/SMC-SalonScheduler/internal/api/handlers/update_provider_services"
	"github.com/m04kA/SMC-SalonScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SalonScheduler/internal/config"
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonScheduler/internal/integrations/events"
	staffServiceClient "github.com/m04kA/SMC-SalonScheduler/internal/integrations/staffservice"
	"github.com/m04kA/SMC-SalonScheduler/internal/scheduling"
	bookingsService "github.com/m04kA/SMC-SalonScheduler/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-SalonScheduler/internal/service/catalog"
	createBookingUC "github.com/m04kA/SMC-SalonScheduler/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonScheduler/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/keylock"
	"github.com/m04kA/SMC-SalonScheduler/pkg/logger"
	"github.com/m04kA/SMC-SalonScheduler/pkg/metrics"
	"github.com/m04kA/SMC-SalonScheduler/pkg/simpletxmanager"
	"github.com/m04kA/SMC-SalonScheduler/pkg/txmanager"
)

// publisher события бронирований (Kafka или no-op)
type publisher interface {
	BookingCreated(ctx context.Context, booking *domain.Booking) error
	BookingStatusChanged(ctx context.Context, booking *domain.Booking, previous domain.BookingStatus) error
	Close() error
}

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SMC-SalonScheduler...")
	log.Info("Configuration loaded from %s", *configPath)

	hours, err := cfg.Scheduling.BusinessHours()
	if err != nil {
		log.Fatal("Invalid scheduling config: %v", err)
	}
	log.Info("Business hours %s-%s, step %s, timezone %s",
		hours.Open, hours.Close, hours.Step, hours.Location)

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
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Справочник мастеров
	staffClient := staffServiceClient.NewClient(
		cfg.StaffService.URL,
		time.Duration(cfg.StaffService.Timeout)*time.Second,
		log,
	)
	log.Info("StaffService client initialized (url=%s, timeout=%ds)", cfg.StaffService.URL, cfg.StaffService.Timeout)

	// Репозитории и transaction manager (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		catalogRepository *catalogRepo.Repository
		txMgr             *txmanager.TransactionManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}
	txMgr.WithMaxRetries(cfg.Database.MaxTxRetries)

	var catalogStorage catalogService.CatalogRepository = catalogRepository
	if cfg.Cache.Enabled {
		catalogStorage = catalogRepo.NewCachedRepository(
			catalogRepository,
			time.Duration(cfg.Cache.TTL)*time.Second,
			time.Duration(cfg.Cache.CleanupInterval)*time.Second,
		)
		log.Info("Catalog cache enabled (ttl=%ds)", cfg.Cache.TTL)
	}

	// Блокировка мастера на время проверки и вставки
	var locker keylock.Locker
	switch cfg.Lock.Mode {
	case config.LockModeRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Lock.RedisAddr,
			Password: cfg.Lock.RedisPassword,
			DB:       cfg.Lock.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Lock.RedisAddr, err)
		}

		locker = keylock.NewRedis(rdb,
			cfg.Lock.Prefix,
			time.Duration(cfg.Lock.TTL)*time.Second,
			time.Duration(cfg.Lock.RetryInterval)*time.Millisecond,
		)
		log.Info("Provider lock: redis (addr=%s, prefix=%s)", cfg.Lock.RedisAddr, cfg.Lock.Prefix)
	default:
		locker = keylock.NewLocal()
		log.Info("Provider lock: in-process")
	}

	// События бронирований
	var eventPublisher publisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		eventPublisher = events.NewKafkaPublisher(
			cfg.Events.Brokers,
			cfg.Events.Topic,
			time.Duration(cfg.Events.Timeout)*time.Second,
			log,
		)
		log.Info("Booking events enabled (brokers=%v, topic=%s)", cfg.Events.Brokers, cfg.Events.Topic)
	}
	defer eventPublisher.Close()

	// Ядро расписания
	clock := scheduling.SystemClock{}
	generator := scheduling.NewGenerator(hours, clock)
	guard := scheduling.NewConflictGuard(bookingRepository, hours.Location)

	// Инициализируем сервисы
	catalogSvc := catalogService.NewService(
		catalogStorage,
		staffClient,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		txMgr,
		eventPublisher,
		metricsCollector,
		hours.Location,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		guard,
		catalogSvc,
		locker,
		txMgr,
		eventPublisher,
		metricsCollector,
		hours,
		time.Duration(cfg.Lock.WaitTimeout)*time.Second,
		clock,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		catalogSvc,
		generator,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, hours.Location, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, hours.Location, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, hours.Location, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	getProviderServices := getProviderServicesHandler.NewHandler(catalogSvc, log)
	updateProviderServices := updateProviderServicesHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		api.Use(middleware.RateLimit(limiter))
		log.Info("Rate limit enabled (%.1f rps, burst %d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты мастера на день
	api.HandleFunc("/providers/{providerId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Каталог услуг
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)

	// Услуги мастера с его ценами и длительностями
	api.HandleFunc("/providers/{providerId}/services",
		getProviderServices.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// История клиента
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Кабинет мастера ---
	protected.HandleFunc("/providers/{providerId}/bookings", getProviderBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId}/services", updateProviderServices.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
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

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
