package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/astroindira/booking-service/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/astroindira/booking-service/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/astroindira/booking-service/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/astroindira/booking-service/internal/api/handlers/get_booking"
	getPaymentKeyHandler "github.com/astroindira/booking-service/internal/api/handlers/get_payment_key"
	listBookingsHandler "github.com/astroindira/booking-service/internal/api/handlers/list_bookings"
	manageAvailabilityHandler "github.com/astroindira/booking-service/internal/api/handlers/manage_availability"
	retryPaymentHandler "github.com/astroindira/booking-service/internal/api/handlers/retry_payment"
	setStatusHandler "github.com/astroindira/booking-service/internal/api/handlers/set_status"
	updateBookingHandler "github.com/astroindira/booking-service/internal/api/handlers/update_booking"
	verifyPaymentHandler "github.com/astroindira/booking-service/internal/api/handlers/verify_payment"
	"github.com/astroindira/booking-service/internal/api/middleware"
	"github.com/astroindira/booking-service/internal/config"
	availabilityRepo "github.com/astroindira/booking-service/internal/infra/storage/availability"
	bookingRepo "github.com/astroindira/booking-service/internal/infra/storage/booking"
	customerRepo "github.com/astroindira/booking-service/internal/infra/storage/customer"
	reservationRepo "github.com/astroindira/booking-service/internal/infra/storage/reservation"
	mailerClient "github.com/astroindira/booking-service/internal/integrations/mailer"
	razorpayClient "github.com/astroindira/booking-service/internal/integrations/razorpay"
	availabilityService "github.com/astroindira/booking-service/internal/service/availability"
	bookingsService "github.com/astroindira/booking-service/internal/service/bookings"
	pricingService "github.com/astroindira/booking-service/internal/service/pricing"
	createBookingUC "github.com/astroindira/booking-service/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/astroindira/booking-service/internal/usecase/get_available_slots"
	expiryWorker "github.com/astroindira/booking-service/internal/worker/expiry"
	"github.com/astroindira/booking-service/pkg/dbmetrics"
	"github.com/astroindira/booking-service/pkg/logger"
	"github.com/astroindira/booking-service/pkg/metrics"
	"github.com/astroindira/booking-service/pkg/simpletxmanager"
	"github.com/astroindira/booking-service/pkg/txmanager"
	"github.com/astroindira/booking-service/pkg/types"
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

	log.Info("Starting booking-service...")
	log.Info("Configuration loaded from config.toml")

	// Рабочая таймзона: вся арифметика слотов выполняется в ней
	location, err := time.LoadLocation(cfg.Booking.OperatingTimezone)
	if err != nil {
		log.Fatal("Failed to load operating timezone %s: %v", cfg.Booking.OperatingTimezone, err)
	}
	log.Info("Operating timezone: %s", cfg.Booking.OperatingTimezone)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем интеграционных клиентов
	gateway := razorpayClient.NewClient(
		cfg.Razorpay.BaseURL,
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		time.Duration(cfg.Razorpay.Timeout)*time.Second,
		log,
	)
	if gateway.Enabled() {
		log.Info("Razorpay gateway enabled")
	} else {
		log.Warn("Razorpay gateway disabled: paid bookings will be rejected")
	}

	notifier := mailerClient.NewClient(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		time.Duration(cfg.SMTP.Timeout)*time.Second,
		log,
	)
	if notifier.Enabled() {
		log.Info("SMTP notifications enabled (host=%s, port=%d)", cfg.SMTP.Host, cfg.SMTP.Port)
	} else {
		log.Warn("SMTP notifications disabled: emails will be skipped")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		reservationRepository  *reservationRepo.Repository
		availabilityRepository *availabilityRepo.Repository
		customerRepository     *customerRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		customerRepository = customerRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		reservationRepository = reservationRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		customerRepository = customerRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Провайдер времени в рабочей таймзоне
	timeProvider := &getAvailableSlotsUC.RealTimeProvider{Location: location}

	// Инициализируем сервисы
	pricingResolver := pricingService.NewResolver(cfg.Booking.DefaultSlotDurationMinutes)

	bookingSvc := bookingsService.NewService(
		bookingRepository,
		reservationRepository,
		gateway,
		notifier,
		pricingResolver,
		txMgr,
		timeProvider,
		log,
	)
	availabilitySvc := availabilityService.NewService(availabilityRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		reservationRepository,
		customerRepository,
		pricingResolver,
		gateway,
		notifier,
		txMgr,
		timeProvider,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		reservationRepository,
		availabilityRepository,
		pricingResolver,
		timeProvider,
		types.TimeString(cfg.Booking.DefaultWindowStart),
		types.TimeString(cfg.Booking.DefaultWindowEnd),
		cfg.Booking.DefaultSlotDurationMinutes,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, log)
	setStatus := setStatusHandler.NewHandler(bookingSvc, log)
	verifyPayment := verifyPaymentHandler.NewHandler(bookingSvc, log)
	retryPayment := retryPaymentHandler.NewHandler(bookingSvc, log)
	getPaymentKey := getPaymentKeyHandler.NewHandler(gateway, log)
	manageAvailability := manageAvailabilityHandler.NewHandler(availabilitySvc, log)

	// Фоновое авто-истечение неоплаченных бронирований
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	var workerMetrics expiryWorker.Metrics
	if cfg.Metrics.Enabled {
		workerMetrics = metricsCollector
	}
	worker := expiryWorker.NewWorker(
		bookingSvc,
		time.Duration(cfg.Booking.ExpirySweepIntervalMinutes)*time.Minute,
		workerMetrics,
		log,
	)
	go worker.Run(workerCtx)
	log.Info("Expiry worker started (interval=%dm)", cfg.Booking.ExpirySweepIntervalMinutes)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Получение доступных слотов астролога
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Подтверждение оплаты (callback после оплаты на фронте)
	api.HandleFunc("/verify-payment", verifyPayment.Handle).Methods(http.MethodPost)

	// Публичный ключ платежного шлюза для платежной формы
	api.HandleFunc("/razorpay-key", getPaymentKey.Handle).Methods(http.MethodGet)

	// --- Административные операции ---
	// Список бронирований
	api.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)

	// Выставление статуса бронирования
	api.HandleFunc("/bookings/{bookingId}/status", setStatus.Handle).Methods(http.MethodPut)

	// Управление окнами доступности астрологов
	api.HandleFunc("/astrologer-availability", manageAvailability.HandleUpsert).Methods(http.MethodPost)
	api.HandleFunc("/astrologer-availability/{astrologer}", manageAvailability.HandleList).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-Email header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Перенос бронирования на другой слот
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPut)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Повторная попытка оплаты
	protected.HandleFunc("/bookings/{bookingId}/retry-payment", retryPayment.Handle).Methods(http.MethodPost)

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

	// Останавливаем фоновый worker
	stopWorker()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
