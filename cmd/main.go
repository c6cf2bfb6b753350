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

	cancelAppointmentHandler "github.com/psicoadmin/PSA-AppointmentService/internal/api/handlers/cancel_appointment"
	confirmPaymentHandler "github.com/psicoadmin/PSA-AppointmentService/internal/api/handlers/confirm_payment"
	createBookingHandler "github.com/psicoadmin/PSA-AppointmentService/internal/api/handlers/create_booking"
	getAppointmentHandler "github.com/psicoadmin/PSA-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/psicoadmin/PSA-AppointmentService/internal/api/handlers/get_available_slots"
	getPatientAppointmentsHandler "github.com/psicoadmin/PSA-AppointmentService/internal/api/handlers/get_patient_appointments"
	getPatientPlansHandler "github.com/psicoadmin/PSA-AppointmentService/internal/api/handlers/get_patient_plans"
	getProfessionalAppointmentsHandler "github.com/psicoadmin/PSA-AppointmentService/internal/api/handlers/get_professional_appointments"
	updateAppointmentHandler "github.com/psicoadmin/PSA-AppointmentService/internal/api/handlers/update_appointment"
	"github.com/psicoadmin/PSA-AppointmentService/internal/api/middleware"
	"github.com/psicoadmin/PSA-AppointmentService/internal/config"
	appointmentRepo "github.com/psicoadmin/PSA-AppointmentService/internal/infra/storage/appointment"
	availabilityRepo "github.com/psicoadmin/PSA-AppointmentService/internal/infra/storage/availability"
	planRepo "github.com/psicoadmin/PSA-AppointmentService/internal/infra/storage/plan"
	profileServiceClient "github.com/psicoadmin/PSA-AppointmentService/internal/integrations/profileservice"
	"github.com/psicoadmin/PSA-AppointmentService/internal/reaper"
	appointmentsService "github.com/psicoadmin/PSA-AppointmentService/internal/service/appointments"
	entitlementsService "github.com/psicoadmin/PSA-AppointmentService/internal/service/entitlements"
	createBookingUC "github.com/psicoadmin/PSA-AppointmentService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/psicoadmin/PSA-AppointmentService/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/psicoadmin/PSA-AppointmentService/internal/usecase/reschedule_booking"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/dbmetrics"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/logger"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/metrics"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/simpletxmanager"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/txmanager"
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

	log.Info("Starting PSA-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

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

	// Инициализируем клиента сервиса профилей
	profileClient := profileServiceClient.NewClient(
		cfg.ProfileService.URL,
		time.Duration(cfg.ProfileService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ProfileService=%s timeout=%ds)",
		cfg.ProfileService.URL, cfg.ProfileService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository  *appointmentRepo.Repository
		availabilityRepository *availabilityRepo.Repository
		planRepository         *planRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		planRepository = planRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		appointmentRepository = appointmentRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		planRepository = planRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	entitlementsSvc := entitlementsService.NewService(planRepository, log)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		entitlementsSvc,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		availabilityRepository,
		profileClient,
		entitlementsSvc,
		txMgr,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		availabilityRepository,
		profileClient,
		cfg.Booking.DefaultSessionDurationMinutes,
		log,
	)

	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		appointmentRepository,
		availabilityRepository,
		profileClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointment := updateAppointmentHandler.NewHandler(appointmentsSvc, rescheduleBookingUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	confirmPayment := confirmPaymentHandler.NewHandler(appointmentsSvc, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getProfessionalAppointments := getProfessionalAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getPatientPlans := getPatientPlansHandler.NewHandler(entitlementsSvc, log)

	// Запускаем сборщик брошенных броней (если включен)
	var abandonedReaper *reaper.Reaper
	if cfg.Reaper.Enabled {
		abandonedReaper = reaper.New(
			appointmentRepository,
			cfg.Reaper.Schedule,
			cfg.Reaper.AbandonedTTLMinutes,
			log,
		)
		if err := abandonedReaper.Start(); err != nil {
			log.Fatal("Failed to start reaper: %v", err)
		}
	}

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

	// Получение доступных слотов специалиста на дату
	api.HandleFunc("/professionals/{professionalId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Приёмы ---
	// Создание приёма
	protected.HandleFunc("/appointments", createBooking.Handle).Methods(http.MethodPost)

	// Получение приёма по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Обновление приёма: статус, детали, перенос
	protected.HandleFunc("/appointments/{appointmentId}", updateAppointment.Handle).Methods(http.MethodPatch)

	// Отмена приёма
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Подтверждение внешней оплаты
	protected.HandleFunc("/appointments/{appointmentId}/confirm-payment", confirmPayment.Handle).Methods(http.MethodPost)

	// --- Списки ---
	// История приёмов пациента
	protected.HandleFunc("/patients/{patientId}/appointments", getPatientAppointments.Handle).Methods(http.MethodGet)

	// Расписание специалиста
	protected.HandleFunc("/professionals/{professionalId}/appointments",
		getProfessionalAppointments.Handle).Methods(http.MethodGet)

	// Активные планы пациента
	protected.HandleFunc("/patients/{patientId}/plans", getPatientPlans.Handle).Methods(http.MethodGet)

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

	// Останавливаем reaper
	if abandonedReaper != nil {
		abandonedReaper.Stop()
	}

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
