package reaper

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// AppointmentRepository интерфейс репозитория приёмов
type AppointmentRepository interface {
	DeleteExpiredAbandoned(ctx context.Context, olderThan time.Time) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Reaper по расписанию удаляет брошенные брони: pending и неоплаченные
// приёмы старше TTL. Пациент ушел, не оплатив - слот возвращается в выдачу.
type Reaper struct {
	appointmentRepo AppointmentRepository
	schedule        string
	ttl             time.Duration
	logger          Logger
	cron            *cron.Cron
}

// New создает новый экземпляр reaper.
// schedule - cron-выражение (5 полей), ttl - возраст брошенной брони.
func New(appointmentRepo AppointmentRepository, schedule string, ttlMinutes int, logger Logger) *Reaper {
	return &Reaper{
		appointmentRepo: appointmentRepo,
		schedule:        schedule,
		ttl:             time.Duration(ttlMinutes) * time.Minute,
		logger:          logger,
		cron:            cron.New(),
	}
}

// Start запускает планировщик
func (r *Reaper) Start() error {
	if _, err := r.cron.AddFunc(r.schedule, r.run); err != nil {
		return err
	}

	r.cron.Start()
	r.logger.Info("Reaper started: schedule=%q, ttl=%s", r.schedule, r.ttl)
	return nil
}

// Stop останавливает планировщик и дожидается завершения текущего прохода
func (r *Reaper) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("Reaper stopped")
}

func (r *Reaper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	olderThan := time.Now().Add(-r.ttl)
	deleted, err := r.appointmentRepo.DeleteExpiredAbandoned(ctx, olderThan)
	if err != nil {
		r.logger.Error("Reaper: failed to delete abandoned appointments: %v", err)
		return
	}

	if deleted > 0 {
		r.logger.Info("Reaper: deleted %d abandoned appointment(s) older than %s", deleted, olderThan.Format(time.RFC3339))
	}
}
