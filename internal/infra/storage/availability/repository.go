package availability

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/dbmetrics"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/psqlbuilder"
)

// DBExecutor интерфейс исполнителя запросов к БД
type DBExecutor = dbmetrics.DBExecutor

// ruleColumns полный список колонок таблицы psychologist_availability
var ruleColumns = []string{
	"id",
	"psychologist_id",
	"weekday",
	"start_time",
	"end_time",
	"is_active",
	"blocked_dates",
	"created_at",
	"updated_at",
}

// Repository репозиторий правил доступности психологов.
// Правила редактируются специалистом во внешней админке,
// движок бронирования их только читает.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveRulesForWeekday получает активные правила психолога на день недели,
// упорядоченные по времени начала окна. Несколько правил на один день
// поддерживаются (раздельные смены).
func (r *Repository) GetActiveRulesForWeekday(ctx context.Context, psychologistID int64, weekday int) ([]*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("psychologist_availability").
		Where(squirrel.Eq{
			"psychologist_id": psychologistID,
			"weekday":         weekday,
			"is_active":       true,
		}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveRulesForWeekday - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveRulesForWeekday - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanRules(rows)
}

// GetByPsychologist получает все правила психолога (включая неактивные)
func (r *Repository) GetByPsychologist(ctx context.Context, psychologistID int64) ([]*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("psychologist_availability").
		Where(squirrel.Eq{"psychologist_id": psychologistID}).
		OrderBy("weekday ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByPsychologist - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPsychologist - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanRules(rows)
}

func (r *Repository) scanRules(rows *sql.Rows) ([]*domain.AvailabilityRule, error) {
	rules := make([]*domain.AvailabilityRule, 0)

	for rows.Next() {
		var rule domain.AvailabilityRule
		var blockedDates pq.StringArray
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.PsychologistID,
			&rule.Weekday,
			&rule.StartTime,
			&rule.EndTime,
			&rule.IsActive,
			&blockedDates,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanRules - scan row: %v", ErrScanRow, err)
		}

		rule.BlockedDates = blockedDates
		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time

		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRules - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}
