package plan

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/dbmetrics"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/psqlbuilder"
)

// DBExecutor интерфейс исполнителя запросов к БД
type DBExecutor = dbmetrics.DBExecutor

// planColumns полный список колонок таблицы patient_plans
var planColumns = []string{
	"id",
	"patient_id",
	"psychologist_id",
	"plan_title",
	"total_sessions",
	"sessions_used",
	"is_active",
	"purchased_at",
}

// Repository репозиторий планов пациентов.
// Покупка плана происходит в платежной подсистеме; движок бронирования
// только читает планы и списывает/возвращает сессии.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория планов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает план пациента по ID.
// Внутри транзакции добавляет FOR UPDATE, чтобы списание сессии
// в той же транзакции не конкурировало с параллельными бронированиями.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.PatientPlan, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(planColumns...).
		From("patient_plans").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.PatientPlan
	var purchasedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.PatientID,
		&p.PsychologistID,
		&p.PlanTitle,
		&p.TotalSessions,
		&p.SessionsUsed,
		&p.IsActive,
		&purchasedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan plan: %v", ErrScanRow, err)
	}

	p.PurchasedAt = purchasedAt.Time

	return &p, nil
}

// GetActiveByPatient получает активные планы пациента
func (r *Repository) GetActiveByPatient(ctx context.Context, patientID int64) ([]*domain.PatientPlan, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(planColumns...).
		From("patient_plans").
		Where(squirrel.Eq{
			"patient_id": patientID,
			"is_active":  true,
		}).
		OrderBy("purchased_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByPatient - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByPatient - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	plans := make([]*domain.PatientPlan, 0)
	for rows.Next() {
		var p domain.PatientPlan
		var purchasedAt sql.NullTime

		err := rows.Scan(
			&p.ID,
			&p.PatientID,
			&p.PsychologistID,
			&p.PlanTitle,
			&p.TotalSessions,
			&p.SessionsUsed,
			&p.IsActive,
			&purchasedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetActiveByPatient - scan row: %v", ErrScanRow, err)
		}

		p.PurchasedAt = purchasedAt.Time
		plans = append(plans, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveByPatient - rows error: %v", ErrScanRow, err)
	}

	return plans, nil
}

// DebitSession списывает одну сессию плана.
// Условие sessions_used < total_sessions в WHERE гарантирует,
// что sessions_used никогда не превысит total_sessions:
// при исчерпанном плане запрос не затрагивает строк и возвращается ErrNoSessionsLeft.
func (r *Repository) DebitSession(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("patient_plans").
		Set("sessions_used", squirrel.Expr("sessions_used + 1")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("sessions_used < total_sessions")).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DebitSession - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DebitSession - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DebitSession - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrNoSessionsLeft
	}

	return nil
}

// RefundSession возвращает одну сессию в план (при отмене приёма, оплаченного планом).
// Условие sessions_used > 0 не дает счетчику уйти в минус.
func (r *Repository) RefundSession(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("patient_plans").
		Set("sessions_used", squirrel.Expr("sessions_used - 1")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Gt{"sessions_used": 0}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RefundSession - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RefundSession - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RefundSession - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrNothingToRefund
	}

	return nil
}
