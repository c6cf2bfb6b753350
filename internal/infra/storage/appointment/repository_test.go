package appointment

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/dbmetrics"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/types"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db), mock
}

func appointmentRows() *sqlmock.Rows {
	return sqlmock.NewRows(appointmentColumns)
}

func addRow(rows *sqlmock.Rows, id int64, status string, start, end string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id, int64(1), int64(10),
		time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		start+":00", end+":00",
		"virtual", status, "консультация",
		nil, nil, 1500.0, false, nil, nil, nil,
		now, now,
	)
}

func TestCreate(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))

	appt := &domain.Appointment{
		PatientID:       1,
		PsychologistID:  10,
		AppointmentDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString("10:00"),
		EndTime:         types.TimeString("11:00"),
		AppointmentType: domain.TypeVirtual,
		Status:          domain.StatusPending,
		ReasonForVisit:  "консультация",
		ConsultationFee: 1500,
	}

	created, err := repo.Create(context.Background(), appt)
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolationMeansSlotTaken(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.Appointment{
		PatientID:       1,
		PsychologistID:  10,
		AppointmentDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString("10:00"),
		EndTime:         types.TimeString("11:00"),
		Status:          domain.StatusPending,
	})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT .+ FROM appointments WHERE id = ").
		WillReturnRows(appointmentRows())

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetByID(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT .+ FROM appointments WHERE id = ").
		WillReturnRows(addRow(appointmentRows(), 42, "confirmed", "10:00", "11:00"))

	appt, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), appt.ID)
	assert.Equal(t, domain.StatusConfirmed, appt.Status)
	assert.Equal(t, types.TimeString("10:00"), appt.StartTime)
	assert.Equal(t, types.TimeString("11:00"), appt.EndTime)
}

func TestGetByID_LocksRowInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM appointments WHERE id = .+ FOR UPDATE").
		WillReturnRows(addRow(appointmentRows(), 42, "confirmed", "10:00", "11:00"))

	tx, err := db.Begin()
	require.NoError(t, err)

	ctx := dbmetrics.WithTx(context.Background(), tx)

	appt, err := repo.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), appt.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByPsychologistWithFilter_DefaultsToActiveStatuses(t *testing.T) {
	repo, mock := newMock(t)

	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM appointments WHERE psychologist_id = .+ status IN").
		WillReturnRows(addRow(appointmentRows(), 42, "pending", "10:00", "11:00"))

	appts, err := repo.GetByPsychologistWithFilter(context.Background(), domain.AppointmentsFilter{
		PsychologistID: 10,
		StartDate:      &date,
		EndDate:        &date,
	})
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, int64(42), appts[0].ID)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("UPDATE appointments SET status = ").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 404, domain.StatusConfirmed)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestDeleteAbandoned_RemovesOnlyUnpaidPending(t *testing.T) {
	repo, mock := newMock(t)

	// Удаляется только pending и неоплаченная бронь указанного слота
	mock.ExpectExec("DELETE FROM appointments WHERE appointment_date = .+ AND is_paid = .+ AND psychologist_id = .+ AND start_time = .+ AND status = ").
		WithArgs(
			time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
			false,
			int64(10),
			types.TimeString("10:00"),
			domain.StatusPending,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.DeleteAbandoned(
		context.Background(),
		10,
		time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		types.TimeString("10:00"),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
