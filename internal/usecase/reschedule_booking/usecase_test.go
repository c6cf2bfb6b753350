package reschedule_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	"github.com/psicoadmin/PSA-AppointmentService/internal/integrations/profileservice"
	appointmentRepo "github.com/psicoadmin/PSA-AppointmentService/internal/infra/storage/appointment"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/types"
)

// Mock implementations

type mockAppointmentRepo struct {
	byID         *domain.Appointment
	getErr       error
	appointments []*domain.Appointment
	updateCalls  int
	updatedStart types.TimeString
	updatedEnd   types.TimeString
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	appt := *m.byID
	return &appt, nil
}

func (m *mockAppointmentRepo) GetByPsychologistWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	return m.appointments, nil
}

func (m *mockAppointmentRepo) UpdateSchedule(ctx context.Context, id int64, date time.Time, startTime, endTime types.TimeString) error {
	m.updateCalls++
	m.updatedStart = startTime
	m.updatedEnd = endTime
	return nil
}

type mockAvailabilityRepo struct {
	rules []*domain.AvailabilityRule
}

func (m *mockAvailabilityRepo) GetActiveRulesForWeekday(ctx context.Context, psychologistID int64, weekday int) ([]*domain.AvailabilityRule, error) {
	return m.rules, nil
}

type mockProfileClient struct {
	profile *profileservice.Profile
	err     error
}

func (m *mockProfileClient) GetProfile(ctx context.Context, psychologistID int64) (*profileservice.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// 2026-09-14 - понедельник
var monday = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

func existingAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              42,
		PatientID:       1,
		PsychologistID:  10,
		AppointmentDate: monday,
		StartTime:       types.TimeString("10:00"),
		EndTime:         types.TimeString("11:00"),
		Status:          domain.StatusConfirmed,
	}
}

func workdayRule() *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		ID:             1,
		PsychologistID: 10,
		Weekday:        0,
		StartTime:      types.TimeString("09:00"),
		EndTime:        types.TimeString("18:00"),
		IsActive:       true,
	}
}

func newTestUseCase(repo *mockAppointmentRepo, rules []*domain.AvailabilityRule) *UseCase {
	uc := NewUseCase(
		repo,
		&mockAvailabilityRepo{rules: rules},
		&mockProfileClient{profile: &profileservice.Profile{PsychologistID: 10, SessionDurationMinutes: 60}},
		fakeTxManager{},
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: monday.AddDate(0, 0, -7)}
	return uc
}

func TestExecute_MovesAppointment(t *testing.T) {
	repo := &mockAppointmentRepo{byID: existingAppointment()}
	uc := newTestUseCase(repo, []*domain.AvailabilityRule{workdayRule()})

	resp, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		Date:          monday,
		StartTime:     types.TimeString("14:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.updateCalls)
	assert.Equal(t, types.TimeString("14:00"), repo.updatedStart)
	assert.Equal(t, types.TimeString("15:00"), repo.updatedEnd)
	assert.Equal(t, types.TimeString("14:00"), resp.Appointment.StartTime)
}

func TestExecute_OwnSlotIsNotConflict(t *testing.T) {
	// Переносимый приём сам числится в расписании дня - он исключается по id
	current := existingAppointment()
	repo := &mockAppointmentRepo{
		byID:         current,
		appointments: []*domain.Appointment{current},
	}
	uc := newTestUseCase(repo, []*domain.AvailabilityRule{workdayRule()})

	// Сдвиг на полчаса внутрь собственного слота
	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		Date:          monday,
		StartTime:     types.TimeString("10:30"),
	})
	assert.NoError(t, err)
}

func TestExecute_ConflictWithAnotherAppointment(t *testing.T) {
	other := existingAppointment()
	other.ID = 99
	other.StartTime = types.TimeString("14:00")
	other.EndTime = types.TimeString("15:00")

	repo := &mockAppointmentRepo{
		byID:         existingAppointment(),
		appointments: []*domain.Appointment{other},
	}
	uc := newTestUseCase(repo, []*domain.AvailabilityRule{workdayRule()})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		Date:          monday,
		StartTime:     types.TimeString("14:30"),
	})
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_TerminalStatusNotReschedulable(t *testing.T) {
	cancelled := existingAppointment()
	cancelled.Status = domain.StatusCancelled

	repo := &mockAppointmentRepo{byID: cancelled}
	uc := newTestUseCase(repo, []*domain.AvailabilityRule{workdayRule()})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		Date:          monday,
		StartTime:     types.TimeString("14:00"),
	})
	assert.ErrorIs(t, err, ErrNotReschedulable)
	assert.Equal(t, 0, repo.updateCalls)
}

func TestExecute_AppointmentNotFound(t *testing.T) {
	repo := &mockAppointmentRepo{getErr: appointmentRepo.ErrAppointmentNotFound}
	uc := newTestUseCase(repo, []*domain.AvailabilityRule{workdayRule()})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		Date:          monday,
		StartTime:     types.TimeString("14:00"),
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_OutsideAvailability(t *testing.T) {
	repo := &mockAppointmentRepo{byID: existingAppointment()}
	uc := newTestUseCase(repo, []*domain.AvailabilityRule{workdayRule()})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		Date:          monday,
		StartTime:     types.TimeString("19:00"),
	})
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestExecute_PastDate(t *testing.T) {
	repo := &mockAppointmentRepo{byID: existingAppointment()}
	uc := newTestUseCase(repo, []*domain.AvailabilityRule{workdayRule()})
	uc.timeProvider = &fixedTimeProvider{now: monday.AddDate(0, 0, 1)}

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 42,
		Date:          monday,
		StartTime:     types.TimeString("14:00"),
	})
	assert.ErrorIs(t, err, ErrDateInPast)
}
