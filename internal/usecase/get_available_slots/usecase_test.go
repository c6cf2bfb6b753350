package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	"github.com/psicoadmin/PSA-AppointmentService/internal/integrations/profileservice"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/types"
)

// Mock implementations

type mockAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (m *mockAppointmentRepo) GetByPsychologistWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.appointments, nil
}

type mockAvailabilityRepo struct {
	rules []*domain.AvailabilityRule
	err   error
}

func (m *mockAvailabilityRepo) GetActiveRulesForWeekday(ctx context.Context, psychologistID int64, weekday int) ([]*domain.AvailabilityRule, error) {
	if m.err != nil {
		return nil, m.err
	}
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

func newTestUseCase(
	appointmentRepo *mockAppointmentRepo,
	availabilityRepo *mockAvailabilityRepo,
	profileClient *mockProfileClient,
) *UseCase {
	uc := NewUseCase(appointmentRepo, availabilityRepo, profileClient, 60, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: monday.AddDate(0, 0, -7)}
	return uc
}

func rule(start, end string) *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		ID:             1,
		PsychologistID: 10,
		Weekday:        0,
		StartTime:      types.TimeString(start),
		EndTime:        types.TimeString(end),
		IsActive:       true,
	}
}

func profile(duration int) *profileservice.Profile {
	return &profileservice.Profile{
		PsychologistID:         10,
		SessionDurationMinutes: duration,
		ConsultationFee:        1500,
		IsActive:               true,
	}
}

func TestExecute_GeneratesSlotsFromRule(t *testing.T) {
	uc := newTestUseCase(
		&mockAppointmentRepo{},
		&mockAvailabilityRepo{rules: []*domain.AvailabilityRule{rule("09:00", "12:00")}},
		&mockProfileClient{profile: profile(60)},
	)

	resp, err := uc.Execute(context.Background(), &Request{PsychologistID: 10, Date: monday})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 3)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[0].EndTime)
	assert.Equal(t, types.TimeString("11:00"), resp.Slots[2].StartTime)
	for _, slot := range resp.Slots {
		assert.True(t, slot.IsAvailable)
	}
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestExecute_PartialSlotDoesNotFit(t *testing.T) {
	// Окно 09:00-10:30 при 60-минутных сессиях вмещает только один слот
	uc := newTestUseCase(
		&mockAppointmentRepo{},
		&mockAvailabilityRepo{rules: []*domain.AvailabilityRule{rule("09:00", "10:30")}},
		&mockProfileClient{profile: profile(60)},
	)

	resp, err := uc.Execute(context.Background(), &Request{PsychologistID: 10, Date: monday})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
}

func TestExecute_MarksOverlappingSlotsUnavailable(t *testing.T) {
	booked := &domain.Appointment{
		Status:    domain.StatusConfirmed,
		StartTime: types.TimeString("10:00"),
		EndTime:   types.TimeString("11:00"),
	}
	cancelled := &domain.Appointment{
		Status:    domain.StatusCancelled,
		StartTime: types.TimeString("09:00"),
		EndTime:   types.TimeString("10:00"),
	}

	uc := newTestUseCase(
		&mockAppointmentRepo{appointments: []*domain.Appointment{booked, cancelled}},
		&mockAvailabilityRepo{rules: []*domain.AvailabilityRule{rule("09:00", "12:00")}},
		&mockProfileClient{profile: profile(60)},
	)

	resp, err := uc.Execute(context.Background(), &Request{PsychologistID: 10, Date: monday})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)

	// Отменённый приём слот не занимает
	assert.True(t, resp.Slots[0].IsAvailable)
	assert.False(t, resp.Slots[1].IsAvailable)
	assert.True(t, resp.Slots[2].IsAvailable)
}

func TestExecute_SplitShifts(t *testing.T) {
	morning := rule("09:00", "11:00")
	evening := rule("14:00", "16:00")
	evening.ID = 2

	uc := newTestUseCase(
		&mockAppointmentRepo{},
		&mockAvailabilityRepo{rules: []*domain.AvailabilityRule{morning, evening}},
		&mockProfileClient{profile: profile(60)},
	)

	resp, err := uc.Execute(context.Background(), &Request{PsychologistID: 10, Date: monday})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 4)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[1].StartTime)
	assert.Equal(t, types.TimeString("14:00"), resp.Slots[2].StartTime)
	assert.Equal(t, types.TimeString("15:00"), resp.Slots[3].StartTime)
}

func TestExecute_BlockedDate(t *testing.T) {
	blocked := rule("09:00", "12:00")
	blocked.BlockedDates = []string{"2026-09-14"}

	uc := newTestUseCase(
		&mockAppointmentRepo{},
		&mockAvailabilityRepo{rules: []*domain.AvailabilityRule{blocked}},
		&mockProfileClient{profile: profile(60)},
	)

	resp, err := uc.Execute(context.Background(), &Request{PsychologistID: 10, Date: monday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_PastDateReturnsEmpty(t *testing.T) {
	uc := newTestUseCase(
		&mockAppointmentRepo{},
		&mockAvailabilityRepo{rules: []*domain.AvailabilityRule{rule("09:00", "12:00")}},
		&mockProfileClient{profile: profile(60)},
	)
	uc.timeProvider = &fixedTimeProvider{now: monday.AddDate(0, 0, 7)}

	resp, err := uc.Execute(context.Background(), &Request{PsychologistID: 10, Date: monday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_NoRulesReturnsEmpty(t *testing.T) {
	uc := newTestUseCase(
		&mockAppointmentRepo{},
		&mockAvailabilityRepo{},
		&mockProfileClient{profile: profile(60)},
	)

	resp, err := uc.Execute(context.Background(), &Request{PsychologistID: 10, Date: monday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_NoProfileUsesDefaultDuration(t *testing.T) {
	uc := newTestUseCase(
		&mockAppointmentRepo{},
		&mockAvailabilityRepo{rules: []*domain.AvailabilityRule{rule("09:00", "11:00")}},
		&mockProfileClient{err: profileservice.ErrProfileNotFound},
	)

	resp, err := uc.Execute(context.Background(), &Request{PsychologistID: 10, Date: monday})
	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Len(t, resp.Slots, 2)
}

func TestExecute_CustomProfileDuration(t *testing.T) {
	uc := newTestUseCase(
		&mockAppointmentRepo{},
		&mockAvailabilityRepo{rules: []*domain.AvailabilityRule{rule("09:00", "11:00")}},
		&mockProfileClient{profile: profile(30)},
	)

	resp, err := uc.Execute(context.Background(), &Request{PsychologistID: 10, Date: monday})
	require.NoError(t, err)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Len(t, resp.Slots, 4)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&mockAppointmentRepo{}, &mockAvailabilityRepo{}, &mockProfileClient{})

	_, err := uc.Execute(context.Background(), &Request{PsychologistID: 0, Date: monday})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{PsychologistID: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
