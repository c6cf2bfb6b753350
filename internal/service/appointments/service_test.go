package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	appointmentRepo "github.com/psicoadmin/PSA-AppointmentService/internal/infra/storage/appointment"
	"github.com/psicoadmin/PSA-AppointmentService/pkg/ptr"
)

// Mock implementations

type mockAppointmentRepo struct {
	byID          *domain.Appointment
	byIDSeq       []*domain.Appointment
	getCalls      int
	getErr        error
	updatedStatus *domain.AppointmentStatus
	markPaidCalls int
	cancelCalls   int
	cancelReason  string
	detailsNotes  *string
	detailsLink   *string
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	src := m.byID
	// byIDSeq имитирует состояние строки, видимое каждым следующим чтением
	if len(m.byIDSeq) > 0 {
		i := m.getCalls
		if i >= len(m.byIDSeq) {
			i = len(m.byIDSeq) - 1
		}
		src = m.byIDSeq[i]
	}
	m.getCalls++
	appt := *src
	return &appt, nil
}

func (m *mockAppointmentRepo) GetByPatientID(ctx context.Context, patientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	return []*domain.Appointment{m.byID}, nil
}

func (m *mockAppointmentRepo) GetByPsychologistWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	return []*domain.Appointment{m.byID}, nil
}

func (m *mockAppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	m.updatedStatus = &status
	return nil
}

func (m *mockAppointmentRepo) MarkPaid(ctx context.Context, id int64) error {
	m.markPaidCalls++
	return nil
}

func (m *mockAppointmentRepo) UpdateDetails(ctx context.Context, id int64, notes, meetingLink *string) error {
	m.detailsNotes = notes
	m.detailsLink = meetingLink
	return nil
}

func (m *mockAppointmentRepo) Cancel(ctx context.Context, id int64, reason string) error {
	m.cancelCalls++
	m.cancelReason = reason
	return nil
}

type mockEntitlements struct {
	refundCalls  int
	refundedPlan int64
}

func (m *mockEntitlements) RefundUsage(ctx context.Context, planID int64) error {
	m.refundCalls++
	m.refundedPlan = planID
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func pendingAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              42,
		PatientID:       1,
		PsychologistID:  10,
		AppointmentDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		Status:          domain.StatusPending,
		ConsultationFee: 1500,
	}
}

func newTestService(repo *mockAppointmentRepo, ledger *mockEntitlements) *Service {
	return NewService(repo, ledger, fakeTxManager{}, nopLogger{})
}

func TestUpdateStatus_AllowedTransition(t *testing.T) {
	repo := &mockAppointmentRepo{byID: pendingAppointment()}
	svc := newTestService(repo, &mockEntitlements{})

	appt, err := svc.UpdateStatus(context.Background(), 42, domain.StatusConfirmed)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, appt.Status)
	require.NotNil(t, repo.updatedStatus)
	assert.Equal(t, domain.StatusConfirmed, *repo.updatedStatus)
}

func TestUpdateStatus_RejectedTransition(t *testing.T) {
	completed := pendingAppointment()
	completed.Status = domain.StatusCompleted

	repo := &mockAppointmentRepo{byID: completed}
	svc := newTestService(repo, &mockEntitlements{})

	_, err := svc.UpdateStatus(context.Background(), 42, domain.StatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Nil(t, repo.updatedStatus)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo := &mockAppointmentRepo{getErr: appointmentRepo.ErrAppointmentNotFound}
	svc := newTestService(repo, &mockEntitlements{})

	_, err := svc.UpdateStatus(context.Background(), 42, domain.StatusConfirmed)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestConfirmPayment(t *testing.T) {
	repo := &mockAppointmentRepo{byID: pendingAppointment()}
	svc := newTestService(repo, &mockEntitlements{})

	appt, err := svc.ConfirmPayment(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, appt.Status)
	assert.True(t, appt.IsPaid)
	assert.Equal(t, 1, repo.markPaidCalls)
}

func TestConfirmPayment_AlreadyPaid(t *testing.T) {
	paid := pendingAppointment()
	paid.IsPaid = true

	repo := &mockAppointmentRepo{byID: paid}
	svc := newTestService(repo, &mockEntitlements{})

	_, err := svc.ConfirmPayment(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotAwaitingPayment)
	assert.Equal(t, 0, repo.markPaidCalls)
}

func TestConfirmPayment_NotPending(t *testing.T) {
	cancelled := pendingAppointment()
	cancelled.Status = domain.StatusCancelled

	repo := &mockAppointmentRepo{byID: cancelled}
	svc := newTestService(repo, &mockEntitlements{})

	_, err := svc.ConfirmPayment(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotAwaitingPayment)
}

func TestCancel_ExternalPayment(t *testing.T) {
	repo := &mockAppointmentRepo{byID: pendingAppointment()}
	ledger := &mockEntitlements{}
	svc := newTestService(repo, ledger)

	appt, err := svc.Cancel(context.Background(), 42, "пациент заболел")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, appt.Status)
	assert.Equal(t, 1, repo.cancelCalls)
	assert.Equal(t, "пациент заболел", repo.cancelReason)
	// Приём без плана сессию не возвращает
	assert.Equal(t, 0, ledger.refundCalls)
}

func TestCancel_PlanBackedRefundsSession(t *testing.T) {
	planBacked := pendingAppointment()
	planBacked.Status = domain.StatusConfirmed
	planBacked.IsPaid = true
	planBacked.PatientPlanID = ptr.Ptr(int64(7))

	repo := &mockAppointmentRepo{byID: planBacked}
	ledger := &mockEntitlements{}
	svc := newTestService(repo, ledger)

	_, err := svc.Cancel(context.Background(), 42, "перенос на другой месяц")
	require.NoError(t, err)

	assert.Equal(t, 1, ledger.refundCalls)
	assert.Equal(t, int64(7), ledger.refundedPlan)
}

// Строка приёма блокируется FOR UPDATE внутри транзакции, поэтому повторная
// отмена читает уже отменённый приём и сессию второй раз не возвращает.
func TestCancel_RepeatedCancelRefundsOnce(t *testing.T) {
	planBacked := pendingAppointment()
	planBacked.Status = domain.StatusConfirmed
	planBacked.IsPaid = true
	planBacked.PatientPlanID = ptr.Ptr(int64(7))

	cancelled := *planBacked
	cancelled.Status = domain.StatusCancelled

	repo := &mockAppointmentRepo{byIDSeq: []*domain.Appointment{planBacked, &cancelled}}
	ledger := &mockEntitlements{}
	svc := newTestService(repo, ledger)

	_, err := svc.Cancel(context.Background(), 42, "первая отмена")
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), 42, "повторная отмена")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.Equal(t, 1, repo.cancelCalls)
	assert.Equal(t, 1, ledger.refundCalls)
}

func TestCancel_TerminalStatus(t *testing.T) {
	completed := pendingAppointment()
	completed.Status = domain.StatusCompleted

	repo := &mockAppointmentRepo{byID: completed}
	svc := newTestService(repo, &mockEntitlements{})

	_, err := svc.Cancel(context.Background(), 42, "поздно")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 0, repo.cancelCalls)
}

func TestUpdateDetails(t *testing.T) {
	repo := &mockAppointmentRepo{byID: pendingAppointment()}
	svc := newTestService(repo, &mockEntitlements{})

	notes := "ссылка отправлена"
	link := "https://meet.example.com/abc"

	_, err := svc.UpdateDetails(context.Background(), 42, &notes, &link)
	require.NoError(t, err)

	require.NotNil(t, repo.detailsNotes)
	assert.Equal(t, notes, *repo.detailsNotes)
	require.NotNil(t, repo.detailsLink)
	assert.Equal(t, link, *repo.detailsLink)
}
