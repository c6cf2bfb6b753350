package entitlements

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psicoadmin/PSA-AppointmentService/internal/domain"
	planRepo "github.com/psicoadmin/PSA-AppointmentService/internal/infra/storage/plan"
)

// Mock implementations

type mockPlanRepo struct {
	plan      *domain.PatientPlan
	getErr    error
	debitErr  error
	refundErr error
	debits    int
	refunds   int
}

func (m *mockPlanRepo) GetByID(ctx context.Context, id int64) (*domain.PatientPlan, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p := *m.plan
	return &p, nil
}

func (m *mockPlanRepo) GetActiveByPatient(ctx context.Context, patientID int64) ([]*domain.PatientPlan, error) {
	return []*domain.PatientPlan{m.plan}, nil
}

func (m *mockPlanRepo) DebitSession(ctx context.Context, id int64) error {
	if m.debitErr != nil {
		return m.debitErr
	}
	m.debits++
	return nil
}

func (m *mockPlanRepo) RefundSession(ctx context.Context, id int64) error {
	if m.refundErr != nil {
		return m.refundErr
	}
	m.refunds++
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func activePlan() *domain.PatientPlan {
	return &domain.PatientPlan{
		ID:             7,
		PatientID:      1,
		PsychologistID: 10,
		PlanTitle:      "Пакет 10 сессий",
		TotalSessions:  10,
		SessionsUsed:   3,
		IsActive:       true,
		PurchasedAt:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSelectPlan_Valid(t *testing.T) {
	svc := NewService(&mockPlanRepo{plan: activePlan()}, nopLogger{})

	p, err := svc.SelectPlan(context.Background(), 1, 7, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, 7, p.SessionsRemaining())
}

func TestSelectPlan_NotFound(t *testing.T) {
	svc := NewService(&mockPlanRepo{getErr: planRepo.ErrPlanNotFound}, nopLogger{})

	_, err := svc.SelectPlan(context.Background(), 1, 7, 10)
	assert.ErrorIs(t, err, ErrPlanInvalid)
}

func TestSelectPlan_WrongPatient(t *testing.T) {
	svc := NewService(&mockPlanRepo{plan: activePlan()}, nopLogger{})

	_, err := svc.SelectPlan(context.Background(), 2, 7, 10)
	assert.ErrorIs(t, err, ErrPlanInvalid)
}

func TestSelectPlan_Inactive(t *testing.T) {
	inactive := activePlan()
	inactive.IsActive = false
	svc := NewService(&mockPlanRepo{plan: inactive}, nopLogger{})

	_, err := svc.SelectPlan(context.Background(), 1, 7, 10)
	assert.ErrorIs(t, err, ErrPlanInvalid)
}

func TestSelectPlan_WrongProfessional(t *testing.T) {
	svc := NewService(&mockPlanRepo{plan: activePlan()}, nopLogger{})

	_, err := svc.SelectPlan(context.Background(), 1, 7, 99)
	assert.ErrorIs(t, err, ErrPlanWrongProfessional)
}

func TestSelectPlan_Exhausted(t *testing.T) {
	exhausted := activePlan()
	exhausted.SessionsUsed = exhausted.TotalSessions
	svc := NewService(&mockPlanRepo{plan: exhausted}, nopLogger{})

	_, err := svc.SelectPlan(context.Background(), 1, 7, 10)
	assert.ErrorIs(t, err, ErrPlanExhausted)
}

func TestApplyUsage(t *testing.T) {
	repo := &mockPlanRepo{plan: activePlan()}
	svc := NewService(repo, nopLogger{})

	require.NoError(t, svc.ApplyUsage(context.Background(), 7))
	assert.Equal(t, 1, repo.debits)
}

func TestApplyUsage_ConcurrentExhaustion(t *testing.T) {
	repo := &mockPlanRepo{plan: activePlan(), debitErr: planRepo.ErrNoSessionsLeft}
	svc := NewService(repo, nopLogger{})

	err := svc.ApplyUsage(context.Background(), 7)
	assert.ErrorIs(t, err, ErrPlanExhausted)
}

func TestRefundUsage(t *testing.T) {
	repo := &mockPlanRepo{plan: activePlan()}
	svc := NewService(repo, nopLogger{})

	require.NoError(t, svc.RefundUsage(context.Background(), 7))
	assert.Equal(t, 1, repo.refunds)
}

func TestRefundUsage_NothingToRefundIsNotAnError(t *testing.T) {
	repo := &mockPlanRepo{plan: activePlan(), refundErr: planRepo.ErrNothingToRefund}
	svc := NewService(repo, nopLogger{})

	assert.NoError(t, svc.RefundUsage(context.Background(), 7))
}
