// Package emi_test contains tests for the EMI progress calculator
package emi_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-management-platform/internal/models"
	"loan-management-platform/internal/services/emi"
)

// mockPlan creates a test EMI plan with default values
func mockPlan(overrides map[string]interface{}) *models.EMIPlan {
	plan := &models.EMIPlan{
		EMIID:                1,
		LoanAccountID:        100,
		CustomerID:           1,
		PrincipalAmount:      100000,
		MonthlyEMI:           10000,
		TotalRepaymentAmount: 120000,
		TotalInterestPaid:    20000,
		TermMonths:           12,
		Status:               models.EMIPlanStatusActive,
		OriginationDate:      time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	if v, ok := overrides["term_months"]; ok {
		plan.TermMonths = v.(int)
	}
	if v, ok := overrides["total_repayment_amount"]; ok {
		plan.TotalRepaymentAmount = v.(float64)
	}
	if v, ok := overrides["total_interest_paid"]; ok {
		plan.TotalInterestPaid = v.(float64)
	}
	if v, ok := overrides["principal_amount"]; ok {
		plan.PrincipalAmount = v.(float64)
	}
	if v, ok := overrides["origination_date"]; ok {
		plan.OriginationDate = v.(time.Time)
	}
	if v, ok := overrides["status"]; ok {
		plan.Status = v.(models.EMIPlanStatus)
	}

	return plan
}

// successPayments builds n successful payments of the given amount
func successPayments(n int, amount float64) []*models.PaymentTransaction {
	payments := make([]*models.PaymentTransaction, n)
	for i := range payments {
		payments[i] = &models.PaymentTransaction{
			ID:     int64(i + 1),
			EMIID:  1,
			Amount: amount,
			Status: models.PaymentStatusSuccess,
		}
	}
	return payments
}

func TestComputeDashboardProgress(t *testing.T) {
	calc := emi.NewCalculator()
	plan := mockPlan(nil)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	snapshot, err := calc.ComputeDashboard(plan, successPayments(3, 10000), now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), snapshot.EMIID)
	assert.Equal(t, int64(100), snapshot.LoanAccountID)
	assert.Equal(t, 100000.0, snapshot.TotalLoanAmount)
	assert.Equal(t, 90000.0, snapshot.PendingAmount)
	assert.Equal(t, 20000.0, snapshot.InterestPaid)
	assert.Equal(t, 10000.0, snapshot.PrincipalPaid)
	assert.Equal(t, 3, snapshot.EMIsPaid)
	assert.Equal(t, 9, snapshot.EMIsRemaining)
	assert.Equal(t, 10000.0, snapshot.MonthlyEMI)
	assert.Equal(t, 10000.0, snapshot.CurrentMonthEMI)
	assert.Equal(t, string(models.EMIPlanStatusActive), snapshot.Status)
}

func TestComputeDashboardInterestRecoveredFirst(t *testing.T) {
	calc := emi.NewCalculator()
	plan := mockPlan(nil)
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	// One payment below the total interest: everything counts as interest.
	snapshot, err := calc.ComputeDashboard(plan, successPayments(1, 10000), now)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, snapshot.InterestPaid)
	assert.Equal(t, 0.0, snapshot.PrincipalPaid)

	// Past the interest total, the remainder goes to principal.
	snapshot, err = calc.ComputeDashboard(plan, successPayments(5, 10000), now)
	require.NoError(t, err)
	assert.Equal(t, 20000.0, snapshot.InterestPaid)
	assert.Equal(t, 30000.0, snapshot.PrincipalPaid)
}

func TestComputeDashboardNoPayments(t *testing.T) {
	calc := emi.NewCalculator()
	plan := mockPlan(nil)
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	snapshot, err := calc.ComputeDashboard(plan, nil, now)
	require.NoError(t, err)

	assert.Equal(t, 0, snapshot.EMIsPaid)
	assert.Equal(t, 12, snapshot.EMIsRemaining)
	assert.Equal(t, plan.TotalRepaymentAmount, snapshot.PendingAmount)
	assert.Equal(t, 0.0, snapshot.InterestPaid)
	assert.Equal(t, 0.0, snapshot.PrincipalPaid)
	// First installment is due one month after origination.
	assert.Equal(t, plan.OriginationDate.AddDate(0, 1, 0), snapshot.NextDueDate)
}

func TestComputeDashboardFiltersNonSuccessfulPayments(t *testing.T) {
	calc := emi.NewCalculator()
	plan := mockPlan(nil)
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	payments := []*models.PaymentTransaction{
		{EMIID: 1, Amount: 10000, Status: models.PaymentStatusSuccess},
		{EMIID: 1, Amount: 10000, Status: models.PaymentStatusFailed},
		{EMIID: 1, Amount: 10000, Status: models.PaymentStatusPending},
		{EMIID: 1, Amount: 10000, Status: models.PaymentStatusSuccess},
	}

	snapshot, err := calc.ComputeDashboard(plan, payments, now)
	require.NoError(t, err)

	assert.Equal(t, 2, snapshot.EMIsPaid)
	assert.Equal(t, 100000.0, snapshot.PendingAmount)
}

func TestComputeDashboardDueDateProjection(t *testing.T) {
	calc := emi.NewCalculator()
	origination := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	plan := mockPlan(map[string]interface{}{"origination_date": origination})
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	// Calendar-month addition, not 30-day steps: three payments project
	// Jan 31 + 4 months.
	snapshot, err := calc.ComputeDashboard(plan, successPayments(3, 10000), now)
	require.NoError(t, err)
	assert.Equal(t, origination.AddDate(0, 4, 0), snapshot.NextDueDate)
}

func TestComputeDashboardOverdue(t *testing.T) {
	calc := emi.NewCalculator()
	origination := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	plan := mockPlan(map[string]interface{}{"origination_date": origination})

	// Three payments put the next due date at May 15; ten days later the
	// plan is overdue with money still pending.
	now := time.Date(2026, 5, 25, 0, 0, 0, 0, time.UTC)
	snapshot, err := calc.ComputeDashboard(plan, successPayments(3, 10000), now)
	require.NoError(t, err)

	assert.True(t, snapshot.IsOverdue)
	assert.Equal(t, 10, snapshot.DaysOverdue)
}

func TestComputeDashboardNotOverdueBeforeDueDate(t *testing.T) {
	calc := emi.NewCalculator()
	plan := mockPlan(nil)

	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	snapshot, err := calc.ComputeDashboard(plan, successPayments(1, 10000), now)
	require.NoError(t, err)

	assert.False(t, snapshot.IsOverdue)
	assert.Equal(t, 0, snapshot.DaysOverdue)
}

func TestComputeDashboardFullyPaidIsNeverOverdue(t *testing.T) {
	calc := emi.NewCalculator()
	plan := mockPlan(nil)

	// All twelve installments paid; even long past the projected due
	// date nothing is pending, so the plan is not overdue.
	now := time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC)
	snapshot, err := calc.ComputeDashboard(plan, successPayments(12, 10000), now)
	require.NoError(t, err)

	assert.Equal(t, 0.0, snapshot.PendingAmount)
	assert.False(t, snapshot.IsOverdue)
	assert.Equal(t, 0, snapshot.DaysOverdue)
}

func TestComputeDashboardOverpaymentIsNotClamped(t *testing.T) {
	calc := emi.NewCalculator()
	plan := mockPlan(nil)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	// Fourteen payments against a twelve-month term.
	snapshot, err := calc.ComputeDashboard(plan, successPayments(14, 10000), now)
	require.NoError(t, err)

	assert.Equal(t, -20000.0, snapshot.PendingAmount)
	assert.Equal(t, -2, snapshot.EMIsRemaining)
	assert.False(t, snapshot.IsOverdue)
}

func TestComputeDashboardRejectsInvalidPlans(t *testing.T) {
	calc := emi.NewCalculator()
	now := time.Now().UTC()

	tests := []struct {
		name      string
		overrides map[string]interface{}
	}{
		{"zero term", map[string]interface{}{"term_months": 0}},
		{"negative term", map[string]interface{}{"term_months": -3}},
		{"negative repayment", map[string]interface{}{"total_repayment_amount": -1.0}},
		{"negative interest", map[string]interface{}{"total_interest_paid": -1.0}},
		{"negative principal", map[string]interface{}{"principal_amount": -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.ComputeDashboard(mockPlan(tt.overrides), nil, now)
			assert.ErrorIs(t, err, models.ErrInvalidEMIPlan)
		})
	}
}

func TestComputeDashboardDoesNotMutateInputs(t *testing.T) {
	calc := emi.NewCalculator()
	plan := mockPlan(nil)
	planSnapshot := *plan
	payments := successPayments(3, 10000)
	first := *payments[0]

	_, err := calc.ComputeDashboard(plan, payments, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, planSnapshot, *plan)
	assert.Equal(t, first, *payments[0])
}

func TestComputeAllDashboardsPreservesOrder(t *testing.T) {
	calc := emi.NewCalculator()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	planA := mockPlan(nil)
	planB := mockPlan(map[string]interface{}{"status": models.EMIPlanStatusCompleted})
	planB.EMIID = 2
	planC := mockPlan(nil)
	planC.EMIID = 3

	paymentsByPlan := map[int64][]*models.PaymentTransaction{
		1: successPayments(3, 10000),
		3: successPayments(1, 10000),
	}

	snapshots, err := calc.ComputeAllDashboards([]*models.EMIPlan{planA, planB, planC}, paymentsByPlan, now)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)

	assert.Equal(t, int64(1), snapshots[0].EMIID)
	assert.Equal(t, int64(2), snapshots[1].EMIID)
	assert.Equal(t, int64(3), snapshots[2].EMIID)

	assert.Equal(t, 3, snapshots[0].EMIsPaid)
	assert.Equal(t, 0, snapshots[1].EMIsPaid)
	assert.Equal(t, 1, snapshots[2].EMIsPaid)
	assert.Equal(t, string(models.EMIPlanStatusCompleted), snapshots[1].Status)
}

func TestComputeAllDashboardsSurfacesInvalidPlan(t *testing.T) {
	calc := emi.NewCalculator()
	now := time.Now().UTC()

	plans := []*models.EMIPlan{
		mockPlan(nil),
		mockPlan(map[string]interface{}{"term_months": 0}),
	}

	_, err := calc.ComputeAllDashboards(plans, nil, now)
	assert.ErrorIs(t, err, models.ErrInvalidEMIPlan)
}
