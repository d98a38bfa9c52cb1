// Package emi derives repayment-progress dashboards from EMI plans and
// their payment history.
package emi

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"loan-management-platform/internal/models"
	"loan-management-platform/internal/services/database"
	"loan-management-platform/internal/utils"
)

// Calculator computes dashboard snapshots. It is a pure function of the
// plan, the payment list, and the supplied clock reading; no state, no I/O.
type Calculator struct{}

// NewCalculator creates a new EMI progress calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// ComputeDashboard builds the progress snapshot for one plan. Payments
// are filtered to successful ones here regardless of what the caller
// passed in, so the contract does not depend on pre-filtering. The same
// `now` must be used for the whole invocation; due-date and overdue math
// would disagree otherwise.
//
// Pending amount and remaining installments are intentionally not clamped:
// an overpaid plan reports a negative pending amount, and a plan with more
// payments than scheduled installments reports negative EMIs remaining.
func (c *Calculator) ComputeDashboard(plan *models.EMIPlan, payments []*models.PaymentTransaction, now time.Time) (*models.EMIDashboardSnapshot, error) {
	if err := models.ValidateEMIPlan(plan); err != nil {
		return nil, err
	}

	var totalPaid float64
	emisPaid := 0
	for _, p := range payments {
		if p.Status != models.PaymentStatusSuccess {
			continue
		}
		totalPaid += p.Amount
		emisPaid++
	}

	pendingAmount := plan.TotalRepaymentAmount - totalPaid

	// Interest is recovered first; principal absorbs the rest.
	interestPaid := totalPaid
	if plan.TotalInterestPaid < interestPaid {
		interestPaid = plan.TotalInterestPaid
	}
	principalPaid := totalPaid - interestPaid

	emisRemaining := plan.TermMonths - emisPaid

	// Calendar-month projection from the origination date, not a fixed
	// 30-day increment.
	nextDueDate := plan.OriginationDate.AddDate(0, emisPaid+1, 0)

	isOverdue := nextDueDate.Before(now) && pendingAmount > 0
	daysOverdue := 0
	if isOverdue {
		daysOverdue = int(now.Sub(nextDueDate).Hours() / 24)
	}

	return &models.EMIDashboardSnapshot{
		EMIID:           plan.EMIID,
		LoanAccountID:   plan.LoanAccountID,
		TotalLoanAmount: plan.PrincipalAmount,
		MonthlyEMI:      plan.MonthlyEMI,
		PendingAmount:   pendingAmount,
		TotalInterest:   plan.TotalInterestPaid,
		InterestPaid:    interestPaid,
		PrincipalPaid:   principalPaid,
		CurrentMonthEMI: plan.MonthlyEMI,
		NextDueDate:     nextDueDate,
		EMIsPaid:        emisPaid,
		EMIsRemaining:   emisRemaining,
		Status:          string(plan.Status),
		IsOverdue:       isOverdue,
		DaysOverdue:     daysOverdue,
	}, nil
}

// ComputeAllDashboards applies ComputeDashboard to each plan in input
// order. paymentsByPlan is keyed by EMI id; plans with no entry get an
// empty history.
func (c *Calculator) ComputeAllDashboards(plans []*models.EMIPlan, paymentsByPlan map[int64][]*models.PaymentTransaction, now time.Time) ([]*models.EMIDashboardSnapshot, error) {
	snapshots := make([]*models.EMIDashboardSnapshot, 0, len(plans))

	for _, plan := range plans {
		snapshot, err := c.ComputeDashboard(plan, paymentsByPlan[plan.EMIID], now)
		if err != nil {
			return nil, fmt.Errorf("plan %d: %w", plan.EMIID, err)
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}

// Service resolves plans and payment histories from the store and runs
// the calculator on them.
type Service struct {
	calculator *Calculator
	planRepo   *database.EMIPlanRepository
}

// NewService creates a new EMI dashboard service.
func NewService(planRepo *database.EMIPlanRepository) *Service {
	return &Service{
		calculator: NewCalculator(),
		planRepo:   planRepo,
	}
}

// Calculator exposes the underlying pure calculator.
func (s *Service) Calculator() *Calculator {
	return s.calculator
}

// GetDashboard computes the snapshot for the customer's single active,
// non-completed plan. Returns models.ErrEMIPlanNotFound when no such
// plan exists.
func (s *Service) GetDashboard(ctx context.Context, customerID int64) (*models.EMIDashboardSnapshot, error) {
	plan, err := s.planRepo.GetActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get EMI plan: %w", err)
	}
	if plan == nil {
		return nil, models.ErrEMIPlanNotFound
	}

	payments, err := s.planRepo.GetSuccessfulPayments(ctx, plan.EMIID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	now := time.Now().UTC()
	snapshot, err := s.calculator.ComputeDashboard(plan, payments, now)
	if err != nil {
		return nil, err
	}

	utils.Logger.Info("Computed EMI dashboard",
		zap.Int64("customer_id", customerID),
		zap.Int64("emi_id", plan.EMIID),
		zap.Int("emis_paid", snapshot.EMIsPaid),
		zap.Bool("is_overdue", snapshot.IsOverdue),
	)

	return snapshot, nil
}

// GetAllDashboards computes snapshots for every plan of the customer,
// regardless of status, in the order the store returns them.
func (s *Service) GetAllDashboards(ctx context.Context, customerID int64) ([]*models.EMIDashboardSnapshot, error) {
	plans, err := s.planRepo.GetAllByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get EMI plans: %w", err)
	}

	paymentsByPlan := make(map[int64][]*models.PaymentTransaction, len(plans))
	for _, plan := range plans {
		payments, err := s.planRepo.GetSuccessfulPayments(ctx, plan.EMIID)
		if err != nil {
			return nil, fmt.Errorf("failed to get payments for plan %d: %w", plan.EMIID, err)
		}
		paymentsByPlan[plan.EMIID] = payments
	}

	now := time.Now().UTC()
	return s.calculator.ComputeAllDashboards(plans, paymentsByPlan, now)
}
