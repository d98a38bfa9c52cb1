// Package database provides Postgres persistence for the loan management platform.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"loan-management-platform/internal/models"
)

// EMIPlanRepository handles EMI plan and payment database operations.
type EMIPlanRepository struct {
	db *DB
}

// NewEMIPlanRepository creates a new EMI plan repository.
func NewEMIPlanRepository(db *DB) *EMIPlanRepository {
	return &EMIPlanRepository{db: db}
}

const emiPlanColumns = `emi_id, loan_account_id, customer_id, principal_amount, monthly_emi,
	total_repayment_amount, total_interest_paid, term_months, status, is_completed,
	origination_date, created_at, updated_at`

// Create inserts a new EMI plan.
func (r *EMIPlanRepository) Create(ctx context.Context, plan *models.EMIPlan) (int64, error) {
	query := `
		INSERT INTO emi_plans (loan_account_id, customer_id, principal_amount, monthly_emi,
			total_repayment_amount, total_interest_paid, term_months, status, is_completed,
			origination_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING emi_id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		plan.LoanAccountID,
		plan.CustomerID,
		plan.PrincipalAmount,
		plan.MonthlyEMI,
		plan.TotalRepaymentAmount,
		plan.TotalInterestPaid,
		plan.TermMonths,
		string(plan.Status),
		plan.IsCompleted,
		plan.OriginationDate,
		time.Now().UTC(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create EMI plan: %w", err)
	}

	return id, nil
}

// GetActiveByCustomer retrieves the customer's single active,
// non-completed plan. Returns (nil, nil) when no such plan exists.
func (r *EMIPlanRepository) GetActiveByCustomer(ctx context.Context, customerID int64) (*models.EMIPlan, error) {
	query := `
		SELECT ` + emiPlanColumns + `
		FROM emi_plans
		WHERE customer_id = $1 AND status = $2 AND is_completed = false
		ORDER BY emi_id
		LIMIT 1`

	plan, err := scanEMIPlan(r.db.QueryRowContext(ctx, query, customerID, string(models.EMIPlanStatusActive)))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get EMI plan: %w", err)
	}

	return plan, nil
}

// GetAllByCustomer retrieves every plan of the customer regardless of status.
func (r *EMIPlanRepository) GetAllByCustomer(ctx context.Context, customerID int64) ([]*models.EMIPlan, error) {
	query := `
		SELECT ` + emiPlanColumns + `
		FROM emi_plans
		WHERE customer_id = $1
		ORDER BY emi_id`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query EMI plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.EMIPlan
	for rows.Next() {
		plan, err := scanEMIPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan EMI plan: %w", err)
		}
		plans = append(plans, plan)
	}

	return plans, nil
}

// GetSuccessfulPayments retrieves the successful payment transactions of
// a plan in payment order.
func (r *EMIPlanRepository) GetSuccessfulPayments(ctx context.Context, emiID int64) ([]*models.PaymentTransaction, error) {
	query := `
		SELECT id, emi_id, amount, status, paid_at, created_at
		FROM payment_transactions
		WHERE emi_id = $1 AND status = $2
		ORDER BY paid_at, id`

	rows, err := r.db.QueryContext(ctx, query, emiID, string(models.PaymentStatusSuccess))
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.PaymentTransaction
	for rows.Next() {
		var payment models.PaymentTransaction
		var status string

		err := rows.Scan(
			&payment.ID,
			&payment.EMIID,
			&payment.Amount,
			&status,
			&payment.PaidAt,
			&payment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}

		payment.Status = models.PaymentStatus(status)
		payments = append(payments, &payment)
	}

	return payments, nil
}

// RecordPayment inserts a payment transaction against a plan.
func (r *EMIPlanRepository) RecordPayment(ctx context.Context, payment *models.PaymentTransaction) (int64, error) {
	query := `
		INSERT INTO payment_transactions (emi_id, amount, status, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		payment.EMIID,
		payment.Amount,
		string(payment.Status),
		payment.PaidAt,
		time.Now().UTC(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to record payment: %w", err)
	}

	return id, nil
}

// MarkCompleted flags a plan as fully repaid.
func (r *EMIPlanRepository) MarkCompleted(ctx context.Context, emiID int64) error {
	affected, err := r.db.ExecContext(ctx, `
		UPDATE emi_plans
		SET status = $2, is_completed = true, updated_at = $3
		WHERE emi_id = $1`,
		emiID, string(models.EMIPlanStatusCompleted), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to mark plan completed: %w", err)
	}
	if affected == 0 {
		return models.ErrEMIPlanNotFound
	}

	return nil
}

// GetAllActive retrieves every active, non-completed plan across
// customers. Used by the overdue reminder sweep.
func (r *EMIPlanRepository) GetAllActive(ctx context.Context) ([]*models.EMIPlan, error) {
	query := `
		SELECT ` + emiPlanColumns + `
		FROM emi_plans
		WHERE status = $1 AND is_completed = false
		ORDER BY emi_id`

	rows, err := r.db.QueryContext(ctx, query, string(models.EMIPlanStatusActive))
	if err != nil {
		return nil, fmt.Errorf("failed to query EMI plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.EMIPlan
	for rows.Next() {
		plan, err := scanEMIPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan EMI plan: %w", err)
		}
		plans = append(plans, plan)
	}

	return plans, nil
}

func scanEMIPlan(row pgx.Row) (*models.EMIPlan, error) {
	var plan models.EMIPlan
	var status string

	err := row.Scan(
		&plan.EMIID,
		&plan.LoanAccountID,
		&plan.CustomerID,
		&plan.PrincipalAmount,
		&plan.MonthlyEMI,
		&plan.TotalRepaymentAmount,
		&plan.TotalInterestPaid,
		&plan.TermMonths,
		&status,
		&plan.IsCompleted,
		&plan.OriginationDate,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	plan.Status = models.EMIPlanStatus(status)
	return &plan, nil
}
