// Package models defines the data structures for the loan management platform.
package models

import (
	"time"
)

// EMIPlanStatus represents the lifecycle state of an EMI plan.
type EMIPlanStatus string

const (
	EMIPlanStatusActive    EMIPlanStatus = "active"
	EMIPlanStatusCompleted EMIPlanStatus = "completed"
	EMIPlanStatusDefaulted EMIPlanStatus = "defaulted"
)

// PaymentStatus represents the outcome of a payment transaction.
type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusPending PaymentStatus = "pending"
)

// EMIPlan represents the repayment schedule of a disbursed loan.
type EMIPlan struct {
	EMIID                int64         `json:"emi_id" db:"emi_id"`
	LoanAccountID        int64         `json:"loan_account_id" db:"loan_account_id"`
	CustomerID           int64         `json:"customer_id" db:"customer_id"`
	PrincipalAmount      float64       `json:"principal_amount" db:"principal_amount"`
	MonthlyEMI           float64       `json:"monthly_emi" db:"monthly_emi"`
	TotalRepaymentAmount float64       `json:"total_repayment_amount" db:"total_repayment_amount"`
	TotalInterestPaid    float64       `json:"total_interest_paid" db:"total_interest_paid"`
	TermMonths           int           `json:"term_months" db:"term_months"`
	Status               EMIPlanStatus `json:"status" db:"status"`
	IsCompleted          bool          `json:"is_completed" db:"is_completed"`
	OriginationDate      time.Time     `json:"origination_date" db:"origination_date"`
	CreatedAt            time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at" db:"updated_at"`
}

// PaymentTransaction represents one installment payment against an EMI plan.
type PaymentTransaction struct {
	ID        int64         `json:"id" db:"id"`
	EMIID     int64         `json:"emi_id" db:"emi_id"`
	Amount    float64       `json:"amount" db:"amount"`
	Status    PaymentStatus `json:"status" db:"status"`
	PaidAt    time.Time     `json:"paid_at" db:"paid_at"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

// EMIDashboardSnapshot is the derived progress view of one EMI plan at a
// point in time. It is never persisted; every call rebuilds it from the
// plan, its payment history, and the clock.
type EMIDashboardSnapshot struct {
	EMIID           int64     `json:"emi_id"`
	LoanAccountID   int64     `json:"loan_account_id"`
	TotalLoanAmount float64   `json:"total_loan_amount"`
	MonthlyEMI      float64   `json:"monthly_emi"`
	PendingAmount   float64   `json:"pending_amount"`
	TotalInterest   float64   `json:"total_interest"`
	InterestPaid    float64   `json:"interest_paid"`
	PrincipalPaid   float64   `json:"principal_paid"`
	CurrentMonthEMI float64   `json:"current_month_emi"`
	NextDueDate     time.Time `json:"next_due_date"`
	EMIsPaid        int       `json:"emis_paid"`
	EMIsRemaining   int       `json:"emis_remaining"`
	Status          string    `json:"status"`
	IsOverdue       bool      `json:"is_overdue"`
	DaysOverdue     int       `json:"days_overdue"`
}
