// Package models defines the data structures for the loan management platform.
package models

import (
	"time"
)

// LoanProductID identifies one of the fixed loan products.
type LoanProductID int64

const (
	// LoanProductAny stands for "no specific product"; eligibility
	// requests carry it as a pass-through label.
	LoanProductAny      LoanProductID = 0
	LoanProductPersonal LoanProductID = 1
	LoanProductVehicle  LoanProductID = 2
	LoanProductHome     LoanProductID = 3
)

// Score thresholds for the eligibility tiers.
const (
	ScoreThresholdBase        = 55.0
	ScoreThresholdAllProducts = 65.0
)

// Eligibility status labels.
const (
	StatusNotEligible     = "Not Eligible"
	StatusPersonalVehicle = "Eligible for Personal & Vehicle Loans"
	StatusAllProducts     = "Eligible for All Products"
)

// LoanProduct describes one entry of the closed product catalog.
type LoanProduct struct {
	ID           LoanProductID `json:"id"`
	Name         string        `json:"name"`
	MinimumScore float64       `json:"minimum_score"`
}

// LoanProducts returns the full product catalog in id order. Home loans
// carry the higher score threshold; personal and vehicle loans share the
// base threshold.
func LoanProducts() []LoanProduct {
	return []LoanProduct{
		{ID: LoanProductPersonal, Name: "Personal Loan", MinimumScore: ScoreThresholdBase},
		{ID: LoanProductVehicle, Name: "Vehicle Loan", MinimumScore: ScoreThresholdBase},
		{ID: LoanProductHome, Name: "Home Loan", MinimumScore: ScoreThresholdAllProducts},
	}
}

// LoanProductByID looks up a catalog entry. The bool is false for ids
// outside the catalog, including LoanProductAny.
func LoanProductByID(id LoanProductID) (LoanProduct, bool) {
	for _, p := range LoanProducts() {
		if p.ID == id {
			return p, true
		}
	}
	return LoanProduct{}, false
}

// EligibilityResult is the outcome of scoring one customer, created fresh
// per call and owned by the caller.
type EligibilityResult struct {
	CustomerID        int64         `json:"customer_id"`
	LoanProductID     LoanProductID `json:"loan_product_id"`
	CreditScore       int           `json:"credit_score"`
	MonthlyIncome     float64       `json:"monthly_income"`
	EligibilityScore  float64       `json:"eligibility_score"`
	EligibilityStatus string        `json:"eligibility_status"`
	CalculatedOn      time.Time     `json:"calculated_on"`
}
