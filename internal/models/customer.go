// Package models defines the data structures for the loan management platform.
package models

import (
	"time"
)

// HomeOwnershipStatus represents the housing situation of a customer.
type HomeOwnershipStatus string

const (
	HomeOwnershipOwned     HomeOwnershipStatus = "owned"
	HomeOwnershipMortgaged HomeOwnershipStatus = "mortgaged"
	HomeOwnershipRented    HomeOwnershipStatus = "rented"
	HomeOwnershipOther     HomeOwnershipStatus = "other"
)

// ValidHomeOwnershipStatuses returns all valid home ownership values.
func ValidHomeOwnershipStatuses() []HomeOwnershipStatus {
	return []HomeOwnershipStatus{
		HomeOwnershipOwned,
		HomeOwnershipMortgaged,
		HomeOwnershipRented,
		HomeOwnershipOther,
	}
}

// IsValid checks if the home ownership status is valid.
func (h HomeOwnershipStatus) IsValid() bool {
	for _, valid := range ValidHomeOwnershipStatuses() {
		if h == valid {
			return true
		}
	}
	return false
}

// Customer represents a registered customer in the system.
type Customer struct {
	ID                  int64               `json:"id" db:"id"`
	Name                string              `json:"name" db:"name"`
	Email               string              `json:"email" db:"email"`
	PasswordHash        string              `json:"-" db:"password_hash"`
	AnnualIncome        float64             `json:"annual_income" db:"annual_income"`
	CreditScore         int                 `json:"credit_score" db:"credit_score"`
	Age                 int                 `json:"age" db:"age"`
	HomeOwnershipStatus HomeOwnershipStatus `json:"home_ownership_status" db:"home_ownership_status"`
	Occupation          string              `json:"occupation" db:"occupation"`
	CreatedAt           time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at" db:"updated_at"`
	IsActive            bool                `json:"is_active" db:"is_active"`
}

// MonthlyIncome derives the monthly income from the annual figure.
func (c *Customer) MonthlyIncome() float64 {
	return c.AnnualIncome / 12
}

// CustomerCreate represents the data needed to register a new customer.
type CustomerCreate struct {
	Name                string              `json:"name" validate:"required,min=1,max=100"`
	Email               string              `json:"email" validate:"required,email"`
	Password            string              `json:"password" validate:"required,min=8,max=72"`
	AnnualIncome        float64             `json:"annual_income" validate:"gte=0"`
	CreditScore         int                 `json:"credit_score" validate:"gte=300,lte=900"`
	Age                 int                 `json:"age" validate:"gte=18,lte=120"`
	HomeOwnershipStatus HomeOwnershipStatus `json:"home_ownership_status" validate:"required"`
	Occupation          string              `json:"occupation" validate:"max=100"`
}

// LoginRequest carries customer credentials for authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
