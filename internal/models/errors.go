// Package models defines the data structures for the loan management platform.
package models

import (
	"errors"
	"strings"
)

// Common errors
var (
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrEMIPlanNotFound        = errors.New("no active EMI plan found")
	ErrDocumentNotFound       = errors.New("document not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrInvalidHomeOwnership   = errors.New("invalid home ownership status")
	ErrInvalidDocumentType    = errors.New("invalid document type")
	ErrInvalidEMIPlan         = errors.New("EMI plan has invalid term or negative amounts")
)

// NormalizeHomeOwnership converts free-form ownership labels to the
// standard enumeration values.
func NormalizeHomeOwnership(status string) HomeOwnershipStatus {
	normalized := strings.ToLower(strings.TrimSpace(status))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")

	statusMap := map[string]HomeOwnershipStatus{
		"owned":       HomeOwnershipOwned,
		"own":         HomeOwnershipOwned,
		"owner":       HomeOwnershipOwned,
		"self_owned":  HomeOwnershipOwned,
		"mortgaged":   HomeOwnershipMortgaged,
		"mortgage":    HomeOwnershipMortgaged,
		"rented":      HomeOwnershipRented,
		"rent":        HomeOwnershipRented,
		"renting":     HomeOwnershipRented,
		"tenant":      HomeOwnershipRented,
		"other":       HomeOwnershipOther,
		"family":      HomeOwnershipOther,
		"with_family": HomeOwnershipOther,
	}

	if mapped, ok := statusMap[normalized]; ok {
		return mapped
	}

	// Return as-is if no mapping found (will fail validation)
	return HomeOwnershipStatus(normalized)
}

// ValidateEMIPlan rejects plans whose fields would make the dashboard
// arithmetic meaningless. Overpayment is deliberately not rejected; the
// dashboard passes negative pending amounts through.
func ValidateEMIPlan(p *EMIPlan) error {
	if p.TermMonths <= 0 {
		return ErrInvalidEMIPlan
	}
	if p.PrincipalAmount < 0 || p.MonthlyEMI < 0 ||
		p.TotalRepaymentAmount < 0 || p.TotalInterestPaid < 0 {
		return ErrInvalidEMIPlan
	}
	return nil
}
