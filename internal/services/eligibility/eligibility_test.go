// Package eligibility_test contains tests for the eligibility scoring engine
package eligibility_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loan-management-platform/internal/models"
	"loan-management-platform/internal/services/eligibility"
)

// mockCustomer creates a test customer with default values
func mockCustomer(overrides map[string]interface{}) *models.Customer {
	customer := &models.Customer{
		ID:                  1,
		Name:                "Test Customer",
		Email:               "test@example.com",
		AnnualIncome:        600000,
		CreditScore:         720,
		Age:                 35,
		HomeOwnershipStatus: models.HomeOwnershipRented,
		Occupation:          "Analyst",
		IsActive:            true,
	}

	if v, ok := overrides["credit_score"]; ok {
		customer.CreditScore = v.(int)
	}
	if v, ok := overrides["annual_income"]; ok {
		customer.AnnualIncome = v.(float64)
	}
	if v, ok := overrides["age"]; ok {
		customer.Age = v.(int)
	}
	if v, ok := overrides["home_ownership"]; ok {
		customer.HomeOwnershipStatus = v.(models.HomeOwnershipStatus)
	}
	if v, ok := overrides["occupation"]; ok {
		customer.Occupation = v.(string)
	}

	return customer
}

func TestScoreCreditBands(t *testing.T) {
	engine := eligibility.NewEngine()

	tests := []struct {
		name        string
		creditScore int
		expected    float64
	}{
		{"excellent credit", 750, 40},
		{"good credit", 700, 30},
		{"fair credit", 650, 20},
		{"poor credit", 600, 10},
		{"very poor credit", 599, 0},
		{"above excellent", 850, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Zero out every other component: tiny income, out-of-band
			// age, rented, plain occupation.
			customer := mockCustomer(map[string]interface{}{
				"credit_score":  tt.creditScore,
				"annual_income": float64(0),
				"age":           19,
			})

			assert.Equal(t, tt.expected, engine.Score(customer))
		})
	}
}

func TestScoreIncomeBands(t *testing.T) {
	engine := eligibility.NewEngine()

	tests := []struct {
		name         string
		annualIncome float64
		expected     float64
	}{
		{"very high income", 1200000, 30},
		{"high income", 600000, 25},
		{"medium income", 360000, 20},
		{"low income", 240000, 15},
		{"below threshold", 239999, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customer := mockCustomer(map[string]interface{}{
				"credit_score":  300,
				"annual_income": tt.annualIncome,
				"age":           19,
			})

			assert.Equal(t, tt.expected, engine.Score(customer))
		})
	}
}

func TestScoreAgeBands(t *testing.T) {
	engine := eligibility.NewEngine()

	tests := []struct {
		name     string
		age      int
		expected float64
	}{
		{"prime band lower edge", 25, 15},
		{"prime band upper edge", 55, 15},
		{"outer band lower edge", 21, 10},
		{"outer band upper edge", 60, 10},
		{"just past prime", 56, 10},
		{"too young", 20, 0},
		{"too old", 61, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customer := mockCustomer(map[string]interface{}{
				"credit_score":  300,
				"annual_income": float64(0),
				"age":           tt.age,
			})

			assert.Equal(t, tt.expected, engine.Score(customer))
		})
	}
}

func TestScoreHomeOwnershipAndOccupation(t *testing.T) {
	engine := eligibility.NewEngine()

	base := map[string]interface{}{
		"credit_score":  300,
		"annual_income": float64(0),
		"age":           19,
	}

	t.Run("owned home", func(t *testing.T) {
		ov := map[string]interface{}{"home_ownership": models.HomeOwnershipOwned}
		for k, v := range base {
			ov[k] = v
		}
		assert.Equal(t, 10.0, engine.Score(mockCustomer(ov)))
	})

	t.Run("mortgaged home", func(t *testing.T) {
		ov := map[string]interface{}{"home_ownership": models.HomeOwnershipMortgaged}
		for k, v := range base {
			ov[k] = v
		}
		assert.Equal(t, 5.0, engine.Score(mockCustomer(ov)))
	})

	t.Run("engineer occupation", func(t *testing.T) {
		ov := map[string]interface{}{"occupation": "Software Engineer"}
		for k, v := range base {
			ov[k] = v
		}
		assert.Equal(t, 5.0, engine.Score(mockCustomer(ov)))
	})

	t.Run("manager occupation", func(t *testing.T) {
		ov := map[string]interface{}{"occupation": "Sales Manager"}
		for k, v := range base {
			ov[k] = v
		}
		assert.Equal(t, 5.0, engine.Score(mockCustomer(ov)))
	})

	t.Run("occupation match is case sensitive", func(t *testing.T) {
		ov := map[string]interface{}{"occupation": "software engineer"}
		for k, v := range base {
			ov[k] = v
		}
		assert.Equal(t, 0.0, engine.Score(mockCustomer(ov)))
	})
}

func TestScoreBoundaryProfile(t *testing.T) {
	// Credit 750, monthly income exactly 50000, age exactly 55, owned
	// home, "Senior Engineer": 40+25+15+10+5 = 95.
	engine := eligibility.NewEngine()
	customer := mockCustomer(map[string]interface{}{
		"credit_score":   750,
		"annual_income":  float64(600000),
		"age":            55,
		"home_ownership": models.HomeOwnershipOwned,
		"occupation":     "Senior Engineer",
	})

	score := engine.Score(customer)
	assert.Equal(t, 95.0, score)

	result := engine.CalculateEligibility(customer, models.LoanProductAny)
	assert.Equal(t, models.StatusAllProducts, result.EligibilityStatus)
}

func TestScoreRange(t *testing.T) {
	engine := eligibility.NewEngine()

	profiles := []*models.Customer{
		mockCustomer(map[string]interface{}{"credit_score": 300, "annual_income": float64(0), "age": 18}),
		mockCustomer(map[string]interface{}{"credit_score": 900, "annual_income": float64(2400000), "age": 40,
			"home_ownership": models.HomeOwnershipOwned, "occupation": "Engineering Manager"}),
		mockCustomer(nil),
	}

	for _, customer := range profiles {
		score := engine.Score(customer)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
	}

	// The maximum achievable score is exactly the sum of all weights.
	assert.Equal(t, 100.0, engine.Score(profiles[1]))
}

func TestCalculateEligibilityResultFields(t *testing.T) {
	engine := eligibility.NewEngine()
	customer := mockCustomer(nil)

	result := engine.CalculateEligibility(customer, models.LoanProductHome)

	assert.Equal(t, customer.ID, result.CustomerID)
	assert.Equal(t, models.LoanProductHome, result.LoanProductID)
	assert.Equal(t, customer.CreditScore, result.CreditScore)
	assert.Equal(t, customer.AnnualIncome/12, result.MonthlyIncome)
	assert.False(t, result.CalculatedOn.IsZero())
}

func TestProductIDDoesNotAffectScoreOrStatus(t *testing.T) {
	engine := eligibility.NewEngine()
	customer := mockCustomer(nil)

	baseline := engine.CalculateEligibility(customer, models.LoanProductAny)
	for _, id := range []models.LoanProductID{models.LoanProductPersonal, models.LoanProductVehicle, models.LoanProductHome} {
		result := engine.CalculateEligibility(customer, id)
		assert.Equal(t, baseline.EligibilityScore, result.EligibilityScore)
		assert.Equal(t, baseline.EligibilityStatus, result.EligibilityStatus)
	}
}

func TestCalculateEligibilityIsDeterministic(t *testing.T) {
	engine := eligibility.NewEngine()
	customer := mockCustomer(nil)

	first := engine.CalculateEligibility(customer, models.LoanProductAny)
	second := engine.CalculateEligibility(customer, models.LoanProductAny)

	assert.Equal(t, first.EligibilityScore, second.EligibilityScore)
	assert.Equal(t, first.EligibilityStatus, second.EligibilityStatus)
}

func TestStatusTiers(t *testing.T) {
	engine := eligibility.NewEngine()

	tests := []struct {
		name      string
		overrides map[string]interface{}
		status    string
	}{
		{
			// 40 + 25 = 65
			"all products at 65",
			map[string]interface{}{"credit_score": 750, "annual_income": float64(600000), "age": 19},
			models.StatusAllProducts,
		},
		{
			// 30 + 25 = 55
			"personal and vehicle at 55",
			map[string]interface{}{"credit_score": 700, "annual_income": float64(600000), "age": 19},
			models.StatusPersonalVehicle,
		},
		{
			// 30 + 20 = 50
			"not eligible below 55",
			map[string]interface{}{"credit_score": 700, "annual_income": float64(360000), "age": 19},
			models.StatusNotEligible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.CalculateEligibility(mockCustomer(tt.overrides), models.LoanProductAny)
			assert.Equal(t, tt.status, result.EligibilityStatus)
		})
	}
}

func TestIsEligibleForLoanThresholds(t *testing.T) {
	engine := eligibility.NewEngine()

	// Score 55: base tier only.
	midTier := mockCustomer(map[string]interface{}{
		"credit_score": 700, "annual_income": float64(600000), "age": 19,
	})
	assert.True(t, engine.IsEligibleForLoan(midTier, models.LoanProductPersonal))
	assert.True(t, engine.IsEligibleForLoan(midTier, models.LoanProductVehicle))
	assert.True(t, engine.IsEligibleForLoan(midTier, models.LoanProductAny))
	assert.False(t, engine.IsEligibleForLoan(midTier, models.LoanProductHome))

	// Score 65: everything.
	topTier := mockCustomer(map[string]interface{}{
		"credit_score": 750, "annual_income": float64(600000), "age": 19,
	})
	assert.True(t, engine.IsEligibleForLoan(topTier, models.LoanProductHome))
	assert.True(t, engine.IsEligibleForLoan(topTier, models.LoanProductPersonal))

	// Score 50: nothing.
	lowTier := mockCustomer(map[string]interface{}{
		"credit_score": 700, "annual_income": float64(360000), "age": 19,
	})
	assert.False(t, engine.IsEligibleForLoan(lowTier, models.LoanProductPersonal))
	assert.False(t, engine.IsEligibleForLoan(lowTier, models.LoanProductHome))
}

func TestEligibleProductIDs(t *testing.T) {
	engine := eligibility.NewEngine()

	t.Run("top tier gets all three products", func(t *testing.T) {
		customer := mockCustomer(map[string]interface{}{
			"credit_score": 750, "annual_income": float64(600000), "age": 19,
		})
		ids := engine.EligibleProductIDs(customer)
		assert.Equal(t, []models.LoanProductID{
			models.LoanProductPersonal,
			models.LoanProductVehicle,
			models.LoanProductHome,
		}, ids)
	})

	t.Run("base tier gets personal and vehicle", func(t *testing.T) {
		customer := mockCustomer(map[string]interface{}{
			"credit_score": 700, "annual_income": float64(600000), "age": 19,
		})
		ids := engine.EligibleProductIDs(customer)
		assert.Equal(t, []models.LoanProductID{
			models.LoanProductPersonal,
			models.LoanProductVehicle,
		}, ids)
	})

	t.Run("below base tier gets nothing", func(t *testing.T) {
		customer := mockCustomer(map[string]interface{}{
			"credit_score": 300, "annual_income": float64(0), "age": 19,
		})
		assert.Empty(t, engine.EligibleProductIDs(customer))
	})
}

func TestHomeEligibilityImpliesBaseEligibility(t *testing.T) {
	engine := eligibility.NewEngine()

	// Sweep a spread of profiles; whenever the home loan is available,
	// personal and vehicle must be too.
	creditScores := []int{300, 600, 650, 700, 750, 900}
	incomes := []float64{0, 240000, 360000, 600000, 1200000}

	for _, cs := range creditScores {
		for _, income := range incomes {
			customer := mockCustomer(map[string]interface{}{
				"credit_score":  cs,
				"annual_income": income,
			})
			if engine.IsEligibleForLoan(customer, models.LoanProductHome) {
				assert.True(t, engine.IsEligibleForLoan(customer, models.LoanProductPersonal))
				assert.True(t, engine.IsEligibleForLoan(customer, models.LoanProductVehicle))
			}
		}
	}
}

func TestEngineDoesNotMutateCustomer(t *testing.T) {
	engine := eligibility.NewEngine()
	customer := mockCustomer(nil)
	snapshot := *customer

	engine.CalculateEligibility(customer, models.LoanProductHome)
	engine.IsEligibleForLoan(customer, models.LoanProductHome)
	engine.EligibleProductIDs(customer)

	assert.Equal(t, snapshot, *customer)
}
