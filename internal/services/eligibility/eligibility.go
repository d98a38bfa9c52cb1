// Package eligibility implements the loan eligibility scoring engine.
package eligibility

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"loan-management-platform/internal/models"
	"loan-management-platform/internal/services/database"
	"loan-management-platform/internal/utils"
)

// Engine computes eligibility scores from customer attributes. It holds no
// state and never mutates its inputs, so a single instance can serve any
// number of concurrent callers.
type Engine struct{}

// NewEngine creates a new eligibility engine.
func NewEngine() *Engine {
	return &Engine{}
}

// CalculateEligibility scores a customer and maps the score to an
// eligibility tier. The loan product id is echoed into the result as a
// label only; it never influences the score or the status text.
func (e *Engine) CalculateEligibility(customer *models.Customer, loanProductID models.LoanProductID) *models.EligibilityResult {
	score := e.Score(customer)

	return &models.EligibilityResult{
		CustomerID:        customer.ID,
		LoanProductID:     loanProductID,
		CreditScore:       customer.CreditScore,
		MonthlyIncome:     customer.MonthlyIncome(),
		EligibilityScore:  score,
		EligibilityStatus: statusForScore(score),
		CalculatedOn:      time.Now().UTC(),
	}
}

// IsEligibleForLoan recomputes the score and applies the product-specific
// threshold: home loans require the all-products tier, everything else
// (including product id 0) the base tier.
func (e *Engine) IsEligibleForLoan(customer *models.Customer, loanProductID models.LoanProductID) bool {
	score := e.Score(customer)

	if loanProductID == models.LoanProductHome {
		return score >= models.ScoreThresholdAllProducts
	}
	return score >= models.ScoreThresholdBase
}

// EligibleProductIDs returns the ids of all catalog products the customer
// qualifies for. The all-products tier is a strict superset of the base
// tier, so a customer eligible for home loans is always eligible for
// personal and vehicle loans too.
func (e *Engine) EligibleProductIDs(customer *models.Customer) []models.LoanProductID {
	score := e.Score(customer)

	eligible := make([]models.LoanProductID, 0, 3)
	for _, product := range models.LoanProducts() {
		if score >= product.MinimumScore {
			eligible = append(eligible, product.ID)
		}
	}
	return eligible
}

// Score computes the 0-100 eligibility score as the sum of five
// independent weighted components. Deterministic: no clock, no I/O.
func (e *Engine) Score(customer *models.Customer) float64 {
	var score float64

	score += creditScoreComponent(customer.CreditScore)
	score += incomeComponent(customer.MonthlyIncome())
	score += ageComponent(customer.Age)
	score += homeOwnershipComponent(customer.HomeOwnershipStatus)
	score += occupationComponent(customer.Occupation)

	return math.Round(score*100) / 100
}

// creditScoreComponent awards up to 40 points based on the credit bureau score.
func creditScoreComponent(creditScore int) float64 {
	switch {
	case creditScore >= 750:
		return 40
	case creditScore >= 700:
		return 30
	case creditScore >= 650:
		return 20
	case creditScore >= 600:
		return 10
	default:
		return 0
	}
}

// incomeComponent awards up to 30 points based on monthly income.
func incomeComponent(monthlyIncome float64) float64 {
	switch {
	case monthlyIncome >= 100000:
		return 30
	case monthlyIncome >= 50000:
		return 25
	case monthlyIncome >= 30000:
		return 20
	case monthlyIncome >= 20000:
		return 15
	default:
		return 0
	}
}

// ageComponent awards up to 15 points. The bands overlap; the prime band
// wins when both match.
func ageComponent(age int) float64 {
	switch {
	case age >= 25 && age <= 55:
		return 15
	case age >= 21 && age <= 60:
		return 10
	default:
		return 0
	}
}

// homeOwnershipComponent awards up to 10 points.
func homeOwnershipComponent(status models.HomeOwnershipStatus) float64 {
	switch status {
	case models.HomeOwnershipOwned:
		return 10
	case models.HomeOwnershipMortgaged:
		return 5
	default:
		return 0
	}
}

// occupationComponent awards 5 points for stable professional occupations.
// The match is a case-sensitive substring check.
func occupationComponent(occupation string) float64 {
	if strings.Contains(occupation, "Engineer") || strings.Contains(occupation, "Manager") {
		return 5
	}
	return 0
}

// statusForScore maps a score onto the three-tier eligibility status.
func statusForScore(score float64) string {
	switch {
	case score >= models.ScoreThresholdAllProducts:
		return models.StatusAllProducts
	case score >= models.ScoreThresholdBase:
		return models.StatusPersonalVehicle
	default:
		return models.StatusNotEligible
	}
}

// Service resolves customers from the store and runs the engine on them.
type Service struct {
	engine       *Engine
	customerRepo *database.CustomerRepository
}

// NewService creates a new eligibility service.
func NewService(customerRepo *database.CustomerRepository) *Service {
	return &Service{
		engine:       NewEngine(),
		customerRepo: customerRepo,
	}
}

// Engine exposes the underlying pure engine for callers that already hold
// a customer record.
func (s *Service) Engine() *Engine {
	return s.engine
}

// CalculateEligibility fetches the customer and scores them.
func (s *Service) CalculateEligibility(ctx context.Context, customerID int64, loanProductID models.LoanProductID) (*models.EligibilityResult, error) {
	customer, err := s.getCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	result := s.engine.CalculateEligibility(customer, loanProductID)

	utils.Logger.Info("Calculated eligibility",
		zap.Int64("customer_id", customerID),
		zap.Int64("loan_product_id", int64(loanProductID)),
		zap.Float64("score", result.EligibilityScore),
		zap.String("status", result.EligibilityStatus),
	)

	return result, nil
}

// IsEligibleForLoan fetches the customer and applies the per-product threshold.
func (s *Service) IsEligibleForLoan(ctx context.Context, customerID int64, loanProductID models.LoanProductID) (bool, error) {
	customer, err := s.getCustomer(ctx, customerID)
	if err != nil {
		return false, err
	}
	return s.engine.IsEligibleForLoan(customer, loanProductID), nil
}

// EligibleProductIDs fetches the customer and lists the products they
// qualify for.
func (s *Service) EligibleProductIDs(ctx context.Context, customerID int64) ([]models.LoanProductID, error) {
	customer, err := s.getCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.engine.EligibleProductIDs(customer), nil
}

func (s *Service) getCustomer(ctx context.Context, customerID int64) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, models.ErrCustomerNotFound
	}
	return customer, nil
}
