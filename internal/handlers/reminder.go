// Package handlers provides Lambda handlers for the loan management platform.
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	appConfig "loan-management-platform/internal/config"
	"loan-management-platform/internal/services/database"
	"loan-management-platform/internal/services/emi"
	sesService "loan-management-platform/internal/services/ses"
	"loan-management-platform/internal/utils"
)

// ReminderHandler runs the scheduled overdue-EMI reminder sweep.
type ReminderHandler struct {
	db           *database.DB
	customerRepo *database.CustomerRepository
	planRepo     *database.EMIPlanRepository
	calculator   *emi.Calculator
	mailer       *sesService.Service
}

// ReminderResult summarizes one sweep.
type ReminderResult struct {
	PlansChecked  int `json:"plans_checked"`
	OverduePlans  int `json:"overdue_plans"`
	RemindersSent int `json:"reminders_sent"`
	Errors        int `json:"errors"`
}

// NewReminderHandler creates a new reminder handler.
func NewReminderHandler(ctx context.Context) (*ReminderHandler, error) {
	cfg, err := appConfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	mailer, err := sesService.NewService(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create SES service: %w", err)
	}

	return &ReminderHandler{
		db:           db,
		customerRepo: database.NewCustomerRepository(db),
		planRepo:     database.NewEMIPlanRepository(db),
		calculator:   emi.NewCalculator(),
		mailer:       mailer,
	}, nil
}

// Handle sweeps all active plans and emails customers whose next
// installment is overdue.
func (h *ReminderHandler) Handle(ctx context.Context, event events.CloudWatchEvent) (ReminderResult, error) {
	result := ReminderResult{}
	now := time.Now().UTC()

	plans, err := h.planRepo.GetAllActive(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load active plans: %w", err)
	}
	result.PlansChecked = len(plans)

	for _, plan := range plans {
		payments, err := h.planRepo.GetSuccessfulPayments(ctx, plan.EMIID)
		if err != nil {
			utils.Logger.Warn("Skipping plan, failed to load payments",
				zap.Int64("emi_id", plan.EMIID),
				zap.Error(err),
			)
			result.Errors++
			continue
		}

		snapshot, err := h.calculator.ComputeDashboard(plan, payments, now)
		if err != nil {
			utils.Logger.Warn("Skipping plan, invalid plan data",
				zap.Int64("emi_id", plan.EMIID),
				zap.Error(err),
			)
			result.Errors++
			continue
		}

		if !snapshot.IsOverdue {
			continue
		}
		result.OverduePlans++

		customer, err := h.customerRepo.GetByID(ctx, plan.CustomerID)
		if err != nil || customer == nil {
			utils.Logger.Warn("Skipping reminder, customer not found",
				zap.Int64("emi_id", plan.EMIID),
				zap.Int64("customer_id", plan.CustomerID),
			)
			result.Errors++
			continue
		}

		if _, err := h.mailer.SendOverdueReminder(ctx, customer.Email, customer.Name, snapshot); err != nil {
			result.Errors++
			continue
		}
		result.RemindersSent++
	}

	utils.Logger.Info("Reminder sweep complete",
		zap.Int("plans_checked", result.PlansChecked),
		zap.Int("overdue_plans", result.OverduePlans),
		zap.Int("reminders_sent", result.RemindersSent),
		zap.Int("errors", result.Errors),
	)

	return result, nil
}

// Close cleans up resources.
func (h *ReminderHandler) Close() {
	if h.db != nil {
		h.db.Close()
	}
}
