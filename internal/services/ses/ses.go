// Package ses provides transactional email notifications via AWS SES.
package ses

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	appConfig "loan-management-platform/internal/config"
	"loan-management-platform/internal/models"
	"loan-management-platform/internal/utils"
)

// Service handles SES email operations.
type Service struct {
	client       *ses.Client
	fromEmail    string
	dashboardURL string
}

// EmailParams represents parameters for sending an email.
type EmailParams struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmailResult contains the result of sending an email.
type SendEmailResult struct {
	MessageID string
	SentAt    time.Time
}

// NewService creates a new SES service. The sender address and dashboard
// link come from injected configuration, never from package state.
func NewService(ctx context.Context, appCfg *appConfig.Config) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Service{
		client:       ses.NewFromConfig(cfg),
		fromEmail:    appCfg.SESSenderEmail,
		dashboardURL: appCfg.DashboardURL,
	}, nil
}

// SendEmail sends a basic email.
func (s *Service) SendEmail(ctx context.Context, params EmailParams) (*SendEmailResult, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{params.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(params.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}

	if params.HTMLBody != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(params.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}
	if params.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(params.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	output, err := s.client.SendEmail(ctx, input)
	if err != nil {
		utils.Logger.Error("Failed to send email",
			zap.String("to", params.To),
			zap.String("subject", params.Subject),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	utils.Logger.Info("Email sent",
		zap.String("to", params.To),
		zap.String("subject", params.Subject),
		zap.String("message_id", aws.ToString(output.MessageId)),
	)

	return &SendEmailResult{
		MessageID: aws.ToString(output.MessageId),
		SentAt:    time.Now().UTC(),
	}, nil
}

// welcomeTemplate greets a newly registered customer.
var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Welcome to the Loan Management Platform, {{.Name}}!</h2>
	<p>Your account has been created successfully. You can now check your
	loan eligibility and track your EMI payments from the dashboard.</p>
	{{if .DashboardURL}}<p><a href="{{.DashboardURL}}">Go to your dashboard</a></p>{{end}}
	<p>Best regards,<br>The LMP Team</p>
</body>
</html>`))

// SendWelcomeEmail greets a newly registered customer.
func (s *Service) SendWelcomeEmail(ctx context.Context, toEmail, name string) (*SendEmailResult, error) {
	var body bytes.Buffer
	data := struct {
		Name         string
		DashboardURL string
	}{Name: name, DashboardURL: s.dashboardURL}

	if err := welcomeTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to render welcome email: %w", err)
	}

	return s.SendEmail(ctx, EmailParams{
		To:       toEmail,
		Subject:  "Welcome to the Loan Management Platform",
		HTMLBody: body.String(),
		TextBody: fmt.Sprintf("Welcome, %s! Your account has been created.", name),
	})
}

// eligibilityTemplate reports a scoring outcome to the customer.
var eligibilityTemplate = template.Must(template.New("eligibility").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Your Loan Eligibility Result</h2>
	<p>Hello {{.Name}},</p>
	<p>Your eligibility score is <strong>{{printf "%.2f" .Score}}/100</strong>.</p>
	<p>Status: <strong>{{.Status}}</strong></p>
	{{if .Products}}
	<p>You can apply for:</p>
	<ul>
	{{range .Products}}<li>{{.Name}}</li>{{end}}
	</ul>
	{{else}}
	<p>A score of 55 or above is needed to apply for loans.</p>
	{{end}}
	<p>Best regards,<br>The LMP Team</p>
</body>
</html>`))

// SendEligibilityEmail reports a scoring outcome, listing the products
// the customer qualifies for.
func (s *Service) SendEligibilityEmail(ctx context.Context, toEmail, name string, result *models.EligibilityResult, products []models.LoanProduct) (*SendEmailResult, error) {
	var body bytes.Buffer
	data := struct {
		Name     string
		Score    float64
		Status   string
		Products []models.LoanProduct
	}{Name: name, Score: result.EligibilityScore, Status: result.EligibilityStatus, Products: products}

	if err := eligibilityTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to render eligibility email: %w", err)
	}

	return s.SendEmail(ctx, EmailParams{
		To:       toEmail,
		Subject:  "Your Loan Eligibility Result",
		HTMLBody: body.String(),
		TextBody: fmt.Sprintf("Hello %s, your eligibility score is %.2f/100 (%s).", name, result.EligibilityScore, result.EligibilityStatus),
	})
}

// reminderTemplate nudges a customer with an overdue installment.
var reminderTemplate = template.Must(template.New("reminder").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>EMI Payment Reminder</h2>
	<p>Hello {{.Name}},</p>
	<p>Your EMI of <strong>₹{{printf "%.2f" .MonthlyEMI}}</strong> was due on
	<strong>{{.DueDate}}</strong> and is now <strong>{{.DaysOverdue}} day(s) overdue</strong>.</p>
	<p>Pending amount on your loan: ₹{{printf "%.2f" .PendingAmount}}.</p>
	<p>Please make the payment at the earliest to avoid penalties.</p>
	{{if .DashboardURL}}<p><a href="{{.DashboardURL}}">Pay now</a></p>{{end}}
	<p>Best regards,<br>The LMP Team</p>
</body>
</html>`))

// SendOverdueReminder nudges a customer whose next installment has
// passed its due date.
func (s *Service) SendOverdueReminder(ctx context.Context, toEmail, name string, snapshot *models.EMIDashboardSnapshot) (*SendEmailResult, error) {
	var body bytes.Buffer
	data := struct {
		Name          string
		MonthlyEMI    float64
		DueDate       string
		DaysOverdue   int
		PendingAmount float64
		DashboardURL  string
	}{
		Name:          name,
		MonthlyEMI:    snapshot.MonthlyEMI,
		DueDate:       snapshot.NextDueDate.Format("02 Jan 2006"),
		DaysOverdue:   snapshot.DaysOverdue,
		PendingAmount: snapshot.PendingAmount,
		DashboardURL:  s.dashboardURL,
	}

	if err := reminderTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to render reminder email: %w", err)
	}

	return s.SendEmail(ctx, EmailParams{
		To:       toEmail,
		Subject:  fmt.Sprintf("EMI Payment Overdue - %d day(s)", snapshot.DaysOverdue),
		HTMLBody: body.String(),
		TextBody: fmt.Sprintf("Hello %s, your EMI of %.2f is %d day(s) overdue.", name, snapshot.MonthlyEMI, snapshot.DaysOverdue),
	})
}
