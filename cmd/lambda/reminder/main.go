// Overdue EMI Reminder Lambda entry point, invoked on a schedule
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"loan-management-platform/internal/handlers"
	"loan-management-platform/internal/utils"
)

func main() {
	// Initialize logger
	_ = utils.InitLogger("info")
	defer utils.Sync()

	// Create handler
	handler, err := handlers.NewReminderHandler(context.Background())
	if err != nil {
		panic("Failed to create handler: " + err.Error())
	}

	// Start Lambda
	lambda.Start(handler.Handle)
}
