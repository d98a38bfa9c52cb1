//go:build ignore
// +build ignore

// Database initialization script for local development:
//
//	go run scripts/init_db.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(100) NOT NULL,
	email VARCHAR(255) NOT NULL UNIQUE,
	password_hash VARCHAR(100) NOT NULL,
	annual_income DOUBLE PRECISION NOT NULL DEFAULT 0,
	credit_score INTEGER NOT NULL,
	age INTEGER NOT NULL,
	home_ownership_status VARCHAR(20) NOT NULL,
	occupation VARCHAR(100) NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS emi_plans (
	emi_id BIGSERIAL PRIMARY KEY,
	loan_account_id BIGINT NOT NULL,
	customer_id BIGINT NOT NULL REFERENCES customers(id),
	principal_amount DOUBLE PRECISION NOT NULL,
	monthly_emi DOUBLE PRECISION NOT NULL,
	total_repayment_amount DOUBLE PRECISION NOT NULL,
	total_interest_paid DOUBLE PRECISION NOT NULL,
	term_months INTEGER NOT NULL,
	status VARCHAR(20) NOT NULL,
	is_completed BOOLEAN NOT NULL DEFAULT false,
	origination_date TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_emi_plans_customer ON emi_plans(customer_id, status);

CREATE TABLE IF NOT EXISTS payment_transactions (
	id BIGSERIAL PRIMARY KEY,
	emi_id BIGINT NOT NULL REFERENCES emi_plans(emi_id),
	amount DOUBLE PRECISION NOT NULL,
	status VARCHAR(20) NOT NULL,
	paid_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_payments_emi ON payment_transactions(emi_id, status);

CREATE TABLE IF NOT EXISTS loan_documents (
	id UUID PRIMARY KEY,
	customer_id BIGINT NOT NULL REFERENCES customers(id),
	type VARCHAR(30) NOT NULL,
	file_name VARCHAR(255) NOT NULL,
	storage_key VARCHAR(512) NOT NULL,
	content_type VARCHAR(100) NOT NULL,
	size_bytes BIGINT NOT NULL DEFAULT 0,
	status VARCHAR(20) NOT NULL,
	uploaded_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_customer ON loan_documents(customer_id);
`

func main() {
	fmt.Println("=== Database Initialization Script ===")
	fmt.Println()

	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Could not load .env file: %v\n", err)
	}

	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	name := getEnv("DB_NAME", "loan_management")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "")

	sslMode := "require"
	if host == "localhost" || host == "127.0.0.1" {
		sslMode = "disable"
	}
	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, password, host, port, name, sslMode)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, schema); err != nil {
		fmt.Printf("Failed to create schema: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Schema created successfully.")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
