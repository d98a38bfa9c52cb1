// Package database provides Postgres persistence for the loan management platform.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"loan-management-platform/internal/models"
)

// CustomerRepository handles customer database operations.
type CustomerRepository struct {
	db *DB
}

// NewCustomerRepository creates a new customer repository.
func NewCustomerRepository(db *DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `id, name, email, password_hash, annual_income, credit_score, age,
	home_ownership_status, occupation, created_at, updated_at, is_active`

// Create inserts a new customer. The password must already be hashed.
// Returns models.ErrEmailAlreadyRegistered on a duplicate email.
func (r *CustomerRepository) Create(ctx context.Context, customer *models.CustomerCreate, passwordHash string) (int64, error) {
	query := `
		INSERT INTO customers (name, email, password_hash, annual_income, credit_score, age,
			home_ownership_status, occupation, created_at, updated_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9, true)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		customer.Name,
		customer.Email,
		passwordHash,
		customer.AnnualIncome,
		customer.CreditScore,
		customer.Age,
		string(customer.HomeOwnershipStatus),
		customer.Occupation,
		time.Now().UTC(),
	).Scan(&id)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, models.ErrEmailAlreadyRegistered
		}
		return 0, fmt.Errorf("failed to create customer: %w", err)
	}

	return id, nil
}

// GetByID retrieves a customer by id. Returns (nil, nil) when absent.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE id = $1 AND is_active = true`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a customer by email. Returns (nil, nil) when absent.
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE email = $1 AND is_active = true`

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// GetAllActive retrieves all active customers.
func (r *CustomerRepository) GetAllActive(ctx context.Context) ([]*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE is_active = true
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	return customers, nil
}

// UpdateProfile updates the scoring-relevant attributes of a customer.
func (r *CustomerRepository) UpdateProfile(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET annual_income = $2, credit_score = $3, age = $4,
			home_ownership_status = $5, occupation = $6, updated_at = $7
		WHERE id = $1`

	affected, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.AnnualIncome,
		customer.CreditScore,
		customer.Age,
		string(customer.HomeOwnershipStatus),
		customer.Occupation,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if affected == 0 {
		return models.ErrCustomerNotFound
	}

	return nil
}

// Deactivate soft-deletes a customer.
func (r *CustomerRepository) Deactivate(ctx context.Context, id int64) error {
	affected, err := r.db.ExecContext(ctx,
		"UPDATE customers SET is_active = false, updated_at = $2 WHERE id = $1",
		id, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate customer: %w", err)
	}
	if affected == 0 {
		return models.ErrCustomerNotFound
	}

	return nil
}

func (r *CustomerRepository) scanOne(row pgx.Row) (*models.Customer, error) {
	customer, err := scanCustomer(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var customer models.Customer
	var ownership string

	err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.PasswordHash,
		&customer.AnnualIncome,
		&customer.CreditScore,
		&customer.Age,
		&ownership,
		&customer.Occupation,
		&customer.CreatedAt,
		&customer.UpdatedAt,
		&customer.IsActive,
	)
	if err != nil {
		return nil, err
	}

	customer.HomeOwnershipStatus = models.HomeOwnershipStatus(ownership)
	return &customer, nil
}
