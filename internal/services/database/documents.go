// Package database provides Postgres persistence for the loan management platform.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"loan-management-platform/internal/models"
)

// DocumentRepository handles loan document metadata operations.
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new document repository.
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create records an uploaded document and returns its generated id.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.DocumentCreate, storageKey string) (string, error) {
	id := uuid.New().String()

	query := `
		INSERT INTO loan_documents (id, customer_id, type, file_name, storage_key,
			content_type, size_bytes, status, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		id,
		doc.CustomerID,
		string(doc.Type),
		doc.FileName,
		storageKey,
		doc.ContentType,
		doc.SizeBytes,
		string(models.DocumentStatusPending),
		time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}

	return id, nil
}

// GetByCustomer retrieves all documents of a customer, newest first.
func (r *DocumentRepository) GetByCustomer(ctx context.Context, customerID int64) ([]*models.LoanDocument, error) {
	query := `
		SELECT id, customer_id, type, file_name, storage_key, content_type,
			size_bytes, status, uploaded_at
		FROM loan_documents
		WHERE customer_id = $1
		ORDER BY uploaded_at DESC`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.LoanDocument
	for rows.Next() {
		var doc models.LoanDocument
		var docType, status string

		err := rows.Scan(
			&doc.ID,
			&doc.CustomerID,
			&docType,
			&doc.FileName,
			&doc.StorageKey,
			&doc.ContentType,
			&doc.SizeBytes,
			&status,
			&doc.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		doc.Type = models.DocumentType(docType)
		doc.Status = models.DocumentStatus(status)
		docs = append(docs, &doc)
	}

	return docs, nil
}

// UpdateStatus moves a document through the verification workflow.
func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status models.DocumentStatus) error {
	affected, err := r.db.ExecContext(ctx,
		"UPDATE loan_documents SET status = $2 WHERE id = $1",
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}
	if affected == 0 {
		return models.ErrDocumentNotFound
	}

	return nil
}
