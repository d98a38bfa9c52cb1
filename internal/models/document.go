// Package models defines the data structures for the loan management platform.
package models

import (
	"time"
)

// DocumentType classifies an uploaded loan document.
type DocumentType string

const (
	DocumentTypeIdentityProof DocumentType = "identity_proof"
	DocumentTypeAddressProof  DocumentType = "address_proof"
	DocumentTypeIncomeProof   DocumentType = "income_proof"
	DocumentTypeBankStatement DocumentType = "bank_statement"
	DocumentTypeOther         DocumentType = "other"
)

// IsValid checks if the document type is valid.
func (d DocumentType) IsValid() bool {
	switch d {
	case DocumentTypeIdentityProof, DocumentTypeAddressProof,
		DocumentTypeIncomeProof, DocumentTypeBankStatement, DocumentTypeOther:
		return true
	}
	return false
}

// DocumentStatus tracks verification of an uploaded document.
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusVerified DocumentStatus = "verified"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// LoanDocument represents the metadata of a document stored in S3.
type LoanDocument struct {
	ID          string         `json:"id" db:"id"`
	CustomerID  int64          `json:"customer_id" db:"customer_id"`
	Type        DocumentType   `json:"type" db:"type"`
	FileName    string         `json:"file_name" db:"file_name"`
	StorageKey  string         `json:"storage_key" db:"storage_key"`
	ContentType string         `json:"content_type" db:"content_type"`
	SizeBytes   int64          `json:"size_bytes" db:"size_bytes"`
	Status      DocumentStatus `json:"status" db:"status"`
	UploadedAt  time.Time      `json:"uploaded_at" db:"uploaded_at"`
}

// DocumentCreate represents the data needed to record an uploaded document.
type DocumentCreate struct {
	CustomerID  int64        `json:"customer_id" validate:"required,gt=0"`
	Type        DocumentType `json:"type" validate:"required"`
	FileName    string       `json:"file_name" validate:"required,max=255"`
	ContentType string       `json:"content_type" validate:"required"`
	SizeBytes   int64        `json:"size_bytes" validate:"gte=0"`
}
