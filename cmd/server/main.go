// Package main provides the HTTP API server for the loan management platform:
// customer registration and login, loan eligibility checks, the EMI dashboard,
// and loan document upload handling.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"loan-management-platform/internal/config"
	"loan-management-platform/internal/models"
	"loan-management-platform/internal/services/auth"
	"loan-management-platform/internal/services/database"
	"loan-management-platform/internal/services/eligibility"
	"loan-management-platform/internal/services/emi"
	s3service "loan-management-platform/internal/services/s3"
	sesService "loan-management-platform/internal/services/ses"
	"loan-management-platform/internal/utils"
)

// Server holds all dependencies
type Server struct {
	db           *database.DB
	customerRepo *database.CustomerRepository
	planRepo     *database.EMIPlanRepository
	documentRepo *database.DocumentRepository
	eligibility  *eligibility.Service
	emi          *emi.Service
	tokens       *auth.TokenService
	mailer       *sesService.Service
	storage      *s3service.Service
	validate     *validator.Validate
	config       *config.Config
}

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AuthResponse carries the token issued after registration or login
type AuthResponse struct {
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Token      string `json:"token"`
}

// ProductAvailability reports per-product eligibility for the overall check
type ProductAvailability struct {
	ProductID   models.LoanProductID `json:"product_id"`
	ProductName string               `json:"product_name"`
	Available   bool                 `json:"available"`
}

// OverallEligibilityResponse is the aggregate eligibility view
type OverallEligibilityResponse struct {
	CustomerID           int64                 `json:"customer_id"`
	EligibilityScore     float64               `json:"eligibility_score"`
	Status               string                `json:"status"`
	EligibleProductCount int                   `json:"eligible_product_count"`
	Message              string                `json:"message"`
	Products             []ProductAvailability `json:"products"`
}

// PresignRequest asks for a presigned document upload URL
type PresignRequest struct {
	Type        models.DocumentType `json:"type" validate:"required"`
	FileName    string              `json:"file_name" validate:"required,max=255"`
	ContentType string              `json:"content_type" validate:"required"`
	SizeBytes   int64               `json:"size_bytes" validate:"gte=0"`
}

func main() {
	// Initialize logger first
	if err := utils.InitLogger("info"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiryMinutes)
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}

	customerRepo := database.NewCustomerRepository(db)
	planRepo := database.NewEMIPlanRepository(db)

	server := &Server{
		db:           db,
		customerRepo: customerRepo,
		planRepo:     planRepo,
		documentRepo: database.NewDocumentRepository(db),
		eligibility:  eligibility.NewService(customerRepo),
		emi:          emi.NewService(planRepo),
		tokens:       tokens,
		validate:     validator.New(),
		config:       cfg,
	}

	// AWS-backed services are optional locally; their endpoints report
	// unavailability when not configured.
	ctx := context.Background()
	if mailer, err := sesService.NewService(ctx, cfg); err != nil {
		log.Printf("Warning: Could not initialize SES service: %v", err)
	} else {
		server.mailer = mailer
	}
	if storage, err := s3service.NewService(ctx, cfg); err != nil {
		log.Printf("Warning: Could not initialize S3 service: %v", err)
	} else {
		server.storage = storage
	}

	// Setup routes
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", server.healthHandler)
	mux.HandleFunc("/api/health", server.healthHandler)

	// Auth
	mux.HandleFunc("/api/register", server.registerHandler)
	mux.HandleFunc("/api/login", server.loginHandler)

	// Eligibility
	mux.HandleFunc("/api/eligibility/check", server.requireAuth(server.eligibilityCheckHandler))
	mux.HandleFunc("/api/eligibility/status", server.requireAuth(server.eligibilityStatusHandler))
	mux.HandleFunc("/api/eligibility/overall", server.requireAuth(server.eligibilityOverallHandler))

	// EMI dashboard
	mux.HandleFunc("/api/emi/dashboard", server.requireAuth(server.emiDashboardHandler))
	mux.HandleFunc("/api/emi/all", server.requireAuth(server.emiAllHandler))

	// Documents
	mux.HandleFunc("/api/documents/presign", server.requireAuth(server.documentPresignHandler))
	mux.HandleFunc("/api/documents", server.requireAuth(server.documentsHandler))

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	utils.Logger.Info("Starting server",
		zap.String("addr", addr),
		zap.String("stage", cfg.Stage),
	)

	if err := http.ListenAndServe(addr, c.Handler(mux)); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// requireAuth wraps a handler with JWT verification and passes the
// authenticated customer id through the request context.
func (s *Server) requireAuth(next func(w http.ResponseWriter, r *http.Request, claims *auth.Claims)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "missing bearer token"})
			return
		}

		claims, err := s.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "invalid or expired token"})
			return
		}

		next(w, r, claims)
	}
}

// healthHandler reports service and database status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "connected"
	status := http.StatusOK
	if err := s.db.HealthCheck(ctx); err != nil {
		dbStatus = "disconnected"
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, Response{
		Success: status == http.StatusOK,
		Data: map[string]string{
			"service":   "loan-management-platform",
			"database":  dbStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// registerHandler creates a customer account and issues a token.
func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondJSON(w, http.StatusMethodNotAllowed, Response{Success: false, Error: "method not allowed"})
		return
	}

	var req models.CustomerCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	req.HomeOwnershipStatus = models.NormalizeHomeOwnership(string(req.HomeOwnershipStatus))
	if !req.HomeOwnershipStatus.IsValid() {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: models.ErrInvalidHomeOwnership.Error()})
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "failed to process registration"})
		return
	}

	id, err := s.customerRepo.Create(r.Context(), &req, passwordHash)
	if err != nil {
		if errors.Is(err, models.ErrEmailAlreadyRegistered) {
			respondJSON(w, http.StatusConflict, Response{Success: false, Error: err.Error()})
			return
		}
		utils.Logger.Error("Failed to create customer", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "failed to create customer"})
		return
	}

	token, err := s.tokens.Issue(id, req.Email)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "failed to issue token"})
		return
	}

	// Welcome email is best-effort; registration already succeeded.
	if s.mailer != nil {
		if _, err := s.mailer.SendWelcomeEmail(r.Context(), req.Email, req.Name); err != nil {
			utils.Logger.Warn("Failed to send welcome email",
				zap.String("email", req.Email),
				zap.Error(err),
			)
		}
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "customer registered",
		Data: AuthResponse{
			CustomerID: id,
			Name:       req.Name,
			Email:      req.Email,
			Token:      token,
		},
	})
}

// loginHandler authenticates a customer and issues a token.
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondJSON(w, http.StatusMethodNotAllowed, Response{Success: false, Error: "method not allowed"})
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	customer, err := s.customerRepo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		utils.Logger.Error("Failed to look up customer", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "login failed"})
		return
	}
	if customer == nil || !auth.VerifyPassword(req.Password, customer.PasswordHash) {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: models.ErrInvalidCredentials.Error()})
		return
	}

	token, err := s.tokens.Issue(customer.ID, customer.Email)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "failed to issue token"})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: AuthResponse{
			CustomerID: customer.ID,
			Name:       customer.Name,
			Email:      customer.Email,
			Token:      token,
		},
	})
}

// eligibilityCheckHandler returns the full scoring result for one product.
// With notify=true the result is also emailed to the customer.
func (s *Server) eligibilityCheckHandler(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	productID := parseProductID(r)

	result, err := s.eligibility.CalculateEligibility(r.Context(), claims.CustomerID, productID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if r.URL.Query().Get("notify") == "true" && s.mailer != nil {
		eligibleIDs, err := s.eligibility.EligibleProductIDs(r.Context(), claims.CustomerID)
		if err == nil {
			eligible := make([]models.LoanProduct, 0, len(eligibleIDs))
			for _, id := range eligibleIDs {
				if p, ok := models.LoanProductByID(id); ok {
					eligible = append(eligible, p)
				}
			}
			customer, err := s.customerRepo.GetByID(r.Context(), claims.CustomerID)
			if err == nil && customer != nil {
				if _, err := s.mailer.SendEligibilityEmail(r.Context(), customer.Email, customer.Name, result, eligible); err != nil {
					utils.Logger.Warn("Failed to send eligibility email",
						zap.Int64("customer_id", claims.CustomerID),
						zap.Error(err),
					)
				}
			}
		}
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// eligibilityStatusHandler answers the yes/no question for one product.
func (s *Server) eligibilityStatusHandler(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	productID := parseProductID(r)

	isEligible, err := s.eligibility.IsEligibleForLoan(r.Context(), claims.CustomerID, productID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	message := "Customer is eligible"
	if !isEligible {
		message = "Customer is not eligible"
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    map[string]bool{"is_eligible": isEligible},
	})
}

// eligibilityOverallHandler returns the score plus per-product availability.
func (s *Server) eligibilityOverallHandler(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	result, err := s.eligibility.CalculateEligibility(r.Context(), claims.CustomerID, models.LoanProductAny)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	eligibleIDs, err := s.eligibility.EligibleProductIDs(r.Context(), claims.CustomerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	eligibleSet := make(map[models.LoanProductID]bool, len(eligibleIDs))
	for _, id := range eligibleIDs {
		eligibleSet[id] = true
	}

	products := make([]ProductAvailability, 0, 3)
	for _, p := range models.LoanProducts() {
		products = append(products, ProductAvailability{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   eligibleSet[p.ID],
		})
	}

	var message string
	switch {
	case result.EligibilityScore >= models.ScoreThresholdAllProducts:
		message = "Congratulations! You can apply for all loan products."
	case result.EligibilityScore >= models.ScoreThresholdBase:
		message = "You can apply for Personal and Vehicle loans. Score 65+ needed for Home Loan."
	default:
		message = fmt.Sprintf("Score %.2f/100. Need 55+ to apply for loans.", result.EligibilityScore)
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: OverallEligibilityResponse{
			CustomerID:           claims.CustomerID,
			EligibilityScore:     result.EligibilityScore,
			Status:               result.EligibilityStatus,
			EligibleProductCount: len(eligibleIDs),
			Message:              message,
			Products:             products,
		},
	})
}

// emiDashboardHandler returns the snapshot of the active plan.
func (s *Server) emiDashboardHandler(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	snapshot, err := s.emi.GetDashboard(r.Context(), claims.CustomerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: snapshot})
}

// emiAllHandler returns snapshots for every plan of the customer.
func (s *Server) emiAllHandler(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	snapshots, err := s.emi.GetAllDashboards(r.Context(), claims.CustomerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: snapshots})
}

// documentPresignHandler records a pending document and returns an upload URL.
func (s *Server) documentPresignHandler(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	if r.Method != http.MethodPost {
		respondJSON(w, http.StatusMethodNotAllowed, Response{Success: false, Error: "method not allowed"})
		return
	}
	if s.storage == nil {
		respondJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "document storage not configured"})
		return
	}

	var req PresignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	if !req.Type.IsValid() {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: models.ErrInvalidDocumentType.Error()})
		return
	}

	key := s3service.DocumentKey(claims.CustomerID, req.FileName)
	presigned, err := s.storage.GeneratePresignedUploadURL(r.Context(), key, req.ContentType, 15)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "failed to generate upload URL"})
		return
	}

	docID, err := s.documentRepo.Create(r.Context(), &models.DocumentCreate{
		CustomerID:  claims.CustomerID,
		Type:        req.Type,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	}, key)
	if err != nil {
		utils.Logger.Error("Failed to record document", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "failed to record document"})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Data: map[string]interface{}{
			"document_id": docID,
			"upload":      presigned,
		},
	})
}

// documentsHandler lists the customer's documents.
func (s *Server) documentsHandler(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	docs, err := s.documentRepo.GetByCustomer(r.Context(), claims.CustomerID)
	if err != nil {
		utils.Logger.Error("Failed to list documents", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "failed to list documents"})
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: docs})
}

// parseProductID reads the product_id query parameter, defaulting to the
// "any product" label.
func parseProductID(r *http.Request) models.LoanProductID {
	raw := r.URL.Query().Get("product_id")
	if raw == "" {
		return models.LoanProductAny
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return models.LoanProductAny
	}
	return models.LoanProductID(id)
}

// respondServiceError maps service errors onto HTTP status codes.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrCustomerNotFound), errors.Is(err, models.ErrEMIPlanNotFound):
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.Is(err, models.ErrInvalidEMIPlan):
		respondJSON(w, http.StatusUnprocessableEntity, Response{Success: false, Error: err.Error()})
	default:
		utils.Logger.Error("Request failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "internal error"})
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
