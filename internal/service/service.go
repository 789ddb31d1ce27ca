package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mounikab/rental-server/internal/config"
	"github.com/mounikab/rental-server/internal/models"
	"github.com/mounikab/rental-server/internal/repository"
	"github.com/mounikab/rental-server/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// Typed outcomes returned across the service boundary. Store-level errors
// never cross it raw; each operation wraps them.
var (
	ErrTenantNotFound       = errors.New("tenant not found")
	ErrHouseNoTaken         = errors.New("a tenant with this house number already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// Roles carried in session tokens
const (
	RoleAdmin  = "admin"
	RoleTenant = "tenant"
)

// MaintenanceServiceFee is charged to the tenant's balance once per
// completed service event, regardless of how many issues were fixed.
const MaintenanceServiceFee = 100

// Service defines all the business logic operations
type Service interface {
	// Authentication
	AdminLogin(ctx context.Context, req models.AdminLoginRequest) (*models.TokenResponse, error)
	TenantLogin(ctx context.Context, req models.TenantLoginRequest) (*models.TokenResponse, error)

	// Admin operations
	ListApartments(ctx context.Context) ([]models.Apartment, error)
	ListTenants(ctx context.Context) ([]models.Tenant, error)
	AddTenant(ctx context.Context, tenant models.Tenant) (*models.TenantMutationResponse, error)
	UpdateTenant(ctx context.Context, tenant models.Tenant) (*models.TenantMutationResponse, error)
	DeleteTenant(ctx context.Context, houseNo string) (*models.TenantMutationResponse, error)
	CompleteMaintenanceService(ctx context.Context, apartmentID int, houseNo string) (*models.ServiceResultResponse, error)
	ListComplaints(ctx context.Context) ([]models.Complaint, error)
	ListLatestAuditEntries(ctx context.Context) ([]models.AuditEvent, error)

	// Tenant operations
	GetDueAmount(ctx context.Context, houseNo string) (*models.DueAmountResponse, error)
	GetPaymentHistory(ctx context.Context, houseNo string) ([]models.Payment, error)
	MakePayment(ctx context.Context, houseNo string, paymentDate time.Time, amount float64, method string) (*models.PaymentResponse, error)
	FileMaintenanceRequest(ctx context.Context, apartmentID int, houseNo, issueDescription string) (*models.MaintenanceResponse, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	logger        *utils.Logger
	jwtSecret     []byte
	tokenDuration time.Duration
	adminUsername string
	adminHash     []byte
	tenantHash    []byte
}

// NewDefaultService creates a new DefaultService. The configured admin and
// shared tenant passwords are hashed once here so login compares hashes
// rather than raw strings.
func NewDefaultService(repo repository.Repository, logger *utils.Logger, authCfg config.AuthConfig) (Service, error) {
	adminHash, err := bcrypt.GenerateFromPassword([]byte(authCfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing admin password: %w", err)
	}

	tenantHash, err := bcrypt.GenerateFromPassword([]byte(authCfg.TenantPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing tenant password: %w", err)
	}

	return &DefaultService{
		repo:          repo,
		logger:        logger,
		jwtSecret:     []byte(authCfg.JWTSecret),
		tokenDuration: 24 * time.Hour, // 24 hours token validity
		adminUsername: authCfg.AdminUsername,
		adminHash:     adminHash,
		tenantHash:    tenantHash,
	}, nil
}

// Authentication methods
func (s *DefaultService) AdminLogin(ctx context.Context, req models.AdminLoginRequest) (*models.TokenResponse, error) {
	if req.Username != s.adminUsername {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(s.adminHash, []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(s.adminUsername, RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.TokenResponse{
		Status:    "success",
		Role:      RoleAdmin,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

func (s *DefaultService) TenantLogin(ctx context.Context, req models.TenantLoginRequest) (*models.TokenResponse, error) {
	if err := bcrypt.CompareHashAndPassword(s.tenantHash, []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// The house number must belong to an existing tenant
	tenant, err := s.repo.GetTenant(ctx, req.HouseNo)
	if err != nil {
		return nil, fmt.Errorf("error checking tenant existence: %w", err)
	}

	if tenant == nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(tenant.HouseNo, RoleTenant)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.TokenResponse{
		Status:    "success",
		Role:      RoleTenant,
		HouseNo:   tenant.HouseNo,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

// Admin operations
func (s *DefaultService) ListApartments(ctx context.Context) ([]models.Apartment, error) {
	apartments, err := s.repo.ListApartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing apartments: %w", err)
	}

	return apartments, nil
}

func (s *DefaultService) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	tenants, err := s.repo.ListTenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing tenants: %w", err)
	}

	return tenants, nil
}

func (s *DefaultService) AddTenant(ctx context.Context, tenant models.Tenant) (*models.TenantMutationResponse, error) {
	// Check if a tenant already occupies this house number
	existing, err := s.repo.GetTenant(ctx, tenant.HouseNo)
	if err != nil {
		return nil, fmt.Errorf("error checking tenant existence: %w", err)
	}

	if existing != nil {
		return nil, ErrHouseNoTaken
	}

	if err := s.repo.CreateTenant(ctx, &tenant); err != nil {
		return nil, fmt.Errorf("error adding tenant: %w", err)
	}

	resp := &models.TenantMutationResponse{
		Status:      "success",
		HouseNo:     tenant.HouseNo,
		Message:     fmt.Sprintf("Tenant '%s' added successfully", tenant.TenantName),
		AuditLogged: true,
	}
	if err := s.logAudit(ctx, models.AuditActionInsert, tenant); err != nil {
		s.logger.Error("audit write failed for %s on house %s: %v", models.AuditActionInsert, tenant.HouseNo, err)
		resp.AuditLogged = false
	}

	return resp, nil
}

func (s *DefaultService) UpdateTenant(ctx context.Context, tenant models.Tenant) (*models.TenantMutationResponse, error) {
	existing, err := s.repo.GetTenant(ctx, tenant.HouseNo)
	if err != nil {
		return nil, fmt.Errorf("error checking tenant existence: %w", err)
	}

	if existing == nil {
		return nil, ErrTenantNotFound
	}

	if err := s.repo.UpdateTenant(ctx, &tenant); err != nil {
		return nil, fmt.Errorf("error updating tenant: %w", err)
	}

	resp := &models.TenantMutationResponse{
		Status:      "success",
		HouseNo:     tenant.HouseNo,
		Message:     fmt.Sprintf("Tenant '%s' updated successfully", tenant.TenantName),
		AuditLogged: true,
	}
	if err := s.logAudit(ctx, models.AuditActionUpdate, tenant); err != nil {
		s.logger.Error("audit write failed for %s on house %s: %v", models.AuditActionUpdate, tenant.HouseNo, err)
		resp.AuditLogged = false
	}

	return resp, nil
}

func (s *DefaultService) DeleteTenant(ctx context.Context, houseNo string) (*models.TenantMutationResponse, error) {
	// The snapshot must be captured before the row disappears, even though
	// the DELETE audit entry records only the house number.
	tenant, err := s.repo.GetTenant(ctx, houseNo)
	if err != nil {
		return nil, fmt.Errorf("error fetching tenant details: %w", err)
	}

	if tenant == nil {
		return nil, ErrTenantNotFound
	}

	if err := s.repo.DeleteTenant(ctx, houseNo); err != nil {
		return nil, fmt.Errorf("error deleting tenant: %w", err)
	}

	resp := &models.TenantMutationResponse{
		Status:      "success",
		HouseNo:     houseNo,
		Message:     fmt.Sprintf("Tenant record in '%s' deleted successfully", houseNo),
		AuditLogged: true,
	}
	if err := s.logAudit(ctx, models.AuditActionDelete, *tenant); err != nil {
		s.logger.Error("audit write failed for %s on house %s: %v", models.AuditActionDelete, houseNo, err)
		resp.AuditLogged = false
	}

	return resp, nil
}

func (s *DefaultService) CompleteMaintenanceService(ctx context.Context, apartmentID int, houseNo string) (*models.ServiceResultResponse, error) {
	total, open, err := s.repo.CountMaintenance(ctx, apartmentID, houseNo)
	if err != nil {
		return nil, fmt.Errorf("error checking complaints: %w", err)
	}

	if total == 0 {
		return &models.ServiceResultResponse{
			Status:  "success",
			Outcome: models.ServiceOutcomeNoComplaint,
			Message: "No complaint registered for this apartment",
		}, nil
	}

	if open == 0 {
		return &models.ServiceResultResponse{
			Status:  "success",
			Outcome: models.ServiceOutcomeAlreadyCompleted,
			Message: "Maintenance service already completed",
		}, nil
	}

	issues, err := s.repo.CompleteMaintenance(ctx, apartmentID, houseNo, MaintenanceServiceFee)
	if err != nil {
		return nil, fmt.Errorf("error completing maintenance service: %w", err)
	}

	return &models.ServiceResultResponse{
		Status:      "success",
		Outcome:     models.ServiceOutcomeCompleted,
		IssuesFixed: issues,
		Message: fmt.Sprintf("Maintenance service completed for apartment %d, house %s. Issues fixed: %s",
			apartmentID, houseNo, strings.Join(issues, ", ")),
	}, nil
}

func (s *DefaultService) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	complaints, err := s.repo.ListComplaints(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing complaints: %w", err)
	}

	return complaints, nil
}

func (s *DefaultService) ListLatestAuditEntries(ctx context.Context) ([]models.AuditEvent, error) {
	entries, err := s.repo.ListLatestAuditEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing audit entries: %w", err)
	}

	return entries, nil
}

// Tenant operations
func (s *DefaultService) GetDueAmount(ctx context.Context, houseNo string) (*models.DueAmountResponse, error) {
	tenant, err := s.repo.GetTenant(ctx, houseNo)
	if err != nil {
		return nil, fmt.Errorf("error getting tenant: %w", err)
	}

	if tenant == nil {
		return nil, ErrTenantNotFound
	}

	return &models.DueAmountResponse{
		Status:    "success",
		HouseNo:   tenant.HouseNo,
		DueAmount: tenant.DueAmount,
	}, nil
}

func (s *DefaultService) GetPaymentHistory(ctx context.Context, houseNo string) ([]models.Payment, error) {
	tenant, err := s.repo.GetTenant(ctx, houseNo)
	if err != nil {
		return nil, fmt.Errorf("error getting tenant: %w", err)
	}

	if tenant == nil {
		return nil, ErrTenantNotFound
	}

	payments, err := s.repo.ListPayments(ctx, houseNo)
	if err != nil {
		return nil, fmt.Errorf("error listing payments: %w", err)
	}

	return payments, nil
}

func (s *DefaultService) MakePayment(ctx context.Context, houseNo string, paymentDate time.Time, amount float64, method string) (*models.PaymentResponse, error) {
	pm, ok := models.ParsePaymentMethod(method)
	if !ok {
		return nil, ErrInvalidPaymentMethod
	}

	// No rows are written for an unknown house number
	tenant, err := s.repo.GetTenant(ctx, houseNo)
	if err != nil {
		return nil, fmt.Errorf("error getting tenant: %w", err)
	}

	if tenant == nil {
		return nil, ErrTenantNotFound
	}

	// The method selects a confirmation step only; all variants persist
	// identically apart from the payment_method field.
	switch pm {
	case models.PaymentMethodCreditCard:
		s.logger.Info("Processing credit card payment of %.2f for house %s on %s", amount, houseNo, paymentDate.Format("2006-01-02"))
	case models.PaymentMethodCash:
		s.logger.Info("Processing cash payment of %.2f for house %s on %s", amount, houseNo, paymentDate.Format("2006-01-02"))
	case models.PaymentMethodBankTransfer:
		s.logger.Info("Processing bank transfer payment of %.2f for house %s on %s", amount, houseNo, paymentDate.Format("2006-01-02"))
	}

	payment := models.Payment{
		HouseNo:       houseNo,
		PaymentDate:   paymentDate,
		AmountPaid:    amount,
		PaymentMethod: pm,
	}

	if err := s.repo.CreatePayment(ctx, &payment); err != nil {
		return nil, fmt.Errorf("error recording payment: %w", err)
	}

	return &models.PaymentResponse{
		Status:       "success",
		PaymentID:    payment.PaymentID,
		HouseNo:      houseNo,
		RemainingDue: tenant.DueAmount - amount,
		Message:      "Payment recorded successfully",
	}, nil
}

func (s *DefaultService) FileMaintenanceRequest(ctx context.Context, apartmentID int, houseNo, issueDescription string) (*models.MaintenanceResponse, error) {
	tenant, err := s.repo.GetTenant(ctx, houseNo)
	if err != nil {
		return nil, fmt.Errorf("error getting tenant: %w", err)
	}

	if tenant == nil {
		return nil, ErrTenantNotFound
	}

	req := models.MaintenanceRequest{
		ApartmentID:      apartmentID,
		HouseNo:          houseNo,
		IssueDescription: issueDescription,
	}

	if err := s.repo.CreateMaintenanceRequest(ctx, &req); err != nil {
		return nil, fmt.Errorf("error submitting maintenance request: %w", err)
	}

	return &models.MaintenanceResponse{
		Status:      "success",
		RequestID:   req.ID,
		HouseNo:     houseNo,
		RequestDate: req.RequestDate.Format(time.RFC3339),
		Message:     "Maintenance request submitted successfully",
	}, nil
}

// logAudit writes one audit entry for a tenant mutation. It runs in its own
// transaction after the mutation has committed: a crash between the two can
// leave a mutation without an audit row, and a failed audit write must not
// roll back the mutation.
func (s *DefaultService) logAudit(ctx context.Context, action models.AuditAction, tenant models.Tenant) error {
	event := models.AuditEvent{
		HouseNo: tenant.HouseNo,
		Action:  action,
	}

	// DELETE entries record only the house number
	if action != models.AuditActionDelete {
		event.TenantName = &tenant.TenantName
		event.PhoneNumber = &tenant.PhoneNumber
		event.ApartmentID = &tenant.ApartmentID
		event.MoveInDate = &tenant.MoveInDate
	}

	return s.repo.AppendAuditEvent(ctx, &event)
}

// Helper methods
func (s *DefaultService) generateJWT(subject, role string) (string, error) {
	expirationTime := time.Now().Add(s.tokenDuration)

	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  expirationTime.Unix(),
		"iat":  time.Now().Unix(), // issued at
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
