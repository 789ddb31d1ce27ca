package models

// Request models
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TenantLoginRequest struct {
	HouseNo  string `json:"houseNo" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TenantRequest carries tenant fields for add and update operations.
// MoveInDate is a YYYY-MM-DD string; the handler parses it before the
// service is invoked.
type TenantRequest struct {
	HouseNo     string `json:"houseNo" binding:"required"`
	TenantName  string `json:"tenantName" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	ApartmentID int    `json:"apartmentId" binding:"required"`
	MoveInDate  string `json:"moveInDate" binding:"required"`
}

// TenantUpdateRequest is the update body; the house number comes from the
// request path.
type TenantUpdateRequest struct {
	TenantName  string `json:"tenantName" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	ApartmentID int    `json:"apartmentId" binding:"required"`
	MoveInDate  string `json:"moveInDate" binding:"required"`
}

type MakePaymentRequest struct {
	PaymentDate string  `json:"paymentDate" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Method      string  `json:"method" binding:"required"`
}

type MaintenanceRequestInput struct {
	ApartmentID      int    `json:"apartmentId" binding:"required"`
	IssueDescription string `json:"issueDescription" binding:"required"`
}

type CompleteMaintenanceRequest struct {
	ApartmentID int    `json:"apartmentId" binding:"required"`
	HouseNo     string `json:"houseNo" binding:"required"`
}

// Response models
type TokenResponse struct {
	Status    string `json:"status"`
	Role      string `json:"role"`
	HouseNo   string `json:"houseNo,omitempty"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

type ApartmentsResponse struct {
	Status     string      `json:"status"`
	Apartments []Apartment `json:"apartments"`
}

type TenantsResponse struct {
	Status  string   `json:"status"`
	Tenants []Tenant `json:"tenants"`
}

// TenantMutationResponse reports the outcome of a tenant add, update or
// delete. AuditLogged is false when the mutation committed but the
// best-effort audit write failed.
type TenantMutationResponse struct {
	Status      string `json:"status"`
	HouseNo     string `json:"houseNo"`
	Message     string `json:"message"`
	AuditLogged bool   `json:"auditLogged"`
}

type DueAmountResponse struct {
	Status    string  `json:"status"`
	HouseNo   string  `json:"houseNo"`
	DueAmount float64 `json:"dueAmount"`
}

type PaymentsResponse struct {
	Status   string    `json:"status"`
	HouseNo  string    `json:"houseNo"`
	Payments []Payment `json:"payments"`
}

type PaymentResponse struct {
	Status       string  `json:"status"`
	PaymentID    string  `json:"paymentId"`
	HouseNo      string  `json:"houseNo"`
	RemainingDue float64 `json:"remainingDue"`
	Message      string  `json:"message"`
}

type MaintenanceResponse struct {
	Status      string `json:"status"`
	RequestID   string `json:"requestId"`
	HouseNo     string `json:"houseNo"`
	RequestDate string `json:"requestDate"`
	Message     string `json:"message"`
}

// Service outcomes for the complete-maintenance operation. A "nothing to do"
// result distinguishes a pair that never filed a complaint from one whose
// complaints are all completed.
const (
	ServiceOutcomeCompleted        = "serviced"
	ServiceOutcomeNoComplaint      = "no_complaint"
	ServiceOutcomeAlreadyCompleted = "already_completed"
)

type ServiceResultResponse struct {
	Status      string   `json:"status"`
	Outcome     string   `json:"outcome"`
	IssuesFixed []string `json:"issuesFixed,omitempty"`
	Message     string   `json:"message"`
}

type ComplaintsResponse struct {
	Status     string      `json:"status"`
	Complaints []Complaint `json:"complaints"`
}

type AuditEntriesResponse struct {
	Status  string       `json:"status"`
	Entries []AuditEvent `json:"entries"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
