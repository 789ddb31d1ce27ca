package models

import (
	"time"
)

// Apartment represents a rentable unit. Apartments are created outside this
// application; the operation set only reads them.
type Apartment struct {
	ApartmentID   int     `db:"apartment_id" json:"apartmentId"`
	ApartmentName string  `db:"apartment_name" json:"apartmentName"`
	Address       string  `db:"address" json:"address"`
	NumOfRooms    int     `db:"num_of_rooms" json:"numOfRooms"`
	Rent          float64 `db:"rent" json:"rent"`
}

// Tenant represents an occupant keyed by house number. DueAmount is the
// running balance: payments decrement it, completed maintenance service
// fees increment it.
type Tenant struct {
	HouseNo     string    `db:"house_no" json:"houseNo"`
	TenantName  string    `db:"tenant_name" json:"tenantName"`
	PhoneNumber string    `db:"phone_number" json:"phoneNumber"`
	ApartmentID int       `db:"apartment_id" json:"apartmentId"`
	MoveInDate  time.Time `db:"move_in_date" json:"moveInDate"`
	DueAmount   float64   `db:"due_amount" json:"dueAmount"`
}

// Payment represents a rent payment. Payment rows are never updated or
// deleted once written.
type Payment struct {
	PaymentID     string        `db:"payment_id" json:"paymentId"`
	HouseNo       string        `db:"house_no" json:"houseNo"`
	PaymentDate   time.Time     `db:"payment_date" json:"paymentDate"`
	AmountPaid    float64       `db:"amount_paid" json:"amountPaid"`
	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod"`
}

// PaymentMethod is the closed set of accepted payment methods.
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "Credit Card"
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodBankTransfer PaymentMethod = "Bank Transfer"
)

// ParsePaymentMethod validates a caller-supplied method string against the
// closed enumeration.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch m := PaymentMethod(s); m {
	case PaymentMethodCreditCard, PaymentMethodCash, PaymentMethodBankTransfer:
		return m, true
	default:
		return "", false
	}
}

// Maintenance request status values.
const (
	MaintenanceStatusOpen      = "Open"
	MaintenanceStatusCompleted = "Completed"
)

// MaintenanceRequest represents a tenant-filed maintenance issue.
// RequestDate is assigned by the database on insert.
type MaintenanceRequest struct {
	ID               string    `db:"id" json:"id"`
	ApartmentID      int       `db:"apartment_id" json:"apartmentId"`
	HouseNo          string    `db:"house_no" json:"houseNo"`
	IssueDescription string    `db:"issue_description" json:"issueDescription"`
	RequestDate      time.Time `db:"request_date" json:"requestDate"`
	Status           string    `db:"status" json:"status"`
}

// Complaint is the joined maintenance view (maintenance x tenant x
// apartment) shown to the administrator.
type Complaint struct {
	ApartmentName    string    `db:"apartment_name" json:"apartmentName"`
	Address          string    `db:"address" json:"address"`
	HouseNo          string    `db:"house_no" json:"houseNo"`
	TenantName       string    `db:"tenant_name" json:"tenantName"`
	PhoneNumber      string    `db:"phone_number" json:"phoneNumber"`
	IssueDescription string    `db:"issue_description" json:"issueDescription"`
	RequestDate      time.Time `db:"request_date" json:"requestDate"`
	Status           string    `db:"status" json:"status"`
}

// AuditAction identifies which tenant mutation produced an audit entry.
type AuditAction string

const (
	AuditActionInsert AuditAction = "INSERT"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

// AuditEvent is one append-only audit_tenant row. DELETE events record only
// the house number; the snapshot columns stay NULL.
type AuditEvent struct {
	AuditID     string      `db:"audit_id" json:"auditId"`
	HouseNo     string      `db:"house_no" json:"houseNo"`
	TenantName  *string     `db:"tenant_name" json:"tenantName,omitempty"`
	PhoneNumber *string     `db:"phone_number" json:"phoneNumber,omitempty"`
	ApartmentID *int        `db:"apartment_id" json:"apartmentId,omitempty"`
	MoveInDate  *time.Time  `db:"move_in_date" json:"moveInDate,omitempty"`
	Action      AuditAction `db:"action" json:"action"`
	ChangeDate  time.Time   `db:"change_date" json:"changeDate"`
}
