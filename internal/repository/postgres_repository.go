package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mounikab/rental-server/internal/models"
)

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// Apartment operations
	ListApartments(ctx context.Context) ([]models.Apartment, error)

	// Tenant operations
	ListTenants(ctx context.Context) ([]models.Tenant, error)
	GetTenant(ctx context.Context, houseNo string) (*models.Tenant, error)
	CreateTenant(ctx context.Context, tenant *models.Tenant) error
	UpdateTenant(ctx context.Context, tenant *models.Tenant) error
	DeleteTenant(ctx context.Context, houseNo string) error

	// Payment operations
	CreatePayment(ctx context.Context, payment *models.Payment) error
	ListPayments(ctx context.Context, houseNo string) ([]models.Payment, error)

	// Maintenance operations
	CreateMaintenanceRequest(ctx context.Context, req *models.MaintenanceRequest) error
	CountMaintenance(ctx context.Context, apartmentID int, houseNo string) (total int, open int, err error)
	CompleteMaintenance(ctx context.Context, apartmentID int, houseNo string, fee float64) ([]string, error)
	ListComplaints(ctx context.Context) ([]models.Complaint, error)

	// Audit operations
	AppendAuditEvent(ctx context.Context, event *models.AuditEvent) error
	ListLatestAuditEntries(ctx context.Context) ([]models.AuditEvent, error)
}

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// Apartment repository methods
func (r *PostgresRepository) ListApartments(ctx context.Context) ([]models.Apartment, error) {
	query := `
		SELECT apartment_id, apartment_name, address, num_of_rooms, rent
		FROM apartments
		ORDER BY apartment_id
	`

	apartments := []models.Apartment{}
	err := r.db.SelectContext(ctx, &apartments, query)
	if err != nil {
		return nil, err
	}

	return apartments, nil
}

// Tenant repository methods
func (r *PostgresRepository) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	query := `
		SELECT house_no, tenant_name, phone_number, apartment_id, move_in_date, due_amount
		FROM tenants
		ORDER BY house_no
	`

	tenants := []models.Tenant{}
	err := r.db.SelectContext(ctx, &tenants, query)
	if err != nil {
		return nil, err
	}

	return tenants, nil
}

func (r *PostgresRepository) GetTenant(ctx context.Context, houseNo string) (*models.Tenant, error) {
	query := `
		SELECT house_no, tenant_name, phone_number, apartment_id, move_in_date, due_amount
		FROM tenants
		WHERE house_no = $1
	`

	var tenant models.Tenant
	err := r.db.GetContext(ctx, &tenant, query, houseNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Tenant not found
		}
		return nil, err
	}

	return &tenant, nil
}

func (r *PostgresRepository) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (house_no, tenant_name, phone_number, apartment_id, move_in_date)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		tenant.HouseNo, tenant.TenantName, tenant.PhoneNumber, tenant.ApartmentID, tenant.MoveInDate)

	return err
}

func (r *PostgresRepository) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	// Zero rows affected is not distinguished from success; callers verify
	// existence first when they need that guarantee.
	query := `
		UPDATE tenants
		SET tenant_name = $1, phone_number = $2, apartment_id = $3, move_in_date = $4
		WHERE house_no = $5
	`

	_, err := r.db.ExecContext(ctx, query,
		tenant.TenantName, tenant.PhoneNumber, tenant.ApartmentID, tenant.MoveInDate, tenant.HouseNo)

	return err
}

func (r *PostgresRepository) DeleteTenant(ctx context.Context, houseNo string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tenants WHERE house_no = $1`, houseNo)
	return err
}

// Payment repository methods

// CreatePayment inserts the payment row and decrements the tenant's running
// balance in a single transaction. Either both writes commit or neither does.
func (r *PostgresRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	// Generate a new UUID if not provided
	if payment.PaymentID == "" {
		payment.PaymentID = uuid.New().String()
	}

	query := `
		INSERT INTO payments (payment_id, house_no, payment_date, amount_paid, payment_method)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = tx.ExecContext(ctx, query,
		payment.PaymentID, payment.HouseNo, payment.PaymentDate,
		payment.AmountPaid, string(payment.PaymentMethod))
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE tenants SET due_amount = due_amount - $1 WHERE house_no = $2`,
		payment.AmountPaid, payment.HouseNo)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) ListPayments(ctx context.Context, houseNo string) ([]models.Payment, error) {
	query := `
		SELECT payment_id, house_no, payment_date, amount_paid, payment_method
		FROM payments
		WHERE house_no = $1
		ORDER BY payment_date
	`

	payments := []models.Payment{}
	err := r.db.SelectContext(ctx, &payments, query, houseNo)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

// Maintenance repository methods
func (r *PostgresRepository) CreateMaintenanceRequest(ctx context.Context, req *models.MaintenanceRequest) error {
	// Generate a new UUID if not provided
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	req.Status = models.MaintenanceStatusOpen

	// request_date is assigned by the database
	query := `
		INSERT INTO maintenance_requests (id, apartment_id, house_no, issue_description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING request_date
	`

	return r.db.QueryRowContext(ctx, query,
		req.ID, req.ApartmentID, req.HouseNo, req.IssueDescription, req.Status).
		Scan(&req.RequestDate)
}

// CountMaintenance returns how many maintenance rows exist for the
// (apartment, house) pair and how many of them are still open.
func (r *PostgresRepository) CountMaintenance(ctx context.Context, apartmentID int, houseNo string) (int, int, error) {
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE status <> $3) AS open
		FROM maintenance_requests
		WHERE apartment_id = $1 AND house_no = $2
	`

	var counts struct {
		Total int `db:"total"`
		Open  int `db:"open"`
	}
	err := r.db.GetContext(ctx, &counts, query, apartmentID, houseNo, models.MaintenanceStatusCompleted)
	if err != nil {
		return 0, 0, err
	}

	return counts.Total, counts.Open, nil
}

// CompleteMaintenance marks every open maintenance row for the pair as
// completed and charges the service fee to the tenant's balance, atomically.
// It returns the descriptions of the issues fixed.
func (r *PostgresRepository) CompleteMaintenance(ctx context.Context, apartmentID int, houseNo string, fee float64) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	rows, err := tx.QueryContext(ctx,
		`SELECT issue_description FROM maintenance_requests
		 WHERE apartment_id = $1 AND house_no = $2 AND status <> $3`,
		apartmentID, houseNo, models.MaintenanceStatusCompleted)
	if err != nil {
		return nil, err
	}

	var issues []string
	for rows.Next() {
		var issue string
		if err = rows.Scan(&issue); err != nil {
			rows.Close()
			return nil, err
		}
		issues = append(issues, issue)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(issues) == 0 {
		err = errors.New("no open maintenance rows to complete")
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE maintenance_requests SET status = $1
		 WHERE apartment_id = $2 AND house_no = $3 AND status <> $1`,
		models.MaintenanceStatusCompleted, apartmentID, houseNo)
	if err != nil {
		return nil, err
	}

	// The fee is charged once per service event, not per issue
	_, err = tx.ExecContext(ctx,
		`UPDATE tenants SET due_amount = due_amount + $1 WHERE house_no = $2`,
		fee, houseNo)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return issues, nil
}

func (r *PostgresRepository) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	query := `
		SELECT a.apartment_name, a.address, m.house_no, t.tenant_name, t.phone_number,
		       m.issue_description, m.request_date, m.status
		FROM maintenance_requests m
		JOIN tenants t ON m.house_no = t.house_no
		JOIN apartments a ON m.apartment_id = a.apartment_id
		ORDER BY m.request_date
	`

	complaints := []models.Complaint{}
	err := r.db.SelectContext(ctx, &complaints, query)
	if err != nil {
		return nil, err
	}

	return complaints, nil
}

// Audit repository methods

// AppendAuditEvent writes one audit row in its own transaction, independent
// of the tenant mutation that triggered it. change_date is assigned by the
// database and read back into the event.
func (r *PostgresRepository) AppendAuditEvent(ctx context.Context, event *models.AuditEvent) error {
	// Generate a new UUID if not provided
	if event.AuditID == "" {
		event.AuditID = uuid.New().String()
	}

	query := `
		INSERT INTO audit_tenant (audit_id, house_no, tenant_name, phone_number, apartment_id, move_in_date, action)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING change_date
	`

	return r.db.QueryRowContext(ctx, query,
		event.AuditID, event.HouseNo, event.TenantName, event.PhoneNumber,
		event.ApartmentID, event.MoveInDate, string(event.Action)).
		Scan(&event.ChangeDate)
}

// ListLatestAuditEntries returns every audit row sharing the maximum
// change_date, which may be more than one row when several changes land
// within the timestamp granularity.
func (r *PostgresRepository) ListLatestAuditEntries(ctx context.Context) ([]models.AuditEvent, error) {
	query := `
		SELECT audit_id, house_no, tenant_name, phone_number, apartment_id, move_in_date, action, change_date
		FROM audit_tenant
		WHERE change_date = (SELECT MAX(change_date) FROM audit_tenant)
		ORDER BY audit_id
	`

	entries := []models.AuditEvent{}
	err := r.db.SelectContext(ctx, &entries, query)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
