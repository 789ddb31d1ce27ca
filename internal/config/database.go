package config

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// SetupDatabase initializes the database connection. An unreachable store is
// a startup failure; no per-operation reconnect is attempted.
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	// Create apartments table. Rows are inserted externally; this
	// application only lists them.
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS apartments (
			apartment_id INTEGER PRIMARY KEY,
			apartment_name VARCHAR(255) NOT NULL,
			address VARCHAR(255) NOT NULL,
			num_of_rooms INTEGER NOT NULL,
			rent NUMERIC(10,2) NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create tenants table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS tenants (
			house_no VARCHAR(20) PRIMARY KEY,
			tenant_name VARCHAR(255) NOT NULL,
			phone_number VARCHAR(20) NOT NULL,
			apartment_id INTEGER NOT NULL REFERENCES apartments(apartment_id),
			move_in_date DATE NOT NULL,
			due_amount NUMERIC(10,2) NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return err
	}

	// Create payments table (append-only)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS payments (
			payment_id VARCHAR(36) PRIMARY KEY,
			house_no VARCHAR(20) NOT NULL REFERENCES tenants(house_no) ON DELETE CASCADE,
			payment_date DATE NOT NULL,
			amount_paid NUMERIC(10,2) NOT NULL,
			payment_method VARCHAR(20) NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create maintenance_requests table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS maintenance_requests (
			id VARCHAR(36) PRIMARY KEY,
			apartment_id INTEGER NOT NULL REFERENCES apartments(apartment_id),
			house_no VARCHAR(20) NOT NULL REFERENCES tenants(house_no) ON DELETE CASCADE,
			issue_description TEXT NOT NULL,
			request_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			status VARCHAR(20) NOT NULL DEFAULT 'Open'
		)
	`)
	if err != nil {
		return err
	}

	// Create audit_tenant table (append-only). The snapshot columns are
	// nullable: DELETE entries record only the house number. change_date is
	// assigned by the database.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_tenant (
			audit_id VARCHAR(36) PRIMARY KEY,
			house_no VARCHAR(20) NOT NULL,
			tenant_name VARCHAR(255),
			phone_number VARCHAR(20),
			apartment_id INTEGER,
			move_in_date DATE,
			action VARCHAR(10) NOT NULL,
			change_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_payments_house_no ON payments(house_no)",
		"CREATE INDEX IF NOT EXISTS idx_maintenance_apartment_house ON maintenance_requests(apartment_id, house_no)",
		"CREATE INDEX IF NOT EXISTS idx_audit_tenant_change_date ON audit_tenant(change_date)",
	}

	for _, idx := range indexes {
		_, err = db.Exec(idx)
		if err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
			// Don't return error here, indexes are not critical
		}
	}

	return nil
}
