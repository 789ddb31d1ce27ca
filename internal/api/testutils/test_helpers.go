package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"github.com/mounikab/rental-server/internal/api"
	"github.com/mounikab/rental-server/internal/config"
	"github.com/mounikab/rental-server/internal/models"
	"github.com/mounikab/rental-server/internal/repository"
	"github.com/mounikab/rental-server/internal/service"
	"github.com/mounikab/rental-server/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixture values seeded into the test database
const (
	FixtureApartmentID = 1
	FixtureHouseNo     = "H-100"
)

// TestContext holds all dependencies for tests
type TestContext struct {
	Router     *gin.Engine
	Repository repository.Repository
	Service    service.Service
	JWTSecret  []byte
	DB         *sqlx.DB
	AdminJWT   string
	TenantJWT  string
}

// SetupTestContext creates a new test context with initialized dependencies
// and a seeded apartment plus tenant.
func SetupTestContext(t *testing.T) *TestContext {
	// Load configuration from environment
	cfg := config.LoadConfig()

	// Override with test-specific config
	if cfg.Database.DBName == "rentaldb" && cfg.Database.TestDBName != "" {
		cfg.Database.DBName = cfg.Database.TestDBName
	} else if cfg.Database.TestDBName == "" {
		// Fallback to hardcoded test DB if not in environment
		cfg.Database.DBName = "rentaldb_test"
	}

	// Use a test JWT secret
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "test-secret-key"
	}

	// Set up database
	db, err := config.SetupDatabase(cfg)
	require.NoError(t, err, "Failed to set up test database")

	// Create repository
	repo := repository.NewPostgresRepository(db)

	// Create service
	svc, err := service.NewDefaultService(repo, utils.NewLogger(), cfg.Auth)
	require.NoError(t, err, "Failed to create service")

	// Create API handler
	handler := api.NewHandler(svc)

	// Set up Gin router
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	// Set up routes
	handler.SetupRoutes(router)

	cleanTestDatabase(t, db)
	seedFixtures(t, db, repo)

	return &TestContext{
		Router:     router,
		Repository: repo,
		Service:    svc,
		JWTSecret:  []byte(cfg.Auth.JWTSecret),
		DB:         db,
		AdminJWT:   mintToken(t, cfg.Auth.JWTSecret, "admin", service.RoleAdmin),
		TenantJWT:  mintToken(t, cfg.Auth.JWTSecret, FixtureHouseNo, service.RoleTenant),
	}
}

// CleanupTestContext cleans up test resources
func CleanupTestContext(tc *TestContext) {
	if tc.DB != nil {
		cleanTestDatabase(nil, tc.DB)
		tc.DB.Close()
	}
}

// cleanTestDatabase removes all rows, children first
func cleanTestDatabase(t *testing.T, db *sqlx.DB) {
	tables := []string{"payments", "maintenance_requests", "audit_tenant", "tenants", "apartments"}
	for _, table := range tables {
		_, err := db.Exec("DELETE FROM " + table)
		if t != nil && err != nil {
			t.Logf("Warning: Failed to clean %s: %v", table, err)
		}
	}
}

// seedFixtures inserts one apartment and one tenant. Apartments are created
// externally in production, so the fixture writes the row directly.
func seedFixtures(t *testing.T, db *sqlx.DB, repo repository.Repository) {
	_, err := db.Exec(
		`INSERT INTO apartments (apartment_id, apartment_name, address, num_of_rooms, rent)
		 VALUES ($1, $2, $3, $4, $5)`,
		FixtureApartmentID, "Lakeside Towers", "12 Lake View Road", 3, 1200.00)
	require.NoError(t, err, "Failed to seed apartment")

	moveInDate, err := time.Parse("2006-01-02", "2024-06-01")
	require.NoError(t, err)

	err = repo.CreateTenant(context.Background(), &models.Tenant{
		HouseNo:     FixtureHouseNo,
		TenantName:  "Asha Rao",
		PhoneNumber: "9876543210",
		ApartmentID: FixtureApartmentID,
		MoveInDate:  moveInDate,
	})
	require.NoError(t, err, "Failed to seed tenant")
}

// mintToken generates a JWT the way the service does, with the given
// subject and role.
func mintToken(t *testing.T, jwtSecret, subject, role string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(jwtSecret))
	assert.NoError(t, err, "Failed to generate JWT token")

	return tokenString
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}
