package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mounikab/rental-server/internal/api/testutils"
	"github.com/mounikab/rental-server/internal/models"
	"github.com/mounikab/rental-server/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestAdminLogin(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Test case 1: Successful admin login with default credentials
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/admin/login",
		models.AdminLoginRequest{Username: "admin", Password: "admin123"},
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.TokenResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, service.RoleAdmin, response.Role)
	assert.NotEmpty(t, response.Token)

	// Test case 2: Wrong password
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/admin/login",
		models.AdminLoginRequest{Username: "admin", Password: "wrong"},
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Test case 3: Wrong username
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/admin/login",
		models.AdminLoginRequest{Username: "root", Password: "admin123"},
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTenantLogin(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Test case 1: Successful tenant login with the shared password
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/tenant/login",
		models.TenantLoginRequest{HouseNo: testutils.FixtureHouseNo, Password: "tenant123"},
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.TokenResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, service.RoleTenant, response.Role)
	assert.Equal(t, testutils.FixtureHouseNo, response.HouseNo)
	assert.NotEmpty(t, response.Token)

	// Test case 2: Wrong shared password
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/tenant/login",
		models.TenantLoginRequest{HouseNo: testutils.FixtureHouseNo, Password: "wrong"},
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Test case 3: Unknown house number
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/tenant/login",
		models.TenantLoginRequest{HouseNo: "H-999", Password: "tenant123"},
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleEnforcement(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// No token on a protected route
	w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/tenants", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Tenant token on an admin route
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/tenants",
		nil,
		testutils.AuthHeaders(testCtx.TenantJWT),
	)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin token on a tenant route
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/me/due",
		nil,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Garbage token
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/tenants",
		nil,
		testutils.AuthHeaders("not-a-token"),
	)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
