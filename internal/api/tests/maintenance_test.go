package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mounikab/rental-server/internal/api/testutils"
	"github.com/mounikab/rental-server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileRequest(t *testing.T, testCtx *testutils.TestContext, description string) models.MaintenanceResponse {
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/me/maintenance",
		models.MaintenanceRequestInput{
			ApartmentID:      testutils.FixtureApartmentID,
			IssueDescription: description,
		},
		testutils.AuthHeaders(testCtx.TenantJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code)

	var response models.MaintenanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func completeService(t *testing.T, testCtx *testutils.TestContext) models.ServiceResultResponse {
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/maintenance/service",
		models.CompleteMaintenanceRequest{
			ApartmentID: testutils.FixtureApartmentID,
			HouseNo:     testutils.FixtureHouseNo,
		},
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var response models.ServiceResultResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestFileMaintenanceRequest(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	response := fileRequest(t, testCtx, "Kitchen tap leaking")
	assert.NotEmpty(t, response.RequestID)
	assert.NotEmpty(t, response.RequestDate)

	// The row is stored open with a server-assigned request date
	var status string
	err := testCtx.DB.Get(&status,
		`SELECT status FROM maintenance_requests WHERE id = $1`, response.RequestID)
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceStatusOpen, status)
}

func TestCompleteMaintenanceService(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Test case 1: No complaint ever filed for the pair
	response := completeService(t, testCtx)
	assert.Equal(t, models.ServiceOutcomeNoComplaint, response.Outcome)

	// Test case 2: One open complaint gets serviced; the fee is charged once
	fileRequest(t, testCtx, "Broken window latch")

	before, err := testCtx.Repository.GetTenant(context.Background(), testutils.FixtureHouseNo)
	require.NoError(t, err)

	response = completeService(t, testCtx)
	assert.Equal(t, models.ServiceOutcomeCompleted, response.Outcome)
	assert.Equal(t, []string{"Broken window latch"}, response.IssuesFixed)

	after, err := testCtx.Repository.GetTenant(context.Background(), testutils.FixtureHouseNo)
	require.NoError(t, err)
	assert.Equal(t, before.DueAmount+100, after.DueAmount)

	var open int
	err = testCtx.DB.Get(&open,
		`SELECT COUNT(*) FROM maintenance_requests WHERE status <> $1`,
		models.MaintenanceStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, 0, open)

	// Test case 3: Servicing again is "already completed", not an error,
	// and the balance does not change again
	response = completeService(t, testCtx)
	assert.Equal(t, models.ServiceOutcomeAlreadyCompleted, response.Outcome)

	unchanged, err := testCtx.Repository.GetTenant(context.Background(), testutils.FixtureHouseNo)
	require.NoError(t, err)
	assert.Equal(t, after.DueAmount, unchanged.DueAmount)
}

func TestCompleteMaintenanceServiceChargesOncePerEvent(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Two open issues, one service event, one fee
	fileRequest(t, testCtx, "No hot water")
	fileRequest(t, testCtx, "Hallway light flickering")

	before, err := testCtx.Repository.GetTenant(context.Background(), testutils.FixtureHouseNo)
	require.NoError(t, err)

	response := completeService(t, testCtx)
	assert.Equal(t, models.ServiceOutcomeCompleted, response.Outcome)
	assert.Len(t, response.IssuesFixed, 2)

	after, err := testCtx.Repository.GetTenant(context.Background(), testutils.FixtureHouseNo)
	require.NoError(t, err)
	assert.Equal(t, before.DueAmount+100, after.DueAmount)
}

func TestListComplaints(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	fileRequest(t, testCtx, "Pest control needed")
	completeService(t, testCtx)
	fileRequest(t, testCtx, "Balcony door jammed")

	// The joined view includes both open and completed records with tenant
	// and apartment descriptive fields
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/complaints",
		nil,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.ComplaintsResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	require.Len(t, response.Complaints, 2)

	byIssue := map[string]models.Complaint{}
	for _, complaint := range response.Complaints {
		byIssue[complaint.IssueDescription] = complaint
		assert.Equal(t, "Lakeside Towers", complaint.ApartmentName)
		assert.Equal(t, "12 Lake View Road", complaint.Address)
		assert.Equal(t, testutils.FixtureHouseNo, complaint.HouseNo)
		assert.Equal(t, "Asha Rao", complaint.TenantName)
	}
	assert.Equal(t, models.MaintenanceStatusCompleted, byIssue["Pest control needed"].Status)
	assert.Equal(t, models.MaintenanceStatusOpen, byIssue["Balcony door jammed"].Status)
}
