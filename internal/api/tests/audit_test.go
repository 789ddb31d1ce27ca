package api_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mounikab/rental-server/internal/api/testutils"
	"github.com/mounikab/rental-server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func latestAuditEntries(t *testing.T, testCtx *testutils.TestContext) []models.AuditEvent {
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/audit/latest",
		nil,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var response models.AuditEntriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response.Entries
}

func TestLatestAuditEntriesFollowMutations(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// An empty audit table yields an empty batch
	assert.Empty(t, latestAuditEntries(t, testCtx))

	addReq := models.TenantRequest{
		HouseNo:     "H-300",
		TenantName:  "Meera Nair",
		PhoneNumber: "9988776655",
		ApartmentID: testutils.FixtureApartmentID,
		MoveInDate:  "2025-03-01",
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/tenants",
		addReq,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code)

	entries := latestAuditEntries(t, testCtx)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditActionInsert, entries[0].Action)
	assert.Equal(t, "H-300", entries[0].HouseNo)

	// A later mutation supersedes the earlier batch
	time.Sleep(50 * time.Millisecond)

	updateReq := models.TenantUpdateRequest{
		TenantName:  "Meera K. Nair",
		PhoneNumber: "9988776655",
		ApartmentID: testutils.FixtureApartmentID,
		MoveInDate:  "2025-03-01",
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPut,
		"/api/tenants/H-300",
		updateReq,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	entries = latestAuditEntries(t, testCtx)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditActionUpdate, entries[0].Action)
	require.NotNil(t, entries[0].TenantName)
	assert.Equal(t, "Meera K. Nair", *entries[0].TenantName)
}

func TestLatestAuditEntriesSharedTimestamp(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Two entries landing on the same change_date form one batch; an older
	// entry is excluded
	older := "2025-01-01 09:00:00"
	newest := "2025-01-02 12:00:00"

	insert := `
		INSERT INTO audit_tenant (audit_id, house_no, action, change_date)
		VALUES ($1, $2, $3, $4)
	`
	_, err := testCtx.DB.Exec(insert, uuid.New().String(), "H-100", "DELETE", older)
	require.NoError(t, err)
	_, err = testCtx.DB.Exec(insert, uuid.New().String(), "H-101", "INSERT", newest)
	require.NoError(t, err)
	_, err = testCtx.DB.Exec(insert, uuid.New().String(), "H-102", "INSERT", newest)
	require.NoError(t, err)

	entries := latestAuditEntries(t, testCtx)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.NotEqual(t, "H-100", entry.HouseNo)
	}
}
