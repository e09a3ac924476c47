package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mangarao/aarohi-tms/internal/models"
)

func TestPublicComplaintFlow(t *testing.T) {
	env := newTestEnv(t)

	// No complaint yet for this mobile number.
	rec := env.request(t, http.MethodGet, "/api/complaints/check-existing/9876543210", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.request(t, http.MethodPost, "/api/complaints/public", "", complaintPayload("9876543210"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created models.Complaint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.StatusOpen, created.Status)
	assert.Equal(t, models.PriorityMedium, created.Priority)

	// The duplicate check now finds it.
	rec = env.request(t, http.MethodGet, "/api/complaints/check-existing/9876543210", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// And a second submission is blocked.
	rec = env.request(t, http.MethodPost, "/api/complaints/public", "", complaintPayload("9876543210"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "active complaint")
}

func TestComplaintAdminEndpointsRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "tech1", models.RoleStaff, "9000000001")
	token := env.signin(t, "tech1", models.RoleStaff)

	rec := env.request(t, http.MethodGet, "/api/complaints", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/complaints/stats", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestComplaintAssignAndStatusFlow(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin1", models.RoleAdmin, "9111111111")
	staff := env.createUser(t, "tech1", models.RoleStaff, "9000000001")
	adminToken := env.signin(t, "admin1", models.RoleAdmin)
	staffToken := env.signin(t, "tech1", models.RoleStaff)

	rec := env.request(t, http.MethodPost, "/api/complaints", adminToken, complaintPayload("9876543210"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created models.Complaint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// Staff cannot see it before assignment.
	rec = env.request(t, http.MethodGet, fmt.Sprintf("/api/complaints/%d", created.ID), staffToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.request(t, http.MethodPut,
		fmt.Sprintf("/api/complaints/%d/assign/%d/schedule?scheduleDate=2025-06-01", created.ID, staff.ID),
		adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var assigned models.Complaint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assigned))
	assert.Equal(t, models.StatusAssigned, assigned.Status)

	// Now the assignee sees it in their queue.
	rec = env.request(t, http.MethodGet, "/api/complaints/my-assignments", staffToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []models.Complaint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	require.Len(t, mine, 1)

	// Staff cannot skip straight to CLOSED.
	rec = env.request(t, http.MethodPut,
		fmt.Sprintf("/api/complaints/%d/status?status=CLOSED&resolutionNotes=done", created.ID),
		staffToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.request(t, http.MethodPut,
		fmt.Sprintf("/api/complaints/%d/status?status=IN_PROGRESS", created.ID),
		staffToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Closing without notes is rejected.
	rec = env.request(t, http.MethodPut,
		fmt.Sprintf("/api/complaints/%d/status?status=CLOSED", created.ID),
		staffToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Resolution notes")

	rec = env.request(t, http.MethodPut,
		fmt.Sprintf("/api/complaints/%d/status?status=CLOSED&resolutionNotes=Replaced+needle+bar", created.ID),
		staffToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var closed models.Complaint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &closed))
	assert.Equal(t, models.StatusClosed, closed.Status)
	assert.NotNil(t, closed.CompletionDate)
}

func TestComplaintUpdateRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin1", models.RoleAdmin, "9111111111")
	adminToken := env.signin(t, "admin1", models.RoleAdmin)

	rec := env.request(t, http.MethodPost, "/api/complaints", adminToken, complaintPayload("9876543210"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created models.Complaint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	path := fmt.Sprintf("/api/complaints/%d", created.ID)
	rec = env.request(t, http.MethodPut, path, adminToken, gin.H{"status": "BOGUS"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid status")

	rec = env.request(t, http.MethodGet, path, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Complaint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.StatusOpen, got.Status)
}

func TestScheduleWeek(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin1", models.RoleAdmin, "9111111111")
	staff := env.createUser(t, "tech1", models.RoleStaff, "9000000001")
	env.createUser(t, "tech2", models.RoleStaff, "9000000002")
	adminToken := env.signin(t, "admin1", models.RoleAdmin)
	staffToken := env.signin(t, "tech1", models.RoleStaff)
	otherToken := env.signin(t, "tech2", models.RoleStaff)

	rec := env.request(t, http.MethodPost, "/api/complaints", adminToken, complaintPayload("9876543210"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created models.Complaint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// Schedule the visit for today, which always falls in the current week.
	today := time.Now().Format("2006-01-02")
	path := fmt.Sprintf("/api/complaints/%d/assign/%d/schedule?scheduleDate=%s", created.ID, staff.ID, today)
	rec = env.request(t, http.MethodPut, path, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var week []models.Complaint
	rec = env.request(t, http.MethodGet, "/api/complaints/schedule/week", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &week))
	assert.Len(t, week, 1)

	rec = env.request(t, http.MethodGet, "/api/complaints/schedule/week", staffToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &week))
	assert.Len(t, week, 1)

	// Staff only see their own assignments.
	rec = env.request(t, http.MethodGet, "/api/complaints/schedule/week", otherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &week))
	assert.Empty(t, week)
}

func TestComplaintSearchAndStats(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin1", models.RoleAdmin, "9111111111")
	adminToken := env.signin(t, "admin1", models.RoleAdmin)

	rec := env.request(t, http.MethodPost, "/api/complaints", adminToken, complaintPayload("9876543210"))
	require.Equal(t, http.StatusOK, rec.Code)

	payload := complaintPayload("9123456780")
	payload["customerName"] = "Meena Patel"
	payload["priority"] = "HIGH"
	rec = env.request(t, http.MethodPost, "/api/complaints", adminToken, payload)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/complaints/search?search=meena", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var found []models.Complaint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Meena Patel", found[0].CustomerName)

	rec = env.request(t, http.MethodGet, "/api/complaints/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, float64(2), stats["totalComplaints"])
	assert.Equal(t, float64(2), stats["openComplaints"])
	assert.Equal(t, float64(1), stats["highPriorityComplaints"])
}

func TestComplaintDeleteRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin1", models.RoleAdmin, "9111111111")
	adminToken := env.signin(t, "admin1", models.RoleAdmin)

	rec := env.request(t, http.MethodPost, "/api/complaints", adminToken, complaintPayload("9876543210"))
	require.Equal(t, http.StatusOK, rec.Code)
	var created models.Complaint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = env.request(t, http.MethodDelete, fmt.Sprintf("/api/complaints/%d", created.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, fmt.Sprintf("/api/complaints/%d", created.ID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
