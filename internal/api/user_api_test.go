package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mangarao/aarohi-tms/internal/models"
)

func TestUserCreateAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin1", models.RoleAdmin, "9111111111")
	env.createUser(t, "tech1", models.RoleStaff, "9000000001")
	adminToken := env.signin(t, "admin1", models.RoleAdmin)
	staffToken := env.signin(t, "tech1", models.RoleStaff)

	payload := gin.H{
		"username":     "tech2",
		"fullName":     "Tech Two",
		"mobileNumber": "9000000002",
		"password":     "secret123",
		"role":         "STAFF",
	}

	rec := env.request(t, http.MethodPost, "/api/users", staffToken, payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.request(t, http.MethodPost, "/api/users", adminToken, payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.RoleStaff, created.Role)
	assert.True(t, created.IsActive)
	// The hash stays server side.
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestUserGetSelfOrAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin1", models.RoleAdmin, "9111111111")
	tech1 := env.createUser(t, "tech1", models.RoleStaff, "9000000001")
	tech2 := env.createUser(t, "tech2", models.RoleStaff, "9000000002")
	adminToken := env.signin(t, "admin1", models.RoleAdmin)
	staffToken := env.signin(t, "tech1", models.RoleStaff)

	rec := env.request(t, http.MethodGet, fmt.Sprintf("/api/users/%d", tech1.ID), staffToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, fmt.Sprintf("/api/users/%d", tech2.ID), staffToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.request(t, http.MethodGet, fmt.Sprintf("/api/users/%d", tech2.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserGetByUsername(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin1", models.RoleAdmin, "9111111111")
	tech := env.createUser(t, "tech1", models.RoleStaff, "9000000001")
	adminToken := env.signin(t, "admin1", models.RoleAdmin)
	staffToken := env.signin(t, "tech1", models.RoleStaff)

	rec := env.request(t, http.MethodGet, "/api/users/username/tech1", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, tech.ID, got.ID)

	rec = env.request(t, http.MethodGet, "/api/users/username/ghost", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/users/username/tech1", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserActivateDeactivate(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin1", models.RoleAdmin, "9111111111")
	tech := env.createUser(t, "tech1", models.RoleStaff, "9000000001")
	adminToken := env.signin(t, "admin1", models.RoleAdmin)

	rec := env.request(t, http.MethodPut, fmt.Sprintf("/api/users/%d/deactivate", tech.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var u models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.False(t, u.IsActive)

	// Deactivated accounts cannot sign in.
	rec = env.request(t, http.MethodPost, "/api/auth/signin", "", gin.H{
		"username": "tech1",
		"password": "secret123",
		"role":     "STAFF",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.request(t, http.MethodPut, fmt.Sprintf("/api/users/%d/activate", tech.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.True(t, u.IsActive)
}

func TestSeedAdminProtectedOverAPI(t *testing.T) {
	env := newTestEnv(t)
	seed := env.createUser(t, models.SeedAdminUsername, models.RoleAdmin, "9999999999")
	adminToken := env.signin(t, models.SeedAdminUsername, models.RoleAdmin)

	rec := env.request(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", seed.ID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "default admin")

	rec = env.request(t, http.MethodPut, fmt.Sprintf("/api/users/%d/deactivate", seed.ID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserListingsAndStats(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin1", models.RoleAdmin, "9111111111")
	env.createUser(t, "tech1", models.RoleStaff, "9000000001")
	tech2 := env.createUser(t, "tech2", models.RoleStaff, "9000000002")
	adminToken := env.signin(t, "admin1", models.RoleAdmin)

	rec := env.request(t, http.MethodPut, fmt.Sprintf("/api/users/%d/deactivate", tech2.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/users/staff", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var staff []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &staff))
	assert.Len(t, staff, 2)

	rec = env.request(t, http.MethodGet, "/api/users/staff/active", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &staff))
	assert.Len(t, staff, 1)

	rec = env.request(t, http.MethodGet, "/api/users/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, float64(3), stats["totalUsers"])
	assert.Equal(t, float64(1), stats["totalAdmins"])
	assert.Equal(t, float64(1), stats["totalStaff"])
}
