package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Mangarao/aarohi-tms/internal/lifecycle"
	"github.com/Mangarao/aarohi-tms/internal/middleware"
	"github.com/Mangarao/aarohi-tms/internal/models"
	"github.com/Mangarao/aarohi-tms/internal/service"
	"github.com/Mangarao/aarohi-tms/internal/testhelpers"
)

func createStaff(t *testing.T, db *gorm.DB, username string, active bool) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@aarohi.com",
		FullName:     "Staff " + username,
		MobileNumber: "9000000000",
		PasswordHash: "x",
		Role:         models.RoleStaff,
		IsActive:     active,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func validComplaintInput() service.CreateComplaintInput {
	return service.CreateComplaintInput{
		CustomerName:       "Ravi Kumar",
		MobileNumber:       "9876543210",
		ProblemDescription: "Needle jams under load",
		MachineNameModel:   "Singer 4423",
		ComplaintType:      models.TypeMachineRepair,
	}
}

func adminClaims() middleware.TokenClaims {
	return middleware.TokenClaims{UserID: 1, Username: "admin", Role: models.RoleAdmin}
}

func staffClaims(u *models.User) middleware.TokenClaims {
	return middleware.TokenClaims{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func TestComplaintCreateDefaults(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewComplaintService(db)

	c, err := svc.Create(context.Background(), validComplaintInput())
	require.NoError(t, err)

	assert.Equal(t, models.StatusOpen, c.Status)
	assert.Equal(t, models.PriorityMedium, c.Priority)
	assert.Nil(t, c.AssignedStaffID)
}

func TestComplaintCreateValidation(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewComplaintService(db)

	tests := []struct {
		name   string
		mutate func(*service.CreateComplaintInput)
	}{
		{"short mobile", func(in *service.CreateComplaintInput) { in.MobileNumber = "12345" }},
		{"missing name", func(in *service.CreateComplaintInput) { in.CustomerName = "  " }},
		{"missing description", func(in *service.CreateComplaintInput) { in.ProblemDescription = "" }},
		{"bad type", func(in *service.CreateComplaintInput) { in.ComplaintType = "WASHING" }},
		{"bad priority", func(in *service.CreateComplaintInput) { in.Priority = "SEVERE" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validComplaintInput()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			assert.True(t, service.IsValidation(err))
		})
	}
}

func TestComplaintCreateSanitizesMobile(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewComplaintService(db)

	in := validComplaintInput()
	in.MobileNumber = "98-765 43210"
	c, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", c.MobileNumber)
}

func TestCreatePublicBlocksDuplicateActive(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewComplaintService(db)

	first, err := svc.CreatePublic(context.Background(), validComplaintInput())
	require.NoError(t, err)

	_, err = svc.CreatePublic(context.Background(), validComplaintInput())
	assert.True(t, service.IsValidation(err))

	// Closing the first complaint unblocks the mobile number.
	staff := createStaff(t, db, "tech1", true)
	_, err = svc.Assign(context.Background(), first.ID, staff.ID, nil)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), first.ID, models.StatusClosed, "Replaced needle bar", adminClaims())
	require.NoError(t, err)

	_, err = svc.CreatePublic(context.Background(), validComplaintInput())
	assert.NoError(t, err)
}

func TestCreatePublicForcesMediumPriority(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewComplaintService(db)

	in := validComplaintInput()
	in.Priority = models.PriorityUrgent
	c, err := svc.CreatePublic(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, c.Priority)
}

func TestAssignRequiresActiveStaff(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewComplaintService(db)

	c, err := svc.Create(context.Background(), validComplaintInput())
	require.NoError(t, err)

	inactive := createStaff(t, db, "gone", false)
	_, err = svc.Assign(context.Background(), c.ID, inactive.ID, nil)
	assert.True(t, service.IsValidation(err))

	admin := &models.User{
		Username: "boss", Email: "boss@aarohi.com", FullName: "Boss",
		MobileNumber: "9111111111", PasswordHash: "x",
		Role: models.RoleAdmin, IsActive: true,
	}
	require.NoError(t, db.Create(admin).Error)
	_, err = svc.Assign(context.Background(), c.ID, admin.ID, nil)
	assert.True(t, service.IsValidation(err))

	active := createStaff(t, db, "tech2", true)
	when := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)
	got, err := svc.Assign(context.Background(), c.ID, active.ID, &when)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, got.Status)
	require.NotNil(t, got.AssignedStaffID)
	assert.Equal(t, active.ID, *got.AssignedStaffID)
	require.NotNil(t, got.ScheduleDate)
}

func TestStaffTransitionRules(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewComplaintService(db)

	assignee := createStaff(t, db, "tech3", true)
	other := createStaff(t, db, "tech4", true)

	c, err := svc.Create(context.Background(), validComplaintInput())
	require.NoError(t, err)
	_, err = svc.Assign(context.Background(), c.ID, assignee.ID, nil)
	require.NoError(t, err)

	// Only the assignee may act on it.
	_, err = svc.UpdateStatus(context.Background(), c.ID, models.StatusInProgress, "", staffClaims(other))
	assert.ErrorIs(t, err, service.ErrForbidden)

	// ASSIGNED cannot jump straight to CLOSED for staff.
	_, err = svc.UpdateStatus(context.Background(), c.ID, models.StatusClosed, "notes", staffClaims(assignee))
	assert.True(t, service.IsValidation(err))

	got, err := svc.UpdateStatus(context.Background(), c.ID, models.StatusInProgress, "", staffClaims(assignee))
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)

	got, err = svc.UpdateStatus(context.Background(), c.ID, models.StatusClosed, "Motor rewound", staffClaims(assignee))
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, got.Status)
	assert.NotNil(t, got.CompletionDate)
}

func TestCloseRequiresResolutionNotes(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewComplaintService(db)

	staff := createStaff(t, db, "tech5", true)
	c, err := svc.Create(context.Background(), validComplaintInput())
	require.NoError(t, err)
	_, err = svc.Assign(context.Background(), c.ID, staff.ID, nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), c.ID, models.StatusClosed, "   ", adminClaims())
	require.Error(t, err)
	assert.True(t, service.IsValidation(err))
}

func TestStatusChangeRejectsUndefinedStatus(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewComplaintService(db)

	c, err := svc.Create(context.Background(), validComplaintInput())
	require.NoError(t, err)

	bogus := models.Status("BOGUS")

	// Through the dedicated status endpoint.
	_, err = svc.UpdateStatus(context.Background(), c.ID, bogus, "", adminClaims())
	require.Error(t, err)
	assert.True(t, service.IsValidation(err))

	// And through a general edit carrying a status change.
	_, err = svc.Update(context.Background(), c.ID, service.UpdateComplaintInput{Status: &bogus}, adminClaims())
	require.Error(t, err)
	assert.True(t, service.IsValidation(err))

	got, err := svc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, got.Status)
}

func TestAdminMayCancelWithoutAssignment(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewComplaintService(db)

	c, err := svc.Create(context.Background(), validComplaintInput())
	require.NoError(t, err)

	got, err := svc.UpdateStatus(context.Background(), c.ID, models.StatusCancelled, "", adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	// But even an admin cannot close an unassigned complaint.
	c2, err := svc.Create(context.Background(), service.CreateComplaintInput{
		CustomerName:       "Meena Patel",
		MobileNumber:       "9123456780",
		ProblemDescription: "Demo request",
		ComplaintType:      models.TypeDemo,
	})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), c2.ID, models.StatusClosed, "done", adminClaims())
	assert.True(t, service.IsValidation(err))
}

func TestActiveByMobileExcludesClosedOnly(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewComplaintService(db)

	c, err := svc.Create(context.Background(), validComplaintInput())
	require.NoError(t, err)

	active, err := svc.ActiveByMobile(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Len(t, active, 1)

	// A cancelled complaint still counts as active for the duplicate check.
	_, err = svc.UpdateStatus(context.Background(), c.ID, models.StatusCancelled, "", adminClaims())
	require.NoError(t, err)
	active, err = svc.ActiveByMobile(context.Background(), "9876543210")
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestComplaintSearchAndStats(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewComplaintService(db)

	_, err := svc.Create(context.Background(), validComplaintInput())
	require.NoError(t, err)

	in := validComplaintInput()
	in.CustomerName = "Meena Patel"
	in.MobileNumber = "9123456780"
	in.Priority = models.PriorityHigh
	_, err = svc.Create(context.Background(), in)
	require.NoError(t, err)

	found, err := svc.Search(context.Background(), lifecycle.Filter{Search: "meena"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, "Meena Patel", found[0].CustomerName)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalComplaints)
	assert.Equal(t, int64(2), stats.OpenComplaints)
	assert.Equal(t, int64(1), stats.HighPriorityCount)
}

func TestComplaintDelete(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := service.NewComplaintService(db)

	c, err := svc.Create(context.Background(), validComplaintInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), c.ID))
	_, err = svc.Get(context.Background(), c.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), c.ID), service.ErrNotFound)
}
