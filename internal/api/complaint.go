package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mangarao/aarohi-tms/internal/lifecycle"
	"github.com/Mangarao/aarohi-tms/internal/middleware"
	"github.com/Mangarao/aarohi-tms/internal/models"
	"github.com/Mangarao/aarohi-tms/internal/service"
)

// ComplaintHandler serves the complaint resource.
type ComplaintHandler struct {
	complaints  *service.ComplaintService
	auth        *service.AuthService
	publicLimit *middleware.RateLimiter
}

// NewComplaintHandler creates a ComplaintHandler. publicLimit may be nil,
// which leaves the public endpoints unthrottled.
func NewComplaintHandler(complaints *service.ComplaintService, auth *service.AuthService, publicLimit *middleware.RateLimiter) *ComplaintHandler {
	return &ComplaintHandler{complaints: complaints, auth: auth, publicLimit: publicLimit}
}

// RegisterRoutes mounts the complaint endpoints.
func (h *ComplaintHandler) RegisterRoutes(router *gin.RouterGroup) {
	complaints := router.Group("/complaints")

	// Unauthenticated customer intake.
	complaints.POST("/public", h.publicLimit.Middleware(), h.CreatePublic)
	complaints.GET("/check-existing/:mobileNumber", h.publicLimit.Middleware(), h.CheckExisting)

	authed := complaints.Group("", middleware.AuthMiddleware(h.auth))
	{
		authed.POST("", h.Create)
		authed.GET("/:id", h.Get)
		authed.PUT("/:id", h.Update)
		authed.PUT("/:id/status", h.UpdateStatus)
		authed.PUT("/:id/schedule", h.UpdateSchedule)
		authed.GET("/my-assignments", middleware.RequireRole(models.RoleStaff), h.MyAssignments)
		authed.GET("/schedule/today", h.ScheduleToday)
		authed.GET("/schedule/week", h.ScheduleWeek)
		authed.GET("/schedule/range", h.ScheduleRange)

		admin := authed.Group("", middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("", h.List)
			admin.DELETE("/:id", h.Delete)
			admin.PUT("/:id/assign/:staffId", h.Assign)
			admin.PUT("/:id/assign/:staffId/schedule", h.AssignWithSchedule)
			admin.GET("/status/:status", h.ListByStatus)
			admin.GET("/priority/:priority", h.ListByPriority)
			admin.GET("/staff/:staffId", h.ListByStaff)
			admin.GET("/mobile/:mobileNumber", h.ListByMobile)
			admin.GET("/search", h.Search)
			admin.GET("/recent", h.Recent)
			admin.GET("/high-priority", h.HighPriority)
			admin.GET("/stats", h.Stats)
		}
	}
}

type ComplaintRequest struct {
	CustomerName        string               `json:"customerName" binding:"required"`
	MobileNumber        string               `json:"mobileNumber" binding:"required"`
	Email               string               `json:"email"`
	Address             string               `json:"address" binding:"required"`
	City                string               `json:"city" binding:"required"`
	State               string               `json:"state" binding:"required"`
	MachineNameModel    string               `json:"machineNameModel" binding:"required"`
	ProblemDescription  string               `json:"problemDescription" binding:"required"`
	UnderWarranty       bool                 `json:"underWarranty"`
	MachinePurchaseDate string               `json:"machinePurchaseDate"`
	ComplaintType       models.ComplaintType `json:"complaintType" binding:"required"`
	Priority            models.Priority      `json:"priority"`
}

func (r *ComplaintRequest) toInput() (service.CreateComplaintInput, bool) {
	purchaseDate, ok := parseDate(r.MachinePurchaseDate)
	if !ok {
		return service.CreateComplaintInput{}, false
	}
	return service.CreateComplaintInput{
		CustomerName:        r.CustomerName,
		MobileNumber:        r.MobileNumber,
		Email:               r.Email,
		Address:             r.Address,
		City:                r.City,
		State:               r.State,
		MachineNameModel:    r.MachineNameModel,
		ProblemDescription:  r.ProblemDescription,
		UnderWarranty:       r.UnderWarranty,
		MachinePurchaseDate: purchaseDate,
		ComplaintType:       r.ComplaintType,
		Priority:            r.Priority,
	}, true
}

// Create files a complaint from the internal form.
func (h *ComplaintHandler) Create(c *gin.Context) {
	var req ComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}
	in, ok := req.toInput()
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid machine purchase date"})
		return
	}
	created, err := h.complaints.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

// CreatePublic files an unauthenticated customer complaint.
func (h *ComplaintHandler) CreatePublic(c *gin.Context) {
	var req ComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}
	in, ok := req.toInput()
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid machine purchase date"})
		return
	}
	created, err := h.complaints.CreatePublic(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

// CheckExisting reports whether a mobile number already has an active
// complaint. 404 is the sentinel for "none", which the intake form relies on.
func (h *ComplaintHandler) CheckExisting(c *gin.Context) {
	mobile := lifecycle.SanitizeMobile(c.Param("mobileNumber"))
	existing, err := h.complaints.ActiveByMobile(c.Request.Context(), mobile)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(existing) == 0 {
		c.JSON(http.StatusNotFound, MessageResponse{Message: "No active complaint found"})
		return
	}
	c.JSON(http.StatusOK, existing[0])
}

// Get returns one complaint; staff callers only see their own assignments.
func (h *ComplaintHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid complaint id"})
		return
	}
	complaint, err := h.complaints.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.canAccess(c, complaint) {
		c.JSON(http.StatusForbidden, MessageResponse{Message: "Operation not permitted"})
		return
	}
	c.JSON(http.StatusOK, complaint)
}

type UpdateComplaintRequest struct {
	CustomerName        *string               `json:"customerName"`
	MobileNumber        *string               `json:"mobileNumber"`
	Email               *string               `json:"email"`
	Address             *string               `json:"address"`
	City                *string               `json:"city"`
	State               *string               `json:"state"`
	MachineNameModel    *string               `json:"machineNameModel"`
	ProblemDescription  *string               `json:"problemDescription"`
	UnderWarranty       *bool                 `json:"underWarranty"`
	MachinePurchaseDate *string               `json:"machinePurchaseDate"`
	ComplaintType       *models.ComplaintType `json:"complaintType"`
	Priority            *models.Priority      `json:"priority"`
	Status              *models.Status        `json:"status"`
	ResolutionNotes     *string               `json:"resolutionNotes"`
	ScheduleDate        *string               `json:"scheduleDate"`
	CompletionDate      *string               `json:"completionDate"`
}

// Update applies a partial edit; staff callers only touch their own
// assignments and status changes obey the transition table.
func (h *ComplaintHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid complaint id"})
		return
	}
	var req UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}

	complaint, err := h.complaints.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.canAccess(c, complaint) {
		c.JSON(http.StatusForbidden, MessageResponse{Message: "Operation not permitted"})
		return
	}

	in := service.UpdateComplaintInput{
		CustomerName:       req.CustomerName,
		MobileNumber:       req.MobileNumber,
		Email:              req.Email,
		Address:            req.Address,
		City:               req.City,
		State:              req.State,
		MachineNameModel:   req.MachineNameModel,
		ProblemDescription: req.ProblemDescription,
		UnderWarranty:      req.UnderWarranty,
		ComplaintType:      req.ComplaintType,
		Priority:           req.Priority,
		Status:             req.Status,
		ResolutionNotes:    req.ResolutionNotes,
	}
	if req.MachinePurchaseDate != nil {
		t, ok := parseDate(*req.MachinePurchaseDate)
		if !ok {
			c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid machine purchase date"})
			return
		}
		in.MachinePurchaseDate = t
	}
	if req.ScheduleDate != nil {
		t, err := lifecycle.ParseScheduleDate(*req.ScheduleDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid schedule date"})
			return
		}
		in.ScheduleDate = &t
	}
	if req.CompletionDate != nil {
		t, ok := parseDate(*req.CompletionDate)
		if !ok {
			c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid completion date"})
			return
		}
		in.CompletionDate = t
	}

	caller, _ := middleware.Caller(c)
	updated, err := h.complaints.Update(c.Request.Context(), id, in, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a complaint; admin only.
func (h *ComplaintHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid complaint id"})
		return
	}
	if err := h.complaints.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Complaint deleted successfully"})
}

// Assign hands a complaint to a staff member.
func (h *ComplaintHandler) Assign(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid complaint id"})
		return
	}
	staffID, ok := pathID(c, "staffId")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid staff id"})
		return
	}
	complaint, err := h.complaints.Assign(c.Request.Context(), id, staffID, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

// AssignWithSchedule hands a complaint to a staff member with a visit date.
// The scheduleDate query param is normalized to second precision first.
func (h *ComplaintHandler) AssignWithSchedule(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid complaint id"})
		return
	}
	staffID, ok := pathID(c, "staffId")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid staff id"})
		return
	}
	scheduleDate, err := lifecycle.ParseScheduleDate(c.Query("scheduleDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid schedule date"})
		return
	}
	complaint, err := h.complaints.Assign(c.Request.Context(), id, staffID, &scheduleDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

// UpdateSchedule replaces just the schedule date.
func (h *ComplaintHandler) UpdateSchedule(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid complaint id"})
		return
	}
	complaint, err := h.complaints.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.canAccess(c, complaint) {
		c.JSON(http.StatusForbidden, MessageResponse{Message: "Operation not permitted"})
		return
	}
	scheduleDate, err := lifecycle.ParseScheduleDate(c.Query("scheduleDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid schedule date"})
		return
	}
	updated, err := h.complaints.UpdateSchedule(c.Request.Context(), id, scheduleDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// UpdateStatus moves a complaint through its lifecycle.
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid complaint id"})
		return
	}
	status := models.Status(c.Query("status"))
	notes := c.Query("resolutionNotes")
	caller, _ := middleware.Caller(c)

	complaint, err := h.complaints.UpdateStatus(c.Request.Context(), id, status, notes, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

// List returns every complaint; admin only.
func (h *ComplaintHandler) List(c *gin.Context) {
	h.respondList(c)(h.complaints.List(c.Request.Context()))
}

// ListByStatus filters by lifecycle state.
func (h *ComplaintHandler) ListByStatus(c *gin.Context) {
	status := models.Status(c.Param("status"))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid status"})
		return
	}
	h.respondList(c)(h.complaints.ListByStatus(c.Request.Context(), status))
}

// ListByPriority filters by priority.
func (h *ComplaintHandler) ListByPriority(c *gin.Context) {
	priority := models.Priority(c.Param("priority"))
	if !priority.Valid() {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid priority"})
		return
	}
	h.respondList(c)(h.complaints.ListByPriority(c.Request.Context(), priority))
}

// ListByStaff returns one staff member's assignments; admin view.
func (h *ComplaintHandler) ListByStaff(c *gin.Context) {
	staffID, ok := pathID(c, "staffId")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid staff id"})
		return
	}
	h.respondList(c)(h.complaints.ListByStaff(c.Request.Context(), staffID))
}

// ListByMobile returns the complaints filed under one mobile number.
func (h *ComplaintHandler) ListByMobile(c *gin.Context) {
	mobile := lifecycle.SanitizeMobile(c.Param("mobileNumber"))
	h.respondList(c)(h.complaints.ListByMobile(c.Request.Context(), mobile))
}

// MyAssignments returns the caller's assigned complaints; staff only.
func (h *ComplaintHandler) MyAssignments(c *gin.Context) {
	caller, ok := middleware.Caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "not authenticated"})
		return
	}
	h.respondList(c)(h.complaints.ListByStaff(c.Request.Context(), caller.UserID))
}

// Search applies the shared filter over the full collection; admin only.
func (h *ComplaintHandler) Search(c *gin.Context) {
	filter := lifecycle.Filter{
		Search:        c.Query("search"),
		Status:        models.Status(c.Query("status")),
		Priority:      models.Priority(c.Query("priority")),
		ComplaintType: models.ComplaintType(c.Query("complaintType")),
	}
	if staff := c.Query("assignedStaffId"); staff != "" {
		id, err := strconv.ParseUint(staff, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid staff id"})
			return
		}
		filter.AssignedStaffID = uint(id)
	}
	h.respondList(c)(h.complaints.Search(c.Request.Context(), filter))
}

// Recent returns the last 30 days of complaints; admin only.
func (h *ComplaintHandler) Recent(c *gin.Context) {
	h.respondList(c)(h.complaints.Recent(c.Request.Context()))
}

// HighPriority returns unclosed HIGH/URGENT complaints; admin only.
func (h *ComplaintHandler) HighPriority(c *gin.Context) {
	h.respondList(c)(h.complaints.HighPriorityOpen(c.Request.Context()))
}

// Stats returns the dashboard counters; admin only.
func (h *ComplaintHandler) Stats(c *gin.Context) {
	stats, err := h.complaints.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ScheduleToday returns today's scheduled visits; staff see their own.
func (h *ComplaintHandler) ScheduleToday(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	start, end := lifecycle.DayBounds(time.Now())
	if caller.Role == models.RoleStaff {
		h.respondList(c)(h.complaints.StaffScheduleRange(c.Request.Context(), caller.UserID, start, end))
		return
	}
	h.respondList(c)(h.complaints.ScheduleRange(c.Request.Context(), start, end))
}

// ScheduleWeek returns the current week's scheduled visits, Monday through
// Sunday; staff see their own.
func (h *ComplaintHandler) ScheduleWeek(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	start, end := lifecycle.WeekBounds(time.Now())
	if caller.Role == models.RoleStaff {
		h.respondList(c)(h.complaints.StaffScheduleRange(c.Request.Context(), caller.UserID, start, end))
		return
	}
	h.respondList(c)(h.complaints.ScheduleRange(c.Request.Context(), start, end))
}

// ScheduleRange returns visits between startDate and endDate (inclusive,
// date-only values accepted); staff see their own.
func (h *ComplaintHandler) ScheduleRange(c *gin.Context) {
	start, err := lifecycle.ParseScheduleDate(c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid start date"})
		return
	}
	end, err := lifecycle.ParseScheduleDate(c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid end date"})
		return
	}
	// The end bound covers that whole day.
	_, end = lifecycle.DayBounds(end)

	caller, _ := middleware.Caller(c)
	if caller.Role == models.RoleStaff {
		h.respondList(c)(h.complaints.StaffScheduleRange(c.Request.Context(), caller.UserID, start, end))
		return
	}
	h.respondList(c)(h.complaints.ScheduleRange(c.Request.Context(), start, end))
}

// canAccess reports whether the caller may read or edit this complaint:
// admins always, staff only when assigned to it.
func (h *ComplaintHandler) canAccess(c *gin.Context, complaint *models.Complaint) bool {
	caller, ok := middleware.Caller(c)
	if !ok {
		return false
	}
	if caller.Role == models.RoleAdmin {
		return true
	}
	return complaint.AssignedStaffID != nil && *complaint.AssignedStaffID == caller.UserID
}

// respondList folds the (slice, error) pair every list endpoint produces.
func (h *ComplaintHandler) respondList(c *gin.Context) func([]models.Complaint, error) {
	return func(list []models.Complaint, err error) {
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
