package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Mangarao/aarohi-tms/internal/middleware"
	"github.com/Mangarao/aarohi-tms/internal/models"
	"github.com/Mangarao/aarohi-tms/internal/service"
)

// ComplaintExpenseHandler serves the complaint servicing-cost resource.
type ComplaintExpenseHandler struct {
	expenses *service.ComplaintExpenseService
	auth     *service.AuthService
}

// NewComplaintExpenseHandler creates a ComplaintExpenseHandler.
func NewComplaintExpenseHandler(expenses *service.ComplaintExpenseService, auth *service.AuthService) *ComplaintExpenseHandler {
	return &ComplaintExpenseHandler{expenses: expenses, auth: auth}
}

// RegisterRoutes mounts the complaint-expense endpoints.
func (h *ComplaintExpenseHandler) RegisterRoutes(router *gin.RouterGroup) {
	expenses := router.Group("/expenses", middleware.AuthMiddleware(h.auth))
	{
		expenses.POST("/complaint/:complaintId", h.Create)
		expenses.GET("/complaint/:complaintId", h.ListByComplaint)
		expenses.GET("/total/complaint/:complaintId", h.TotalByComplaint)
		expenses.GET("/my-expenses", h.MyExpenses)
		expenses.GET("/:id", h.Get)
		expenses.PUT("/:id", h.Update)
		expenses.DELETE("/:id", h.Delete)

		admin := expenses.Group("", middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("", h.List)
			admin.GET("/recent", h.Recent)
			admin.GET("/search", h.Search)
			admin.GET("/date-range", h.DateRange)
			admin.GET("/amount-range", h.AmountRange)
			admin.GET("/stats", h.Stats)
			admin.GET("/user/:userId", h.ListByUser)
			admin.GET("/total/user/:userId", h.TotalByUser)
		}
	}
}

type ComplaintExpenseRequest struct {
	Description   string          `json:"description" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	ReceiptNumber string          `json:"receiptNumber"`
	VendorName    string          `json:"vendorName"`
	Notes         string          `json:"notes"`
}

func (r *ComplaintExpenseRequest) toInput() service.ComplaintExpenseInput {
	return service.ComplaintExpenseInput{
		Description:   r.Description,
		Amount:        r.Amount,
		ReceiptNumber: r.ReceiptNumber,
		VendorName:    r.VendorName,
		Notes:         r.Notes,
	}
}

// Create records an expense against a complaint, attributed to the caller.
func (h *ComplaintExpenseHandler) Create(c *gin.Context) {
	complaintID, ok := pathID(c, "complaintId")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid complaint id"})
		return
	}
	caller, ok := middleware.Caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "not authenticated"})
		return
	}
	var req ComplaintExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}
	expense, err := h.expenses.Create(c.Request.Context(), complaintID, caller.UserID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Get returns one expense: admins any, others only those they recorded.
func (h *ComplaintExpenseHandler) Get(c *gin.Context) {
	expense, ok := h.ownedExpense(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Update edits an expense: admins any, others only those they recorded.
func (h *ComplaintExpenseHandler) Update(c *gin.Context) {
	expense, ok := h.ownedExpense(c)
	if !ok {
		return
	}
	var req ComplaintExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}
	updated, err := h.expenses.Update(c.Request.Context(), expense.ID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes an expense: admins any, others only those they recorded.
func (h *ComplaintExpenseHandler) Delete(c *gin.Context) {
	expense, ok := h.ownedExpense(c)
	if !ok {
		return
	}
	if err := h.expenses.Delete(c.Request.Context(), expense.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Expense deleted successfully"})
}

// List returns every expense; admin only.
func (h *ComplaintExpenseHandler) List(c *gin.Context) {
	h.respondList(c)(h.expenses.List(c.Request.Context()))
}

// ListByComplaint returns the expenses recorded against one complaint.
func (h *ComplaintExpenseHandler) ListByComplaint(c *gin.Context) {
	complaintID, ok := pathID(c, "complaintId")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid complaint id"})
		return
	}
	h.respondList(c)(h.expenses.ListByComplaint(c.Request.Context(), complaintID))
}

// ListByUser returns the expenses one user recorded; admin only.
func (h *ComplaintExpenseHandler) ListByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid user id"})
		return
	}
	h.respondList(c)(h.expenses.ListByUser(c.Request.Context(), userID))
}

// MyExpenses returns the expenses the caller recorded.
func (h *ComplaintExpenseHandler) MyExpenses(c *gin.Context) {
	caller, ok := middleware.Caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "not authenticated"})
		return
	}
	h.respondList(c)(h.expenses.ListByUser(c.Request.Context(), caller.UserID))
}

// TotalByComplaint returns what servicing one complaint has cost.
func (h *ComplaintExpenseHandler) TotalByComplaint(c *gin.Context) {
	complaintID, ok := pathID(c, "complaintId")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid complaint id"})
		return
	}
	total, err := h.expenses.TotalByComplaint(c.Request.Context(), complaintID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, total)
}

// TotalByUser returns the spend one user has recorded; admin only.
func (h *ComplaintExpenseHandler) TotalByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid user id"})
		return
	}
	total, err := h.expenses.TotalByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, total)
}

// Recent returns the last 30 days of expenses; admin only.
func (h *ComplaintExpenseHandler) Recent(c *gin.Context) {
	h.respondList(c)(h.expenses.Recent(c.Request.Context()))
}

// Search finds expenses by description; admin only.
func (h *ComplaintExpenseHandler) Search(c *gin.Context) {
	term := c.Query("description")
	if term == "" {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "description is required"})
		return
	}
	h.respondList(c)(h.expenses.SearchByDescription(c.Request.Context(), term))
}

// DateRange returns expenses between startDate and endDate; admin only.
func (h *ComplaintExpenseHandler) DateRange(c *gin.Context) {
	start, okStart := parseDate(c.Query("startDate"))
	end, okEnd := parseDate(c.Query("endDate"))
	if !okStart || !okEnd || start == nil || end == nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "startDate and endDate are required"})
		return
	}
	h.respondList(c)(h.expenses.ListByDateRange(c.Request.Context(), *start, *end))
}

// AmountRange returns expenses costing between minAmount and maxAmount;
// admin only.
func (h *ComplaintExpenseHandler) AmountRange(c *gin.Context) {
	min, errMin := decimal.NewFromString(c.Query("minAmount"))
	max, errMax := decimal.NewFromString(c.Query("maxAmount"))
	if errMin != nil || errMax != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "minAmount and maxAmount are required"})
		return
	}
	h.respondList(c)(h.expenses.ListByAmountRange(c.Request.Context(), min, max))
}

// Stats returns the overall and last-30-day totals; admin only.
func (h *ComplaintExpenseHandler) Stats(c *gin.Context) {
	stats, err := h.expenses.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ownedExpense loads the expense and checks the admin-or-recorder rule,
// writing the failure response itself.
func (h *ComplaintExpenseHandler) ownedExpense(c *gin.Context) (*models.Expense, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid expense id"})
		return nil, false
	}
	expense, err := h.expenses.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	caller, ok := middleware.Caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "not authenticated"})
		return nil, false
	}
	if caller.Role != models.RoleAdmin && (expense.AddedByID == nil || *expense.AddedByID != caller.UserID) {
		c.JSON(http.StatusForbidden, MessageResponse{Message: "Operation not permitted"})
		return nil, false
	}
	return expense, true
}

// respondList folds the (slice, error) pair every list endpoint produces.
func (h *ComplaintExpenseHandler) respondList(c *gin.Context) func([]models.Expense, error) {
	return func(list []models.Expense, err error) {
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
