package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Mangarao/aarohi-tms/internal/middleware"
	"github.com/Mangarao/aarohi-tms/internal/models"
	"github.com/Mangarao/aarohi-tms/internal/service"
)

// ExpenseHandler serves the staff reimbursement resource.
type ExpenseHandler struct {
	expenses *service.ExpenseService
	auth     *service.AuthService
}

// NewExpenseHandler creates an ExpenseHandler.
func NewExpenseHandler(expenses *service.ExpenseService, auth *service.AuthService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses, auth: auth}
}

// RegisterRoutes mounts the staff-expense endpoints.
func (h *ExpenseHandler) RegisterRoutes(router *gin.RouterGroup) {
	expenses := router.Group("/staff-expenses", middleware.AuthMiddleware(h.auth))
	{
		expenses.POST("", h.Create)
		expenses.GET("/:id", h.Get)
		expenses.PUT("/:id", h.Update)
		expenses.DELETE("/:id", h.Delete)
		expenses.PUT("/:id/clear", h.Clear)
		expenses.GET("/my-expenses", h.MyExpenses)
		expenses.GET("/my-expenses/unpaid", h.MyUnpaidExpenses)
		expenses.GET("/my-expenses/paid", h.MyPaidExpenses)
		expenses.GET("/my-expenses/stats", h.MyStats)
		expenses.GET("/search", h.Search)
		expenses.GET("/date-range", h.DateRange)

		admin := expenses.Group("", middleware.RequireRole(models.RoleAdmin))
		{
			admin.PUT("/:id/mark-paid", h.MarkPaid)
			admin.PUT("/:id/status", h.UpdateStatus)
			admin.GET("/unpaid", h.ListUnpaid)
			admin.GET("/user/:userId", h.ListByUser)
		}
	}
}

type ExpenseRequest struct {
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Reason          string          `json:"reason" binding:"required"`
	ExpenseDate     string          `json:"expenseDate"`
	ComplaintNumber string          `json:"complaintNumber"`
}

func (r *ExpenseRequest) toInput(c *gin.Context) (service.ExpenseInput, bool) {
	expenseDate, ok := parseDate(r.ExpenseDate)
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid expense date"})
		return service.ExpenseInput{}, false
	}
	return service.ExpenseInput{
		Amount:          r.Amount,
		Reason:          r.Reason,
		ExpenseDate:     expenseDate,
		ComplaintNumber: r.ComplaintNumber,
	}, true
}

// Create files a claim owned by the caller.
func (h *ExpenseHandler) Create(c *gin.Context) {
	caller, ok := middleware.Caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "not authenticated"})
		return
	}
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}
	in, ok := req.toInput(c)
	if !ok {
		return
	}
	expense, err := h.expenses.Create(c.Request.Context(), caller.UserID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Get returns one claim: admins any, staff their own.
func (h *ExpenseHandler) Get(c *gin.Context) {
	expense, ok := h.ownedExpense(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Update edits an unpaid claim: admins any, staff their own.
func (h *ExpenseHandler) Update(c *gin.Context) {
	expense, ok := h.ownedExpense(c)
	if !ok {
		return
	}
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}
	in, ok := req.toInput(c)
	if !ok {
		return
	}
	updated, err := h.expenses.Update(c.Request.Context(), expense.ID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes an unpaid claim: admins any, staff their own.
func (h *ExpenseHandler) Delete(c *gin.Context) {
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

// Clear acknowledges receipt of a paid reimbursement: staff their own.
func (h *ExpenseHandler) Clear(c *gin.Context) {
	expense, ok := h.ownedExpense(c)
	if !ok {
		return
	}
	cleared, err := h.expenses.Clear(c.Request.Context(), expense.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cleared)
}

// MyExpenses returns the caller's claims.
func (h *ExpenseHandler) MyExpenses(c *gin.Context) {
	h.listForCaller(c, nil)
}

// MyUnpaidExpenses returns the caller's outstanding claims.
func (h *ExpenseHandler) MyUnpaidExpenses(c *gin.Context) {
	paid := false
	h.listForCaller(c, &paid)
}

// MyPaidExpenses returns the caller's settled claims.
func (h *ExpenseHandler) MyPaidExpenses(c *gin.Context) {
	paid := true
	h.listForCaller(c, &paid)
}

func (h *ExpenseHandler) listForCaller(c *gin.Context, paid *bool) {
	caller, ok := middleware.Caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "not authenticated"})
		return
	}
	expenses, err := h.expenses.ListByUser(c.Request.Context(), caller.UserID, paid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// MyStats returns the caller's reimbursement totals.
func (h *ExpenseHandler) MyStats(c *gin.Context) {
	caller, ok := middleware.Caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "not authenticated"})
		return
	}
	stats, err := h.expenses.StatsForUser(c.Request.Context(), caller.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// MarkPaid settles a claim; admin only.
func (h *ExpenseHandler) MarkPaid(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid expense id"})
		return
	}
	expense, err := h.expenses.MarkPaid(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// UpdateStatus sets the review status; admin only.
func (h *ExpenseHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid expense id"})
		return
	}
	status := models.ExpenseStatus(c.Query("status"))
	expense, err := h.expenses.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// ListUnpaid returns the admin review queue.
func (h *ExpenseHandler) ListUnpaid(c *gin.Context) {
	expenses, err := h.expenses.ListUnpaid(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// ListByUser returns one staff member's claims; admin only.
func (h *ExpenseHandler) ListByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid user id"})
		return
	}
	expenses, err := h.expenses.ListByUser(c.Request.Context(), userID, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// Search finds claims by complaint number reference.
func (h *ExpenseHandler) Search(c *gin.Context) {
	number := c.Query("complaintNumber")
	if number == "" {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "complaintNumber is required"})
		return
	}
	expenses, err := h.expenses.SearchByComplaintNumber(c.Request.Context(), number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// DateRange returns claims between startDate and endDate.
func (h *ExpenseHandler) DateRange(c *gin.Context) {
	start, okStart := parseDate(c.Query("startDate"))
	end, okEnd := parseDate(c.Query("endDate"))
	if !okStart || !okEnd || start == nil || end == nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "startDate and endDate are required"})
		return
	}
	expenses, err := h.expenses.ListByDateRange(c.Request.Context(), *start, *end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// ownedExpense loads the claim and checks the admin-or-owner rule, writing
// the failure response itself.
func (h *ExpenseHandler) ownedExpense(c *gin.Context) (*models.StaffExpense, bool) {
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
	if caller.Role != models.RoleAdmin && expense.StaffUserID != caller.UserID {
		c.JSON(http.StatusForbidden, MessageResponse{Message: "Operation not permitted"})
		return nil, false
	}
	return expense, true
}
