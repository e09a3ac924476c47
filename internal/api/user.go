package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mangarao/aarohi-tms/internal/middleware"
	"github.com/Mangarao/aarohi-tms/internal/models"
	"github.com/Mangarao/aarohi-tms/internal/service"
)

// UserHandler serves account management for admins, plus self-service reads.
type UserHandler struct {
	users *service.UserService
	auth  *service.AuthService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, auth *service.AuthService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

// RegisterRoutes mounts the user endpoints.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users", middleware.AuthMiddleware(h.auth))
	{
		users.GET("/:id", h.Get)
		users.PUT("/:id", h.Update)

		admin := users.Group("", middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("", h.List)
			admin.POST("", h.Create)
			admin.DELETE("/:id", h.Delete)
			admin.PUT("/:id/activate", h.Activate)
			admin.PUT("/:id/deactivate", h.Deactivate)
			admin.GET("/username/:username", h.GetByUsername)
			admin.GET("/role/:role", h.ListByRole)
			admin.GET("/staff", h.ListStaff)
			admin.GET("/staff/active", h.ListActiveStaff)
			admin.GET("/stats", h.Stats)
		}
	}
}

type UserRequest struct {
	Username     string      `json:"username" binding:"required"`
	Email        string      `json:"email"`
	FullName     string      `json:"fullName" binding:"required"`
	MobileNumber string      `json:"mobileNumber" binding:"required"`
	Password     string      `json:"password"`
	Role         models.Role `json:"role" binding:"required"`
	IsActive     *bool       `json:"isActive"`
}

// Create adds an account; admin only.
func (h *UserHandler) Create(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}
	user, err := h.users.Create(c.Request.Context(), service.CreateUserInput{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		MobileNumber: req.MobileNumber,
		Password:     req.Password,
		Role:         req.Role,
		IsActive:     req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Get returns one account: admins any, others only themselves.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid user id"})
		return
	}
	if !h.selfOrAdmin(c, id) {
		c.JSON(http.StatusForbidden, MessageResponse{Message: "Operation not permitted"})
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetByUsername looks up an account by its login name; admin only.
func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update edits an account: admins any, others only themselves.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid user id"})
		return
	}
	if !h.selfOrAdmin(c, id) {
		c.JSON(http.StatusForbidden, MessageResponse{Message: "Operation not permitted"})
		return
	}
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}
	user, err := h.users.Update(c.Request.Context(), id, service.CreateUserInput{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		MobileNumber: req.MobileNumber,
		Password:     req.Password,
		Role:         req.Role,
		IsActive:     req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete removes an account; admin only.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid user id"})
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

// Activate re-enables an account.
func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate disables an account, the soft alternative to deletion.
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid user id"})
		return
	}
	user, err := h.users.SetActive(c.Request.Context(), id, active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// List returns every account; admin only.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListByRole returns accounts with one role; admin only.
func (h *UserHandler) ListByRole(c *gin.Context) {
	role := models.Role(c.Param("role"))
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid role"})
		return
	}
	users, err := h.users.ListByRole(c.Request.Context(), role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListStaff returns every staff account; admin only.
func (h *UserHandler) ListStaff(c *gin.Context) {
	users, err := h.users.ListByRole(c.Request.Context(), models.RoleStaff)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListActiveStaff returns the staff available for assignment; admin only.
func (h *UserHandler) ListActiveStaff(c *gin.Context) {
	users, err := h.users.ListActiveStaff(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Stats returns account counters; admin only.
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.users.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *UserHandler) selfOrAdmin(c *gin.Context, id uint) bool {
	caller, ok := middleware.Caller(c)
	if !ok {
		return false
	}
	return caller.Role == models.RoleAdmin || caller.UserID == id
}
