package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mangarao/aarohi-tms/internal/middleware"
	"github.com/Mangarao/aarohi-tms/internal/models"
	"github.com/Mangarao/aarohi-tms/internal/service"
)

// AuthHandler serves signin, signup and the current-user endpoint.
type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, users *service.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

// RegisterRoutes mounts the auth endpoints.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/signin", h.Signin)
		auth.POST("/signup",
			middleware.AuthMiddleware(h.auth),
			middleware.RequireRole(models.RoleAdmin),
			h.Signup)
		auth.GET("/me", middleware.AuthMiddleware(h.auth), h.Me)
	}
}

type SigninRequest struct {
	Username string      `json:"username" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Role     models.Role `json:"role" binding:"required"`
}

type SigninResponse struct {
	AccessToken string      `json:"accessToken"`
	TokenType   string      `json:"tokenType"`
	ID          uint        `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	FullName    string      `json:"fullName"`
	Role        models.Role `json:"role"`
}

// Signin authenticates a username/password/role triple and issues a token.
func (h *AuthHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	token, err := h.auth.GenerateToken(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SigninResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.Role,
	})
}

type SignupRequest struct {
	Username     string      `json:"username" binding:"required"`
	Email        string      `json:"email"`
	FullName     string      `json:"fullName" binding:"required"`
	MobileNumber string      `json:"mobileNumber" binding:"required"`
	Password     string      `json:"password" binding:"required,min=6"`
	Role         models.Role `json:"role"`
}

// Signup creates a staff account; admin only.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleStaff
	}

	_, err := h.users.Create(c.Request.Context(), service.CreateUserInput{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		MobileNumber: req.MobileNumber,
		Password:     req.Password,
		Role:         role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "User registered successfully"})
}

// Me returns the authenticated user's account.
func (h *AuthHandler) Me(c *gin.Context) {
	caller, ok := middleware.Caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "not authenticated"})
		return
	}
	user, err := h.users.Get(c.Request.Context(), caller.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
