package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Mangarao/aarohi-tms/internal/api"
	"github.com/Mangarao/aarohi-tms/internal/middleware"
	"github.com/Mangarao/aarohi-tms/internal/service"
)

// Services bundles the business layer the HTTP handlers sit on.
type Services struct {
	Auth              *service.AuthService
	Users             *service.UserService
	Complaints        *service.ComplaintService
	Expenses          *service.ExpenseService
	ComplaintExpenses *service.ComplaintExpenseService
}

// New builds the gin engine with all routes mounted under /api.
// publicLimit may be nil when rate limiting is disabled.
func New(db *gorm.DB, svcs Services, publicLimit *middleware.RateLimiter) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger())
	engine.Use(middleware.CORS())

	root := engine.Group("/api")

	api.NewHealthHandler(db).RegisterRoutes(root)
	api.NewAuthHandler(svcs.Auth, svcs.Users).RegisterRoutes(root)
	api.NewComplaintHandler(svcs.Complaints, svcs.Auth, publicLimit).RegisterRoutes(root)
	api.NewUserHandler(svcs.Users, svcs.Auth).RegisterRoutes(root)
	api.NewExpenseHandler(svcs.Expenses, svcs.Auth).RegisterRoutes(root)
	api.NewComplaintExpenseHandler(svcs.ComplaintExpenses, svcs.Auth).RegisterRoutes(root)

	return engine
}
