package employee

import (
	"go-leavedesk/internal/middleware"
	"go-leavedesk/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, rbac.ActionRead), handler.GetAll)
		employees.GET("/options", middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, rbac.ActionRead), handler.GetOptions)
		employees.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, rbac.ActionRead), handler.GetById)
		employees.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, rbac.ActionManage), handler.Create)
		employees.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, rbac.ActionManage), handler.Delete)

		// Self-service, no extra permission needed.
		employees.POST("/device-tokens", handler.RegisterDeviceToken)
	}
}
