package leavetype

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
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveType, rbac.ActionRead), handler.List)
		types.PUT("/:type", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveType, rbac.ActionManage), handler.Update)
	}
}
