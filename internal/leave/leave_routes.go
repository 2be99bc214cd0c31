package leave

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-leavedesk/internal/middleware"
	"go-leavedesk/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("",
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionCreate),
			middleware.Idempotency(rdb),
			handler.Submit,
		)

		leaves.GET("/mine", handler.ListMine)
		leaves.GET("/team", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionApprove), handler.ListTeam)
		leaves.GET("/pending-hr", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionHRApprove), handler.ListPendingHR)

		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionRead), handler.GetById)
		leaves.GET("/:id/audit", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionRead), handler.ListAudit)

		leaves.POST("/:id/manager-decision", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionApprove), handler.ManagerDecide)
		leaves.POST("/:id/hr-decision", middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionHRApprove), handler.HRDecide)

		// Ownership (or the cancel_override permission) is checked in the
		// service, not here: an employee may always cancel their own request.
		leaves.POST("/:id/cancel", handler.Cancel)
	}
}
