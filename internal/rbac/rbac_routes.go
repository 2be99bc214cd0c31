package rbac

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authMiddleware gin.HandlerFunc) {
	group := r.Group("/rbac")
	group.Use(authMiddleware)
	{
		group.GET("/roles", handler.ListRoles)
		group.GET("/permissions", handler.ListPermissions)
		group.POST("/check", handler.Check)
	}
}
