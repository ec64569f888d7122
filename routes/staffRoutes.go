package routes

import (
	"github.com/jubayer-ahmed-ratul/InfraWatch-server/controllers"
	"github.com/jubayer-ahmed-ratul/InfraWatch-server/middlewares"

	"github.com/gin-gonic/gin"
)

// StaffRoutes sets up the staff management routes
func StaffRoutes(r *gin.Engine, sc *controllers.StaffController) {
	staff := r.Group("/staff", middlewares.AuthMiddleware())
	{
		staff.GET("", sc.GetAllStaff)
		staff.POST("", middlewares.RequireAdmin(), sc.CreateStaff)
		staff.GET("/:id", sc.GetStaff)
		staff.GET("/email/:email", sc.GetStaffByEmail)
		staff.PATCH("/:id", middlewares.RequireAdmin(), sc.UpdateStaff)
		staff.PATCH("/profile/:id", sc.UpdateStaffProfile)
		staff.DELETE("/:id", middlewares.RequireAdmin(), sc.DeleteStaff)
		staff.POST("/from-user/:userId", middlewares.RequireAdmin(), sc.CreateStaffFromUser)
	}
}
