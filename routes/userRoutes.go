package routes

import (
	"github.com/jubayer-ahmed-ratul/InfraWatch-server/controllers"
	"github.com/jubayer-ahmed-ratul/InfraWatch-server/middlewares"

	"github.com/gin-gonic/gin"
)

// UserRoutes sets up the user management routes
func UserRoutes(r *gin.Engine, uc *controllers.UserController) {
	user := r.Group("/users")
	{
		user.GET("", middlewares.AuthMiddleware(), middlewares.RequireAdmin(), uc.GetAllUsers)
		user.POST("", uc.CreateUser)
		user.GET("/:id", middlewares.AuthMiddleware(), uc.GetUser)
		user.PATCH("/:id/premium", middlewares.AuthMiddleware(), middlewares.RequireAdmin(), uc.SetPremium)
		user.PATCH("/:id/make-admin", middlewares.AuthMiddleware(), middlewares.RequireAdmin(), uc.MakeAdmin)
		user.PATCH("/:id/block", middlewares.AuthMiddleware(), middlewares.RequireAdmin(), uc.BlockUser)
		user.DELETE("/:id", middlewares.AuthMiddleware(), middlewares.RequireAdmin(), uc.DeleteUser)
	}
}
