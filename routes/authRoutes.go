package routes

import (
	"github.com/jubayer-ahmed-ratul/InfraWatch-server/controllers"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, ac *controllers.AuthController) {
	r.POST("/login", ac.Login)
}
