package routes

import (
	"github.com/jubayer-ahmed-ratul/InfraWatch-server/controllers"
	"github.com/jubayer-ahmed-ratul/InfraWatch-server/middlewares"

	"github.com/gin-gonic/gin"
)

// PaymentRoutes sets up the payment routes
func PaymentRoutes(r *gin.Engine, pc *controllers.PaymentController) {
	r.POST("/create-checkout-session", middlewares.AuthMiddleware(), pc.CreateCheckoutSession)

	payment := r.Group("/payments", middlewares.AuthMiddleware(), middlewares.RequireAdmin())
	{
		payment.GET("/total", pc.GetPaymentsTotal)
		payment.GET("/list", pc.ListPayments)
	}
}
