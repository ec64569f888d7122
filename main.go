package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/jubayer-ahmed-ratul/InfraWatch-server/config"
	"github.com/jubayer-ahmed-ratul/InfraWatch-server/controllers"
	"github.com/jubayer-ahmed-ratul/InfraWatch-server/middlewares"
	"github.com/jubayer-ahmed-ratul/InfraWatch-server/payments"
	"github.com/jubayer-ahmed-ratul/InfraWatch-server/routes"
	"github.com/jubayer-ahmed-ratul/InfraWatch-server/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	ctx := context.Background()

	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "infraWatch_db"
	}
	db, err := config.ConnectDB(ctx, os.Getenv("MONGODB_URI"), dbName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close(ctx)
	log.Println("MongoDB connection established successfully!")

	issueService := services.NewIssueService(db.Collection("issues"), db.Collection("staff"))

	gateway := payments.NewStripeGateway(os.Getenv("STRIPE_SECRET_KEY"), os.Getenv("PAYMENT_CURRENCY"))

	clientURL := os.Getenv("CLIENT_URL")
	if clientURL == "" {
		clientURL = "http://localhost:5173"
	}
	boostAmount, _ := strconv.ParseInt(os.Getenv("BOOST_AMOUNT_CENTS"), 10, 64)

	issueController := controllers.NewIssueController(issueService)
	userController := controllers.NewUserController(db.Collection("users"))
	staffController := controllers.NewStaffController(db.Collection("staff"), db.Collection("users"))
	authController := controllers.NewAuthController(db.Collection("users"))
	paymentController := controllers.NewPaymentController(gateway, issueService, clientURL, boostAmount)

	var limiter gin.HandlerFunc
	if addr := os.Getenv("REDIS_ADDRESS"); addr != "" {
		redisClient, err := config.ConnectRedis(addr, os.Getenv("REDIS_PASSWORD"))
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Connected to Redis")

		limit, _ := strconv.Atoi(os.Getenv("ISSUE_RATE_LIMIT"))
		if limit < 1 {
			limit = 5
		}
		limiter = middlewares.IssueRateLimiter(redisClient, limit)
	} else {
		log.Println("REDIS_ADDRESS not set, issue rate limiting disabled")
	}

	r := gin.Default()
	r.Use(cors.Default())

	routes.AuthRoutes(r, authController)
	routes.IssueRoutes(r, issueController, paymentController, limiter)
	routes.UserRoutes(r, userController)
	routes.StaffRoutes(r, staffController)
	routes.PaymentRoutes(r, paymentController)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Backend running! Citizen & Issues API is live."})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
