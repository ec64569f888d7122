package routes

import (
	"github.com/jubayer-ahmed-ratul/InfraWatch-server/controllers"
	"github.com/jubayer-ahmed-ratul/InfraWatch-server/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes. limiter is the issue-creation rate
// limiter and may be nil when Redis is not configured.
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController, pc *controllers.PaymentController, limiter gin.HandlerFunc) {
	createChain := []gin.HandlerFunc{middlewares.AuthMiddleware()}
	if limiter != nil {
		createChain = append(createChain, limiter)
	}
	createChain = append(createChain, ic.CreateIssue)

	issue := r.Group("/issues")
	{
		issue.GET("", ic.GetAllIssues)
		issue.POST("", createChain...)
		issue.GET("/resolved", ic.GetResolvedIssues)
		issue.GET("/user/:email", ic.GetIssuesByUser)
		issue.GET("/assigned/staff/:staffId/all", middlewares.AuthMiddleware(), ic.GetAssignedIssues)
		issue.GET("/assigned/staff/:staffId/filtered", middlewares.AuthMiddleware(), ic.GetAssignedIssuesFiltered)
		issue.GET("/:id", ic.GetIssue)
		issue.PATCH("/:id", middlewares.AuthMiddleware(), ic.UpdateIssue)
		issue.DELETE("/:id", middlewares.AuthMiddleware(), ic.DeleteIssue)
		issue.PATCH("/:id/upvote", middlewares.AuthMiddleware(), ic.UpvoteIssue)
		issue.PATCH("/:id/assign-staff", middlewares.AuthMiddleware(), middlewares.RequireAdmin(), ic.AssignStaff)
		issue.PATCH("/:id/unassign-staff", middlewares.AuthMiddleware(), middlewares.RequireAdmin(), ic.UnassignStaff)
		issue.PATCH("/:id/status", middlewares.AuthMiddleware(), ic.UpdateStatus)
		issue.PATCH("/:id/boost", middlewares.AuthMiddleware(), ic.BoostIssue)
		issue.POST("/:id/boost-session", middlewares.AuthMiddleware(), pc.CreateBoostSession)
	}
}
