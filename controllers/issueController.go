package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jubayer-ahmed-ratul/InfraWatch-server/models"
	"github.com/jubayer-ahmed-ratul/InfraWatch-server/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueController exposes the issue lifecycle over HTTP. All state changes go
// through the injected IssueService.
type IssueController struct {
	service *services.IssueService
}

func NewIssueController(service *services.IssueService) *IssueController {
	return &IssueController{service: service}
}

// respondServiceError maps service errors onto the HTTP error taxonomy.
func respondServiceError(c *gin.Context, err error) {
	var invalid *services.InvalidTransitionError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":              invalid.Error(),
			"allowedTransitions": invalid.Allowed,
		})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrIssueNotFound), errors.Is(err, services.ErrStaffNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotPending),
		errors.Is(err, services.ErrOwnIssueUpvote),
		errors.Is(err, services.ErrNotAssignedStaff):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyUpvoted),
		errors.Is(err, services.ErrAlreadyBoosted),
		errors.Is(err, services.ErrConcurrentUpdate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 10*time.Second)
}

func issueIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// CreateIssue handles the creation of a new issue
func (ic *IssueController) CreateIssue(c *gin.Context) {
	var input struct {
		Title       string               `json:"title" binding:"required,max=200"`
		Description string               `json:"description" binding:"max=2000"`
		Category    string               `json:"category" binding:"max=100"`
		Priority    models.IssuePriority `json:"priority"`
		CreatedBy   struct {
			UserID string `json:"userId" binding:"required"`
			Name   string `json:"name"`
			Email  string `json:"email"`
		} `json:"createdBy" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issue, err := ic.service.Create(ctx, services.CreateIssueInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		CreatedBy: models.UserRef{
			UserID: input.CreatedBy.UserID,
			Name:   input.CreatedBy.Name,
			Email:  input.CreatedBy.Email,
		},
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// GetAllIssues handles the filtered, paginated issue list
func (ic *IssueController) GetAllIssues(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := ic.service.List(ctx, services.ListIssuesFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetResolvedIssues returns the small resolved-issues preview
func (ic *IssueController) GetResolvedIssues(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	issues, err := ic.service.ListResolvedPreview(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, issues)
}

// GetIssue retrieves an issue by its ID
func (ic *IssueController) GetIssue(c *gin.Context) {
	id, ok := issueIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issue, err := ic.service.Get(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// GetIssuesByUser returns the issues a citizen reported, paginated
func (ic *IssueController) GetIssuesByUser(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := ic.service.ListByReporterEmail(ctx, email, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateIssue applies an allow-listed edit to a Pending issue. Unknown JSON
// fields are rejected.
func (ic *IssueController) UpdateIssue(c *gin.Context) {
	id, ok := issueIDParam(c)
	if !ok {
		return
	}

	var input struct {
		Title       *string               `json:"title"`
		Description *string               `json:"description"`
		Category    *string               `json:"category"`
		Priority    *models.IssuePriority `json:"priority"`
		Status      *models.IssueStatus   `json:"status"`
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	err := ic.service.Edit(ctx, id, services.EditIssueInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      input.Status,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue updated successfully"})
}

// DeleteIssue removes a Pending issue
func (ic *IssueController) DeleteIssue(c *gin.Context) {
	id, ok := issueIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := ic.service.Delete(ctx, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue deleted successfully"})
}

// UpvoteIssue records a single upvote by the user in the request body
func (ic *IssueController) UpvoteIssue(c *gin.Context) {
	id, ok := issueIDParam(c)
	if !ok {
		return
	}

	var input struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := ic.service.Upvote(ctx, id, input.UserID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Upvoted successfully"})
}

// AssignStaff assigns a staff member to the issue and moves it to In Progress
func (ic *IssueController) AssignStaff(c *gin.Context) {
	id, ok := issueIDParam(c)
	if !ok {
		return
	}

	var input struct {
		StaffID string `json:"staffId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	staffID, err := primitive.ObjectIDFromHex(input.StaffID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff ID"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issue, err := ic.service.AssignStaff(ctx, id, staffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// UnassignStaff clears the staff assignment and resets the issue to Pending
func (ic *IssueController) UnassignStaff(c *gin.Context) {
	id, ok := issueIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issue, err := ic.service.UnassignStaff(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// UpdateStatus applies a staff-driven status transition
func (ic *IssueController) UpdateStatus(c *gin.Context) {
	id, ok := issueIDParam(c)
	if !ok {
		return
	}

	var input struct {
		NewStatus  models.IssueStatus `json:"newStatus" binding:"required"`
		StaffEmail string             `json:"staffEmail" binding:"required,email"`
		Comment    string             `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidStatus(input.NewStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issue, entry, err := ic.service.Transition(ctx, id, input.NewStatus, input.StaffEmail, input.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"issue":         issue,
		"timelineEntry": entry,
	})
}

// BoostIssue flips the one-way boosted flag
func (ic *IssueController) BoostIssue(c *gin.Context) {
	id, ok := issueIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issue, err := ic.service.Boost(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// GetAssignedIssues returns every issue assigned to a staff member
func (ic *IssueController) GetAssignedIssues(c *gin.Context) {
	staffID := c.Param("staffId")

	ctx, cancel := requestContext(c)
	defer cancel()

	issues, err := ic.service.ListAssigned(ctx, staffID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, issues)
}

// GetAssignedIssuesFiltered returns a staff worklist page plus status counts
func (ic *IssueController) GetAssignedIssuesFiltered(c *gin.Context) {
	staffID := c.Param("staffId")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	ctx, cancel := requestContext(c)
	defer cancel()

	worklist, err := ic.service.ListAssignedFiltered(ctx, staffID, services.ListIssuesFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, worklist)
}
