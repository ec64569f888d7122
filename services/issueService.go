package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jubayer-ahmed-ratul/InfraWatch-server/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IssueService is the sole authority for mutating an issue's status, staff
// assignment, and timeline. Every mutation is a single conditional update
// matching on the expected current state, so two racing writers cannot both
// apply (the loser gets ErrConcurrentUpdate or the relevant conflict error).
type IssueService struct {
	issues *mongo.Collection
	staff  *mongo.Collection
}

func NewIssueService(issues, staff *mongo.Collection) *IssueService {
	return &IssueService{issues: issues, staff: staff}
}

// CreateIssueInput carries the citizen-supplied fields for a new issue.
type CreateIssueInput struct {
	Title       string
	Description string
	Category    string
	Priority    models.IssuePriority
	CreatedBy   models.UserRef
}

// Create inserts a new Pending issue with the creation timeline entry.
func (s *IssueService) Create(ctx context.Context, input CreateIssueInput) (models.Issue, error) {
	if input.Title == "" || input.CreatedBy.UserID == "" {
		return models.Issue{}, fmt.Errorf("title and createdBy.userId are required: %w", ErrInvalidInput)
	}
	if input.Priority != "" && input.Priority != models.PriorityNormal && input.Priority != models.PriorityHigh {
		return models.Issue{}, fmt.Errorf("invalid priority %q: %w", input.Priority, ErrInvalidInput)
	}

	issue := models.NewIssue(input.Title, input.Description, input.Category, input.Priority, input.CreatedBy, time.Now())
	if _, err := s.issues.InsertOne(ctx, issue); err != nil {
		return models.Issue{}, fmt.Errorf("failed to insert issue: %w", err)
	}
	return issue, nil
}

// Get returns a single issue by id.
func (s *IssueService) Get(ctx context.Context, id primitive.ObjectID) (models.Issue, error) {
	var issue models.Issue
	err := s.issues.FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err == mongo.ErrNoDocuments {
		return models.Issue{}, ErrIssueNotFound
	}
	if err != nil {
		return models.Issue{}, err
	}
	return issue, nil
}

// EditIssueInput is the allow-listed patch for a Pending issue. Nil fields
// are left unchanged.
type EditIssueInput struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *models.IssuePriority
	Status      *models.IssueStatus
}

// Edit applies an allow-listed update to a Pending issue. A status change on
// this path is an admin-style direct edit: it appends an audit entry but does
// not consult the transition table.
func (s *IssueService) Edit(ctx context.Context, id primitive.ObjectID, input EditIssueInput) error {
	issue, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !issue.CanEdit() {
		return ErrNotPending
	}

	now := time.Now()
	set := bson.M{"updatedAt": now}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Category != nil {
		set["category"] = *input.Category
	}
	if input.Priority != nil {
		if *input.Priority != models.PriorityNormal && *input.Priority != models.PriorityHigh {
			return fmt.Errorf("invalid priority %q: %w", *input.Priority, ErrInvalidInput)
		}
		set["priority"] = *input.Priority
	}

	update := bson.M{"$set": set}
	if input.Status != nil && *input.Status != issue.Status {
		if !models.ValidStatus(*input.Status) {
			return fmt.Errorf("invalid status %q: %w", *input.Status, ErrInvalidInput)
		}
		set["status"] = *input.Status
		update["$push"] = bson.M{"timeline": models.TimelineEntry{
			Status:    *input.Status,
			UpdatedBy: issue.CreatedBy.UserID,
			Message:   fmt.Sprintf("Status changed to %s", *input.Status),
			Timestamp: now,
		}}
	}

	// Condition on the status we read, so a racing transition loses or wins
	// cleanly instead of silently interleaving.
	res, err := s.issues.UpdateOne(ctx, bson.M{"_id": id, "status": issue.Status}, update)
	if err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConcurrentUpdate
	}
	return nil
}

// Delete removes a Pending issue permanently.
func (s *IssueService) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.issues.DeleteOne(ctx, bson.M{"_id": id, "status": models.Pending})
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}
	if res.DeletedCount == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
		return ErrNotPending
	}
	return nil
}

// Upvote records a single upvote by userID. Users cannot upvote their own
// issue and cannot upvote twice; the second attempt is rejected, not a no-op.
func (s *IssueService) Upvote(ctx context.Context, id primitive.ObjectID, userID string) error {
	issue, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if issue.IsOwnIssue(userID) {
		return ErrOwnIssueUpvote
	}
	if issue.HasUpvoted(userID) {
		return ErrAlreadyUpvoted
	}

	res, err := s.issues.UpdateOne(ctx,
		bson.M{
			"_id":              id,
			"createdBy.userId": bson.M{"$ne": userID},
			"upvoters":         bson.M{"$ne": userID},
		},
		bson.M{
			"$inc":  bson.M{"upvotes": 1},
			"$push": bson.M{"upvoters": userID},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to upvote issue: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrAlreadyUpvoted
	}
	return nil
}

// AssignStaff snapshots the staff member onto the issue and moves it to
// In Progress.
func (s *IssueService) AssignStaff(ctx context.Context, issueID, staffID primitive.ObjectID) (models.Issue, error) {
	var staff models.Staff
	err := s.staff.FindOne(ctx, bson.M{"_id": staffID}).Decode(&staff)
	if err == mongo.ErrNoDocuments {
		return models.Issue{}, ErrStaffNotFound
	}
	if err != nil {
		return models.Issue{}, err
	}

	now := time.Now()
	entry := models.TimelineEntry{
		Status:    models.InProgress,
		UpdatedBy: "Admin",
		Message:   "Assigned to staff: " + staff.Name,
		Timestamp: now,
	}
	res, err := s.issues.UpdateOne(ctx,
		bson.M{"_id": issueID},
		bson.M{
			"$set": bson.M{
				"assignedStaff": staff.Ref(),
				"status":        models.InProgress,
				"updatedAt":     now,
			},
			"$push": bson.M{"timeline": entry},
		},
	)
	if err != nil {
		return models.Issue{}, fmt.Errorf("failed to assign staff: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.Issue{}, ErrIssueNotFound
	}
	return s.Get(ctx, issueID)
}

// UnassignStaff clears the assignment and resets the issue to Pending.
func (s *IssueService) UnassignStaff(ctx context.Context, issueID primitive.ObjectID) (models.Issue, error) {
	now := time.Now()
	entry := models.TimelineEntry{
		Status:    models.Pending,
		UpdatedBy: "Admin",
		Message:   "Staff assignment removed",
		Timestamp: now,
	}
	res, err := s.issues.UpdateOne(ctx,
		bson.M{"_id": issueID},
		bson.M{
			"$set":   bson.M{"status": models.Pending, "updatedAt": now},
			"$unset": bson.M{"assignedStaff": ""},
			"$push":  bson.M{"timeline": entry},
		},
	)
	if err != nil {
		return models.Issue{}, fmt.Errorf("failed to unassign staff: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.Issue{}, ErrIssueNotFound
	}
	return s.Get(ctx, issueID)
}

// Transition applies a staff-driven status change. Preconditions are checked
// in order: staff exists, issue exists, issue is assigned to that staff, and
// the change is in the transition table.
func (s *IssueService) Transition(ctx context.Context, issueID primitive.ObjectID, target models.IssueStatus, staffEmail, comment string) (models.Issue, models.TimelineEntry, error) {
	var staff models.Staff
	err := s.staff.FindOne(ctx, bson.M{"email": staffEmail}).Decode(&staff)
	if err == mongo.ErrNoDocuments {
		return models.Issue{}, models.TimelineEntry{}, ErrStaffNotFound
	}
	if err != nil {
		return models.Issue{}, models.TimelineEntry{}, err
	}

	issue, err := s.Get(ctx, issueID)
	if err != nil {
		return models.Issue{}, models.TimelineEntry{}, err
	}
	if !issue.AssignedTo(staffEmail) {
		return models.Issue{}, models.TimelineEntry{}, ErrNotAssignedStaff
	}
	if !models.CanTransition(issue.Status, target) {
		return models.Issue{}, models.TimelineEntry{}, &InvalidTransitionError{
			From:    issue.Status,
			To:      target,
			Allowed: models.AllowedTransitions(issue.Status),
		}
	}

	now := time.Now()
	message := comment
	if message == "" {
		message = fmt.Sprintf("Status changed from %s to %s", issue.Status, target)
	}
	entry := models.TimelineEntry{
		Status:     target,
		UpdatedBy:  staff.Name,
		Message:    message,
		Timestamp:  now,
		StaffID:    staff.ID.Hex(),
		StaffEmail: staff.Email,
	}

	res, err := s.issues.UpdateOne(ctx,
		bson.M{
			"_id":                 issueID,
			"status":              issue.Status,
			"assignedStaff.email": staffEmail,
		},
		bson.M{
			"$set":  bson.M{"status": target, "updatedAt": now},
			"$push": bson.M{"timeline": entry},
		},
	)
	if err != nil {
		return models.Issue{}, models.TimelineEntry{}, fmt.Errorf("failed to update status: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.Issue{}, models.TimelineEntry{}, ErrConcurrentUpdate
	}

	updated, err := s.Get(ctx, issueID)
	if err != nil {
		return models.Issue{}, models.TimelineEntry{}, err
	}
	return updated, entry, nil
}

// Boost flips the one-way boosted flag and forces priority to High.
func (s *IssueService) Boost(ctx context.Context, issueID primitive.ObjectID) (models.Issue, error) {
	issue, err := s.Get(ctx, issueID)
	if err != nil {
		return models.Issue{}, err
	}
	if issue.Boosted {
		return models.Issue{}, ErrAlreadyBoosted
	}

	res, err := s.issues.UpdateOne(ctx,
		bson.M{"_id": issueID, "boosted": false},
		bson.M{"$set": bson.M{
			"boosted":   true,
			"priority":  models.PriorityHigh,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		return models.Issue{}, fmt.Errorf("failed to boost issue: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.Issue{}, ErrAlreadyBoosted
	}
	return s.Get(ctx, issueID)
}

// ListIssuesFilter holds the query-string filters for the issue list.
type ListIssuesFilter struct {
	Search   string
	Category string
	Status   string
	Priority string
	Page     int
	Limit    int
}

// ListResult is the pagination envelope shared by the list queries.
type ListResult struct {
	Issues      []models.Issue `json:"issues"`
	TotalCount  int64          `json:"totalCount"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
}

func (f *ListIssuesFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
}

// List returns a filtered, paginated page of issues plus the total count.
func (s *IssueService) List(ctx context.Context, filter ListIssuesFilter) (ListResult, error) {
	filter.normalize()

	query := bson.M{}
	if filter.Search != "" {
		query["title"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}

	return s.page(ctx, query, filter.Page, filter.Limit, bson.D{{Key: "createdAt", Value: -1}})
}

// ListByReporterEmail returns the issues a citizen reported, newest first.
func (s *IssueService) ListByReporterEmail(ctx context.Context, email string, page, limit int) (ListResult, error) {
	filter := ListIssuesFilter{Page: page, Limit: limit}
	filter.normalize()
	query := bson.M{"createdBy.email": email}
	return s.page(ctx, query, filter.Page, filter.Limit, bson.D{{Key: "createdAt", Value: -1}})
}

// ListResolvedPreview returns up to six resolved issues, matching the status
// case-insensitively.
func (s *IssueService) ListResolvedPreview(ctx context.Context) ([]models.Issue, error) {
	cursor, err := s.issues.Find(ctx,
		bson.M{"status": bson.M{"$regex": "^resolved$", "$options": "i"}},
		options.Find().SetLimit(6),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve resolved issues: %w", err)
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, fmt.Errorf("failed to decode resolved issues: %w", err)
	}
	return issues, nil
}

// ListAssigned returns every issue assigned to the given staff member.
func (s *IssueService) ListAssigned(ctx context.Context, staffID string) ([]models.Issue, error) {
	cursor, err := s.issues.Find(ctx,
		bson.M{"assignedStaff.staffId": staffID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve assigned issues: %w", err)
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, fmt.Errorf("failed to decode assigned issues: %w", err)
	}
	return issues, nil
}

// AssignedWorklist is the filtered staff worklist plus per-status counts.
type AssignedWorklist struct {
	ListResult
	StatusCounts map[string]int64 `json:"statusCounts"`
}

// ListAssignedFiltered returns a filtered page of a staff member's issues
// together with a count of their issues per status.
func (s *IssueService) ListAssignedFiltered(ctx context.Context, staffID string, filter ListIssuesFilter) (AssignedWorklist, error) {
	filter.normalize()

	query := bson.M{"assignedStaff.staffId": staffID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}

	page, err := s.page(ctx, query, filter.Page, filter.Limit, bson.D{{Key: "createdAt", Value: -1}})
	if err != nil {
		return AssignedWorklist{}, err
	}

	pipeline := []bson.M{
		{"$match": bson.M{"assignedStaff.staffId": staffID}},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := s.issues.Aggregate(ctx, pipeline)
	if err != nil {
		return AssignedWorklist{}, fmt.Errorf("failed to count issues by status: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return AssignedWorklist{}, fmt.Errorf("failed to decode status counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return AssignedWorklist{ListResult: page, StatusCounts: counts}, nil
}

func (s *IssueService) page(ctx context.Context, query bson.M, page, limit int, sort bson.D) (ListResult, error) {
	totalCount, err := s.issues.CountDocuments(ctx, query)
	if err != nil {
		return ListResult{}, fmt.Errorf("failed to count issues: %w", err)
	}

	skip := (page - 1) * limit
	findOptions := options.Find().
		SetSort(sort).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := s.issues.Find(ctx, query, findOptions)
	if err != nil {
		return ListResult{}, fmt.Errorf("failed to retrieve issues: %w", err)
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return ListResult{}, fmt.Errorf("failed to decode issues: %w", err)
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	return ListResult{
		Issues:      issues,
		TotalCount:  totalCount,
		CurrentPage: page,
		TotalPages:  totalPages,
	}, nil
}
