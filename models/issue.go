package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueStatus enum
type IssueStatus string

const (
	Pending    IssueStatus = "Pending"
	InProgress IssueStatus = "In Progress"
	Working    IssueStatus = "Working"
	Resolved   IssueStatus = "Resolved"
	Closed     IssueStatus = "Closed"
)

// IssuePriority enum
type IssuePriority string

const (
	PriorityNormal IssuePriority = "Normal"
	PriorityHigh   IssuePriority = "High"
)

// UserRef is a snapshot of the reporting citizen embedded in an issue.
type UserRef struct {
	UserID string `bson:"userId" json:"userId"`
	Name   string `bson:"name,omitempty" json:"name,omitempty"`
	Email  string `bson:"email,omitempty" json:"email,omitempty"`
}

// StaffRef is a snapshot of the assigned staff member embedded in an issue.
type StaffRef struct {
	StaffID string `bson:"staffId" json:"staffId"`
	Name    string `bson:"name" json:"name"`
	Email   string `bson:"email" json:"email"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// TimelineEntry is an immutable audit record appended on every status change.
type TimelineEntry struct {
	Status     IssueStatus `bson:"status" json:"status"`
	UpdatedBy  string      `bson:"updatedBy" json:"updatedBy"`
	Message    string      `bson:"message" json:"message"`
	Timestamp  time.Time   `bson:"timestamp" json:"timestamp"`
	StaffID    string      `bson:"staffId,omitempty" json:"staffId,omitempty"`
	StaffEmail string      `bson:"staffEmail,omitempty" json:"staffEmail,omitempty"`
}

// Issue represents a civic infrastructure issue reported by a citizen
type Issue struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Category      string             `bson:"category" json:"category"`
	Status        IssueStatus        `bson:"status" json:"status"`
	Priority      IssuePriority      `bson:"priority" json:"priority"`
	CreatedBy     UserRef            `bson:"createdBy" json:"createdBy"`
	AssignedStaff *StaffRef          `bson:"assignedStaff,omitempty" json:"assignedStaff,omitempty"`
	Upvotes       int                `bson:"upvotes" json:"upvotes"`
	Upvoters      []string           `bson:"upvoters" json:"upvoters"`
	Boosted       bool               `bson:"boosted" json:"boosted"`
	Timeline      []TimelineEntry    `bson:"timeline" json:"timeline"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// transitions is the canonical status transition table. Closed is terminal.
var transitions = map[IssueStatus][]IssueStatus{
	Pending:    {InProgress},
	InProgress: {Working, Resolved},
	Working:    {InProgress, Resolved},
	Resolved:   {Working, Closed},
	Closed:     {},
}

// ValidStatus reports whether s is a known issue status.
func ValidStatus(s IssueStatus) bool {
	_, ok := transitions[s]
	return ok
}

// AllowedTransitions returns the statuses reachable from the current one.
func AllowedTransitions(current IssueStatus) []IssueStatus {
	next := transitions[current]
	out := make([]IssueStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether current -> target is in the transition table.
func CanTransition(current, target IssueStatus) bool {
	for _, s := range transitions[current] {
		if s == target {
			return true
		}
	}
	return false
}

// NewIssue builds a Pending issue for the given reporter. The first timeline
// entry always records the creation event.
func NewIssue(title, description, category string, priority IssuePriority, createdBy UserRef, now time.Time) Issue {
	if priority == "" {
		priority = PriorityNormal
	}
	return Issue{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		Category:    category,
		Status:      Pending,
		Priority:    priority,
		CreatedBy:   createdBy,
		Upvotes:     0,
		Upvoters:    []string{},
		Boosted:     false,
		Timeline: []TimelineEntry{{
			Status:    Pending,
			UpdatedBy: createdBy.UserID,
			Message:   "Issue reported",
			Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanEdit reports whether the issue may still be edited. Only Pending issues
// may be edited; CanDelete shares the same gate.
func (i *Issue) CanEdit() bool {
	return i.Status == Pending
}

func (i *Issue) CanDelete() bool {
	return i.Status == Pending
}

// HasUpvoted reports whether the given user already upvoted this issue.
func (i *Issue) HasUpvoted(userID string) bool {
	for _, id := range i.Upvoters {
		if id == userID {
			return true
		}
	}
	return false
}

// IsOwnIssue reports whether the given user is the reporter.
func (i *Issue) IsOwnIssue(userID string) bool {
	return i.CreatedBy.UserID == userID
}

// AssignedTo reports whether the issue is currently assigned to the staff
// member with the given email.
func (i *Issue) AssignedTo(staffEmail string) bool {
	return i.AssignedStaff != nil && i.AssignedStaff.Email == staffEmail
}
