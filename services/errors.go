package services

import (
	"errors"
	"fmt"

	"github.com/jubayer-ahmed-ratul/InfraWatch-server/models"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	ErrIssueNotFound = errors.New("issue not found")
	ErrStaffNotFound = errors.New("staff not found")

	// Pending-only gate for edits and deletes.
	ErrNotPending = errors.New("only Pending issues can be edited or deleted")

	ErrOwnIssueUpvote = errors.New("cannot upvote own issue")
	ErrAlreadyUpvoted = errors.New("already upvoted")
	ErrAlreadyBoosted = errors.New("issue is already boosted")

	// Staff may only transition issues assigned to them.
	ErrNotAssignedStaff = errors.New("issue is not assigned to this staff member")

	// The record changed between read and conditional write.
	ErrConcurrentUpdate = errors.New("issue was modified concurrently, retry")
)

// InvalidTransitionError reports a status change that is not in the
// transition table, along with the statuses reachable from the current one.
type InvalidTransitionError struct {
	From    models.IssueStatus
	To      models.IssueStatus
	Allowed []models.IssueStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change status from %q to %q", e.From, e.To)
}
