package services

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jubayer-ahmed-ratul/InfraWatch-server/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// newTestService connects to the MongoDB named by MONGO_TEST_URI and skips
// the test when it is not set. The test database is dropped on cleanup.
func newTestService(t *testing.T) (*IssueService, context.Context) {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	db := client.Database("infrawatch_test")
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	return NewIssueService(db.Collection("issues"), db.Collection("staff")), ctx
}

func insertStaff(t *testing.T, s *IssueService, ctx context.Context, name, email string) models.Staff {
	t.Helper()
	staff := models.Staff{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Role:      "staff",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if _, err := s.staff.InsertOne(ctx, staff); err != nil {
		t.Fatalf("insert staff: %v", err)
	}
	return staff
}

func TestIssueLifecycleScenario(t *testing.T) {
	s, ctx := newTestService(t)
	staff := insertStaff(t, s, ctx, "Alice", "alice@infrawatch.example")

	issue, err := s.Create(ctx, CreateIssueInput{
		Title:     "Pothole",
		CreatedBy: models.UserRef{UserID: "u1", Email: "u1@example.com"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if issue.Status != models.Pending || len(issue.Timeline) != 1 {
		t.Fatalf("created issue: status %q, timeline %d", issue.Status, len(issue.Timeline))
	}

	// Staff cannot move an issue that is not assigned to them.
	_, _, err = s.Transition(ctx, issue.ID, models.InProgress, staff.Email, "")
	if !errors.Is(err, ErrNotAssignedStaff) {
		t.Fatalf("Transition on unassigned issue: err = %v, want ErrNotAssignedStaff", err)
	}

	assigned, err := s.AssignStaff(ctx, issue.ID, staff.ID)
	if err != nil {
		t.Fatalf("AssignStaff: %v", err)
	}
	if assigned.Status != models.InProgress || len(assigned.Timeline) != 2 {
		t.Fatalf("assigned issue: status %q, timeline %d", assigned.Status, len(assigned.Timeline))
	}
	if assigned.AssignedStaff == nil || assigned.AssignedStaff.Email != staff.Email {
		t.Fatalf("assigned staff snapshot = %+v", assigned.AssignedStaff)
	}

	updated, entry, err := s.Transition(ctx, issue.ID, models.Working, staff.Email, "")
	if err != nil {
		t.Fatalf("Transition to Working: %v", err)
	}
	if updated.Status != models.Working || len(updated.Timeline) != 3 {
		t.Fatalf("after transition: status %q, timeline %d", updated.Status, len(updated.Timeline))
	}
	if entry.UpdatedBy != staff.Name || entry.StaffEmail != staff.Email {
		t.Errorf("timeline entry attribution: %+v", entry)
	}
	if entry.Message != "Status changed from In Progress to Working" {
		t.Errorf("default message = %q", entry.Message)
	}
}

func TestTransitionRejectsOffTableTarget(t *testing.T) {
	s, ctx := newTestService(t)
	staff := insertStaff(t, s, ctx, "Alice", "alice@infrawatch.example")

	issue, err := s.Create(ctx, CreateIssueInput{
		Title:     "Broken streetlight",
		CreatedBy: models.UserRef{UserID: "u1"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.AssignStaff(ctx, issue.ID, staff.ID); err != nil {
		t.Fatalf("AssignStaff: %v", err)
	}

	// In Progress -> Closed is not in the table.
	_, _, err = s.Transition(ctx, issue.ID, models.Closed, staff.Email, "")
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InvalidTransitionError", err)
	}
	if len(invalid.Allowed) != 2 {
		t.Errorf("allowed transitions = %v, want [Working Resolved]", invalid.Allowed)
	}
}

func TestEditAndDeleteRequirePending(t *testing.T) {
	s, ctx := newTestService(t)
	staff := insertStaff(t, s, ctx, "Alice", "alice@infrawatch.example")

	issue, err := s.Create(ctx, CreateIssueInput{
		Title:     "Pothole",
		CreatedBy: models.UserRef{UserID: "u1"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "Bigger pothole"
	if err := s.Edit(ctx, issue.ID, EditIssueInput{Title: &title}); err != nil {
		t.Fatalf("Edit while Pending: %v", err)
	}

	if _, err := s.AssignStaff(ctx, issue.ID, staff.ID); err != nil {
		t.Fatalf("AssignStaff: %v", err)
	}

	if err := s.Edit(ctx, issue.ID, EditIssueInput{Title: &title}); !errors.Is(err, ErrNotPending) {
		t.Errorf("Edit after assignment: err = %v, want ErrNotPending", err)
	}
	if err := s.Delete(ctx, issue.ID); !errors.Is(err, ErrNotPending) {
		t.Errorf("Delete after assignment: err = %v, want ErrNotPending", err)
	}

	// Unassigning resets to Pending, after which delete succeeds.
	reset, err := s.UnassignStaff(ctx, issue.ID)
	if err != nil {
		t.Fatalf("UnassignStaff: %v", err)
	}
	if reset.Status != models.Pending || reset.AssignedStaff != nil {
		t.Fatalf("after unassign: status %q, assignedStaff %+v", reset.Status, reset.AssignedStaff)
	}
	if len(reset.Timeline) != 3 {
		t.Errorf("timeline length after assign+unassign = %d, want 3", len(reset.Timeline))
	}
	if err := s.Delete(ctx, issue.ID); err != nil {
		t.Fatalf("Delete while Pending: %v", err)
	}
	if _, err := s.Get(ctx, issue.ID); !errors.Is(err, ErrIssueNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrIssueNotFound", err)
	}
}

func TestUpvoteRules(t *testing.T) {
	s, ctx := newTestService(t)

	issue, err := s.Create(ctx, CreateIssueInput{
		Title:     "Blocked drain",
		CreatedBy: models.UserRef{UserID: "u1"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Upvote(ctx, issue.ID, "u1"); !errors.Is(err, ErrOwnIssueUpvote) {
		t.Errorf("self upvote: err = %v, want ErrOwnIssueUpvote", err)
	}
	if err := s.Upvote(ctx, issue.ID, "u2"); err != nil {
		t.Fatalf("first upvote: %v", err)
	}
	if err := s.Upvote(ctx, issue.ID, "u2"); !errors.Is(err, ErrAlreadyUpvoted) {
		t.Errorf("second upvote: err = %v, want ErrAlreadyUpvoted", err)
	}

	got, err := s.Get(ctx, issue.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Upvotes != 1 || len(got.Upvoters) != 1 || got.Upvoters[0] != "u2" {
		t.Errorf("upvotes = %d, upvoters = %v", got.Upvotes, got.Upvoters)
	}
}

func TestBoostIsOneWay(t *testing.T) {
	s, ctx := newTestService(t)

	issue, err := s.Create(ctx, CreateIssueInput{
		Title:     "Collapsed culvert",
		CreatedBy: models.UserRef{UserID: "u1"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	boosted, err := s.Boost(ctx, issue.ID)
	if err != nil {
		t.Fatalf("Boost: %v", err)
	}
	if !boosted.Boosted || boosted.Priority != models.PriorityHigh {
		t.Fatalf("after boost: boosted %v priority %q", boosted.Boosted, boosted.Priority)
	}

	if _, err := s.Boost(ctx, issue.ID); !errors.Is(err, ErrAlreadyBoosted) {
		t.Errorf("second boost: err = %v, want ErrAlreadyBoosted", err)
	}
}

func TestListFiltersAndPagination(t *testing.T) {
	s, ctx := newTestService(t)
	staff := insertStaff(t, s, ctx, "Alice", "alice@infrawatch.example")

	for i, title := range []string{"Pothole on Main St", "Pothole on Oak Ave", "Fallen tree"} {
		issue, err := s.Create(ctx, CreateIssueInput{
			Title:     title,
			Category:  "Road",
			CreatedBy: models.UserRef{UserID: "u1", Email: "u1@example.com"},
		})
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		if i == 0 {
			if _, err := s.AssignStaff(ctx, issue.ID, staff.ID); err != nil {
				t.Fatalf("AssignStaff: %v", err)
			}
		}
	}

	page, err := s.List(ctx, ListIssuesFilter{Search: "pothole", Page: 1, Limit: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.TotalCount != 2 || len(page.Issues) != 1 || page.TotalPages != 2 {
		t.Errorf("search page: total %d, page len %d, pages %d", page.TotalCount, len(page.Issues), page.TotalPages)
	}

	byUser, err := s.ListByReporterEmail(ctx, "u1@example.com", 1, 10)
	if err != nil {
		t.Fatalf("ListByReporterEmail: %v", err)
	}
	if byUser.TotalCount != 3 {
		t.Errorf("by reporter total = %d, want 3", byUser.TotalCount)
	}

	worklist, err := s.ListAssignedFiltered(ctx, staff.ID.Hex(), ListIssuesFilter{})
	if err != nil {
		t.Fatalf("ListAssignedFiltered: %v", err)
	}
	if worklist.TotalCount != 1 {
		t.Errorf("worklist total = %d, want 1", worklist.TotalCount)
	}
	if worklist.StatusCounts[string(models.InProgress)] != 1 {
		t.Errorf("status counts = %v", worklist.StatusCounts)
	}
}
