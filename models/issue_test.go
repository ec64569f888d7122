package models

import (
	"testing"
	"time"
)

func TestNewIssueStartsPending(t *testing.T) {
	now := time.Now()
	issue := NewIssue("Pothole", "Deep pothole on Main St", "Road", "", UserRef{UserID: "u1", Email: "u1@example.com"}, now)

	if issue.Status != Pending {
		t.Errorf("new issue status = %q, want %q", issue.Status, Pending)
	}
	if issue.Priority != PriorityNormal {
		t.Errorf("new issue priority = %q, want %q", issue.Priority, PriorityNormal)
	}
	if issue.Upvotes != 0 {
		t.Errorf("new issue upvotes = %d, want 0", issue.Upvotes)
	}
	if issue.Boosted {
		t.Error("new issue must not be boosted")
	}
	if len(issue.Timeline) != 1 {
		t.Fatalf("new issue timeline length = %d, want 1", len(issue.Timeline))
	}
	first := issue.Timeline[0]
	if first.Status != Pending || first.Message != "Issue reported" || first.UpdatedBy != "u1" {
		t.Errorf("unexpected creation timeline entry: %+v", first)
	}
}

func TestNewIssueKeepsExplicitPriority(t *testing.T) {
	issue := NewIssue("Pothole", "", "Road", PriorityHigh, UserRef{UserID: "u1"}, time.Now())
	if issue.Priority != PriorityHigh {
		t.Errorf("priority = %q, want %q", issue.Priority, PriorityHigh)
	}
}

func TestCanTransition(t *testing.T) {
	statuses := []IssueStatus{Pending, InProgress, Working, Resolved, Closed}
	allowed := map[IssueStatus]map[IssueStatus]bool{
		Pending:    {InProgress: true},
		InProgress: {Working: true, Resolved: true},
		Working:    {InProgress: true, Resolved: true},
		Resolved:   {Working: true, Closed: true},
		Closed:     {},
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[from][to]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCanTransitionRejectsUnknownStatus(t *testing.T) {
	if CanTransition("Bogus", InProgress) {
		t.Error("transition from unknown status must be rejected")
	}
	if CanTransition(Pending, "Bogus") {
		t.Error("transition to unknown status must be rejected")
	}
}

func TestAllowedTransitions(t *testing.T) {
	if got := AllowedTransitions(Closed); len(got) != 0 {
		t.Errorf("Closed must be terminal, got reachable %v", got)
	}
	got := AllowedTransitions(InProgress)
	if len(got) != 2 || got[0] != Working || got[1] != Resolved {
		t.Errorf("AllowedTransitions(InProgress) = %v, want [Working Resolved]", got)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []IssueStatus{Pending, InProgress, Working, Resolved, Closed} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}
	if ValidStatus("Done") {
		t.Error(`ValidStatus("Done") = true, want false`)
	}
}

func TestEditDeleteGates(t *testing.T) {
	for _, tc := range []struct {
		status IssueStatus
		want   bool
	}{
		{Pending, true},
		{InProgress, false},
		{Working, false},
		{Resolved, false},
		{Closed, false},
	} {
		issue := Issue{Status: tc.status}
		if got := issue.CanEdit(); got != tc.want {
			t.Errorf("CanEdit with status %q = %v, want %v", tc.status, got, tc.want)
		}
		if got := issue.CanDelete(); got != tc.want {
			t.Errorf("CanDelete with status %q = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestUpvoteChecks(t *testing.T) {
	issue := Issue{
		CreatedBy: UserRef{UserID: "u1"},
		Upvoters:  []string{"u2"},
	}

	if !issue.IsOwnIssue("u1") {
		t.Error("u1 is the reporter")
	}
	if issue.IsOwnIssue("u2") {
		t.Error("u2 is not the reporter")
	}
	if !issue.HasUpvoted("u2") {
		t.Error("u2 already upvoted")
	}
	if issue.HasUpvoted("u3") {
		t.Error("u3 has not upvoted")
	}
}

func TestAssignedTo(t *testing.T) {
	unassigned := Issue{}
	if unassigned.AssignedTo("s1@example.com") {
		t.Error("unassigned issue must not match any staff email")
	}

	assigned := Issue{AssignedStaff: &StaffRef{StaffID: "s1", Email: "s1@example.com"}}
	if !assigned.AssignedTo("s1@example.com") {
		t.Error("assigned staff email must match")
	}
	if assigned.AssignedTo("s2@example.com") {
		t.Error("other staff emails must not match")
	}
}
