package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jubayer-ahmed-ratul/InfraWatch-server/services"

	"github.com/gin-gonic/gin"
)

// newIssueRouter builds a router whose service has no live collections; only
// request-validation paths that never reach the store are exercised here.
func newIssueRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	ic := NewIssueController(services.NewIssueService(nil, nil))

	r := gin.New()
	r.POST("/issues", ic.CreateIssue)
	r.GET("/issues/:id", ic.GetIssue)
	r.PATCH("/issues/:id", ic.UpdateIssue)
	r.PATCH("/issues/:id/upvote", ic.UpvoteIssue)
	r.PATCH("/issues/:id/status", ic.UpdateStatus)
	r.PATCH("/issues/:id/assign-staff", ic.AssignStaff)
	return r
}

func patchJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateIssueRejectsMissingFields(t *testing.T) {
	r := newIssueRouter()

	for name, body := range map[string]string{
		"missing title":     `{"createdBy": {"userId": "u1"}}`,
		"missing createdBy": `{"title": "Pothole"}`,
		"missing userId":    `{"title": "Pothole", "createdBy": {"email": "u1@example.com"}}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/issues", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, w.Code)
		}
	}
}

func TestIssueRoutesRejectMalformedID(t *testing.T) {
	r := newIssueRouter()

	req := httptest.NewRequest(http.MethodGet, "/issues/not-an-id", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("GET: status = %d, want 400", w.Code)
	}

	if w := patchJSON(r, "/issues/not-an-id/upvote", `{"userId": "u1"}`); w.Code != http.StatusBadRequest {
		t.Errorf("upvote: status = %d, want 400", w.Code)
	}
}

func TestUpdateIssueRejectsUnknownFields(t *testing.T) {
	r := newIssueRouter()

	w := patchJSON(r, "/issues/665f1f77bcf86cd799439011", `{"title": "ok", "bogus": 1}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400; body: %s", w.Code, w.Body.String())
	}
}

func TestUpvoteRequiresUserID(t *testing.T) {
	r := newIssueRouter()

	w := patchJSON(r, "/issues/665f1f77bcf86cd799439011/upvote", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	r := newIssueRouter()

	w := patchJSON(r, "/issues/665f1f77bcf86cd799439011/status",
		`{"newStatus": "Done", "staffEmail": "s1@example.com"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400; body: %s", w.Code, w.Body.String())
	}
}

func TestAssignStaffRejectsMalformedStaffID(t *testing.T) {
	r := newIssueRouter()

	w := patchJSON(r, "/issues/665f1f77bcf86cd799439011/assign-staff", `{"staffId": "nope"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
