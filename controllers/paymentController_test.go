package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jubayer-ahmed-ratul/InfraWatch-server/payments"
	"github.com/jubayer-ahmed-ratul/InfraWatch-server/payments/mock"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newPaymentRouter(gateway payments.Gateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	pc := NewPaymentController(gateway, nil, "http://localhost:5173", 500)

	r := gin.New()
	r.POST("/create-checkout-session", pc.CreateCheckoutSession)
	r.GET("/payments/total", pc.GetPaymentsTotal)
	r.GET("/payments/list", pc.ListPayments)
	return r
}

func TestCreateCheckoutSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	gateway := mock.NewMockGateway(ctrl)

	gateway.EXPECT().
		CreateCheckoutSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req payments.CheckoutRequest) (string, error) {
			if req.Purpose != "Premium membership" {
				t.Errorf("purpose = %q, want default membership purpose", req.Purpose)
			}
			if req.AmountCents != 1500 {
				t.Errorf("amount = %d, want 1500", req.AmountCents)
			}
			if req.SuccessURL != "http://localhost:5173/payment/success" {
				t.Errorf("unexpected success URL %q", req.SuccessURL)
			}
			return "https://checkout.example/session", nil
		})

	r := newPaymentRouter(gateway)
	req := httptest.NewRequest(http.MethodPost, "/create-checkout-session",
		strings.NewReader(`{"amount": 1500}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["url"] != "https://checkout.example/session" {
		t.Errorf("url = %q", body["url"])
	}
}

func TestCreateCheckoutSessionRejectsMissingAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	gateway := mock.NewMockGateway(ctrl)

	r := newPaymentRouter(gateway)
	req := httptest.NewRequest(http.MethodPost, "/create-checkout-session",
		strings.NewReader(`{"purpose": "Premium membership"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetPaymentsTotal(t *testing.T) {
	ctrl := gomock.NewController(t)
	gateway := mock.NewMockGateway(ctrl)

	gateway.EXPECT().
		ListSucceededPayments(gomock.Any(), time.Time{}).
		Return([]payments.Payment{
			{ID: "pi_1", Amount: 500, Status: "succeeded"},
			{ID: "pi_2", Amount: 1500, Status: "succeeded"},
		}, nil)

	r := newPaymentRouter(gateway)
	req := httptest.NewRequest(http.MethodGet, "/payments/total", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	var body struct {
		Total int64 `json:"total"`
		Count int   `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Total != 2000 || body.Count != 2 {
		t.Errorf("total = %d count = %d, want 2000/2", body.Total, body.Count)
	}
}

func TestListPaymentsGatewayError(t *testing.T) {
	ctrl := gomock.NewController(t)
	gateway := mock.NewMockGateway(ctrl)

	gateway.EXPECT().
		ListSucceededPayments(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("gateway unavailable"))

	r := newPaymentRouter(gateway)
	req := httptest.NewRequest(http.MethodGet, "/payments/list", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
