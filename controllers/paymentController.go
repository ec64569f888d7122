package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jubayer-ahmed-ratul/InfraWatch-server/payments"
	"github.com/jubayer-ahmed-ratul/InfraWatch-server/services"

	"github.com/gin-gonic/gin"
)

// PaymentController creates checkout sessions and reports settled payments.
// Boost itself stays on the issue lifecycle; a succeeded boost payment is
// expected to trigger PATCH /issues/:id/boost out-of-band.
type PaymentController struct {
	gateway         payments.Gateway
	issues          *services.IssueService
	clientURL       string
	boostAmountCent int64
}

func NewPaymentController(gateway payments.Gateway, issues *services.IssueService, clientURL string, boostAmountCents int64) *PaymentController {
	if boostAmountCents <= 0 {
		boostAmountCents = 500
	}
	return &PaymentController{
		gateway:         gateway,
		issues:          issues,
		clientURL:       clientURL,
		boostAmountCent: boostAmountCents,
	}
}

// CreateCheckoutSession starts a payment for an arbitrary purpose, defaulting
// to the premium membership purchase.
func (pc *PaymentController) CreateCheckoutSession(c *gin.Context) {
	var input struct {
		Purpose    string `json:"purpose"`
		Amount     int64  `json:"amount" binding:"required,gt=0"`
		SuccessURL string `json:"successUrl"`
		CancelURL  string `json:"cancelUrl"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purpose := input.Purpose
	if purpose == "" {
		purpose = "Premium membership"
	}
	successURL := input.SuccessURL
	if successURL == "" {
		successURL = pc.clientURL + "/payment/success"
	}
	cancelURL := input.CancelURL
	if cancelURL == "" {
		cancelURL = pc.clientURL + "/payment/cancel"
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	url, err := pc.gateway.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		Purpose:     purpose,
		AmountCents: input.Amount,
		SuccessURL:  successURL,
		CancelURL:   cancelURL,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// CreateBoostSession starts a payment for boosting a specific issue. The
// issue id travels in the session metadata.
func (pc *PaymentController) CreateBoostSession(c *gin.Context) {
	id, ok := issueIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	issue, err := pc.issues.Get(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if issue.Boosted {
		c.JSON(http.StatusConflict, gin.H{"error": services.ErrAlreadyBoosted.Error()})
		return
	}

	url, err := pc.gateway.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		Purpose:     "Issue boost: " + issue.Title,
		AmountCents: pc.boostAmountCent,
		SuccessURL:  pc.clientURL + "/issues/" + id.Hex() + "?boost=success",
		CancelURL:   pc.clientURL + "/issues/" + id.Hex() + "?boost=cancelled",
		Metadata:    map[string]string{"issueId": id.Hex()},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (pc *PaymentController) sinceParam(c *gin.Context) time.Time {
	raw := c.Query("since")
	if raw == "" {
		return time.Time{}
	}
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

// GetPaymentsTotal sums all succeeded payments
func (pc *PaymentController) GetPaymentsTotal(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := pc.gateway.ListSucceededPayments(ctx, pc.sinceParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var total int64
	for _, p := range list {
		total += p.Amount
	}

	c.JSON(http.StatusOK, gin.H{"total": total, "count": len(list)})
}

// ListPayments returns the succeeded payments
func (pc *PaymentController) ListPayments(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := pc.gateway.ListSucceededPayments(ctx, pc.sinceParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}
