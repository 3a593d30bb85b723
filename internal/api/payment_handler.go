// internal/api/payment_handler.go
package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"fitmentor/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentHandler receives Razorpay webhooks. The gateway signs the raw
// request body with HMAC-SHA256 over the shared webhook secret and sends
// the hex digest in X-Razorpay-Signature.
type PaymentHandler struct {
	enrollmentService service.EnrollmentService
	webhookSecret     string
}

func NewPaymentHandler(enrollmentService service.EnrollmentService, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{
		enrollmentService: enrollmentService,
		webhookSecret:     webhookSecret,
	}
}

// razorpayEvent models the slice of the webhook payload we consume.
type razorpayEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID    string `json:"id"`
				Notes struct {
					EnrollmentID string `json:"enrollmentId"`
				} `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook verifies the signature and marks the referenced enrollment
// as paid on a captured payment. Other event types are acknowledged and
// ignored so the gateway does not retry them.
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	if h.webhookSecret == "" {
		abortWithError(c, http.StatusServiceUnavailable, "Payment webhooks are not configured.")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Failed to read request body.")
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if !verifyWebhookSignature(body, signature, h.webhookSecret) {
		abortWithError(c, http.StatusUnauthorized, "Invalid webhook signature.")
		return
	}

	var event razorpayEvent
	if err := json.Unmarshal(body, &event); err != nil {
		abortWithError(c, http.StatusBadRequest, "Malformed webhook payload.")
		return
	}

	if event.Event != "payment.captured" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	enrollmentID, err := primitive.ObjectIDFromHex(event.Payload.Payment.Entity.Notes.EnrollmentID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Webhook payload has no valid enrollment reference.")
		return
	}

	err = h.enrollmentService.MarkPaid(c.Request.Context(), enrollmentID, event.Payload.Payment.Entity.ID)
	if err != nil {
		if errors.Is(err, service.ErrEnrollmentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, service.ErrEnrollmentNotDecidable) {
			// Duplicate delivery or late payment; acknowledge so the
			// gateway stops retrying.
			c.JSON(http.StatusOK, gin.H{"status": "already processed"})
			return
		}
		log.Printf("ERROR: payment webhook for enrollment %s failed: %v", enrollmentID.Hex(), err)
		abortWithError(c, http.StatusInternalServerError, "Failed to process payment event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}

// verifyWebhookSignature checks the hex HMAC-SHA256 digest of the body in
// constant time.
func verifyWebhookSignature(body []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
