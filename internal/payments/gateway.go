// Package payments wraps the hosted payment processor. All amounts cross
// this boundary in minor currency units (pence).
package payments

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrConfig covers a missing secret key and TLS/certificate trouble:
	// not retryable by the customer, needs operator attention.
	ErrConfig = errors.New("payment gateway configuration")
	// ErrTransport covers timeouts and connection failures; retryable.
	ErrTransport = errors.New("payment gateway unreachable")
	// ErrSignatureInvalid means the webhook payload failed verification.
	ErrSignatureInvalid = errors.New("invalid webhook signature")
)

// RejectedError is the gateway's own rejection of a request.
type RejectedError struct {
	Code    string
	Kind    string
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("payment gateway rejected request (%s/%s): %s", e.Kind, e.Code, e.Message)
}

type LineItem struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	AmountPence int64             `json:"amount_pence"`
	Quantity    int64             `json:"quantity"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type SessionRequest struct {
	CustomerEmail string            `json:"customer_email"`
	SuccessURL    string            `json:"success_url"`
	CancelURL     string            `json:"cancel_url"`
	LineItems     []LineItem        `json:"line_items"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type Session struct {
	ID            string            `json:"id"`
	CustomerID    string            `json:"customer_id,omitempty"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Paid reports whether the hosted session has collected payment.
func (s *Session) Paid() bool {
	return s.PaymentStatus == "paid"
}

const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventPaymentSucceeded  = "payment_intent.succeeded"
	EventPaymentFailed     = "payment_intent.payment_failed"
)

// WebhookEvent is the verified, decoded form of a gateway notification.
// Session is set for checkout-session events; Metadata carries the payment
// intent's metadata for the intent events.
type WebhookEvent struct {
	Type     string
	Session  *Session
	Metadata map[string]string
}

type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	RetrieveSession(ctx context.Context, sessionID string) (*Session, error)
	VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error)
}
