package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
)

const (
	requestTimeout = 30 * time.Second
	connectTimeout = 10 * time.Second
)

type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("%w: secret key is empty", ErrConfig)
	}

	httpClient := &http.Client{
		Timeout: requestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
		},
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient: httpClient,
	})

	api := &client.API{}
	api.Init(secretKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})

	return &StripeGateway{api: api, webhookSecret: webhookSecret}, nil
}

func (g *StripeGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		CustomerEmail:      stripe.String(req.CustomerEmail),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	for _, li := range req.LineItems {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(li.Name),
		}
		if li.Description != "" {
			productData.Description = stripe.String(li.Description)
		}
		if len(li.Metadata) > 0 {
			productData.Metadata = li.Metadata
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(string(stripe.CurrencyGBP)),
				ProductData: productData,
				UnitAmount:  stripe.Int64(li.AmountPence),
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, mapStripeError(err)
	}
	return fromStripeSession(s), nil
}

func (g *StripeGateway) RetrieveSession(ctx context.Context, sessionID string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, mapStripeError(err)
	}
	return fromStripeSession(s), nil
}

func (g *StripeGateway) VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error) {
	if g.webhookSecret == "" {
		return nil, fmt.Errorf("%w: webhook secret is empty", ErrConfig)
	}

	event, err := webhook.ConstructEvent(payload, signatureHeader, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	switch string(event.Type) {
	case EventCheckoutCompleted:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		return &WebhookEvent{Type: EventCheckoutCompleted, Session: fromStripeSession(&s)}, nil

	case EventPaymentSucceeded, EventPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("decode payment intent: %w", err)
		}
		return &WebhookEvent{Type: string(event.Type), Metadata: pi.Metadata}, nil

	default:
		return &WebhookEvent{Type: string(event.Type)}, nil
	}
}

func fromStripeSession(s *stripe.CheckoutSession) *Session {
	out := &Session{
		ID:            s.ID,
		PaymentStatus: string(s.PaymentStatus),
		Metadata:      s.Metadata,
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	return out
}

func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &RejectedError{
			Code:    string(stripeErr.Code),
			Kind:    string(stripeErr.Type),
			Message: stripeErr.Msg,
		}
	}

	if strings.Contains(err.Error(), "certificate") || strings.Contains(err.Error(), "x509") {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	return fmt.Errorf("%w: %v", ErrTransport, err)
}
