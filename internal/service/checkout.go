package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobaandbao/storefront/internal/events"
	"github.com/bobaandbao/storefront/internal/logging"
	"github.com/bobaandbao/storefront/internal/models"
	"github.com/bobaandbao/storefront/internal/notify"
	"github.com/bobaandbao/storefront/internal/payments"
	"github.com/bobaandbao/storefront/internal/pricing"
	"github.com/bobaandbao/storefront/internal/repo"
	"github.com/bobaandbao/storefront/internal/transport"
)

// CheckoutService sequences a cart through address capture, order drafting,
// the inventory gate, payment-session creation, order persistence and
// webhook- or redirect-driven confirmation.
type CheckoutService struct {
	Repo     *repo.GormRepo
	Gateway  payments.Gateway
	Notifier notify.Sender
	Producer *events.Producer
	Calc     pricing.Calculator
	BaseURL  string
}

var requiredAddressFields = []struct {
	name string
	get  func(*transport.DeliveryAddressRequest) string
}{
	{"customer_name", func(r *transport.DeliveryAddressRequest) string { return r.CustomerName }},
	{"customer_email", func(r *transport.DeliveryAddressRequest) string { return r.CustomerEmail }},
	{"address_line1", func(r *transport.DeliveryAddressRequest) string { return r.AddressLine1 }},
	{"city", func(r *transport.DeliveryAddressRequest) string { return r.City }},
	{"postal_code", func(r *transport.DeliveryAddressRequest) string { return r.PostalCode }},
}

// SubmitAddress validates and stores the delivery address on the checkout
// session. Resubmission overwrites.
func (s *CheckoutService) SubmitAddress(ctx context.Context, token string, req transport.DeliveryAddressRequest) error {
	for _, f := range requiredAddressFields {
		if strings.TrimSpace(f.get(&req)) == "" {
			return fmt.Errorf("%w: missing required field %q", ErrValidation, f.name)
		}
	}
	if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	sess, err := s.Repo.GetOrCreateSession(ctx, token)
	if err != nil {
		return err
	}

	sess.CustomerName = req.CustomerName
	sess.Email = req.CustomerEmail
	sess.AddressLine1 = req.AddressLine1
	sess.AddressLine2 = req.AddressLine2
	sess.City = req.City
	sess.State = req.State
	sess.PostalCode = req.PostalCode
	sess.Country = req.Country
	sess.Notes = req.DeliveryNotes

	return s.Repo.SaveSession(ctx, sess)
}

// CreateDraft computes totals for the current cart, generates the order
// identifier and holds the pending aggregate on the checkout session.
// Nothing is persisted to the order store yet.
func (s *CheckoutService) CreateDraft(ctx context.Context, token string) (*models.CheckoutSession, error) {
	sess, err := s.Repo.GetOrCreateSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if !sess.HasAddress() {
		return nil, fmt.Errorf("%w: delivery address not found, submit the delivery form first", ErrValidation)
	}

	cart, err := s.Repo.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	totals, err := s.cartTotals(ctx, cart)
	if err != nil {
		return nil, err
	}

	sess.OrderID = generateOrderID()
	sess.Address = formatDeliveryAddress(sess)
	sess.Subtotal = totals.Subtotal
	sess.ShippingCost = totals.ShippingCost
	sess.OrderTotal = totals.OrderTotal

	if err := s.Repo.SaveSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// ShippingEstimate reuses the draft's exact totals logic for a read-only
// quote; the two paths share one calculator.
func (s *CheckoutService) ShippingEstimate(ctx context.Context, token string) (*transport.ShippingEstimateResponse, error) {
	cart, err := s.Repo.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	totals, err := s.cartTotals(ctx, cart)
	if err != nil {
		return nil, err
	}
	return &transport.ShippingEstimateResponse{
		Subtotal:              totals.Subtotal,
		ShippingCost:          totals.ShippingCost,
		OrderTotal:            totals.OrderTotal,
		FreeShippingThreshold: s.Calc.FreeShippingThreshold,
	}, nil
}

// ValidateInventory gates payment-session creation: every cart line must be
// coverable by current stock, variant stock when a variant is chosen.
func (s *CheckoutService) ValidateInventory(ctx context.Context, cart []models.CartItem) error {
	var short []StockShortfall
	for _, item := range cart {
		available, err := s.Repo.AvailableStock(ctx, item.ProductID, item.VariantID)
		if err != nil {
			return err
		}
		if available < item.Quantity {
			name := fmt.Sprintf("product %d", item.ProductID)
			if p, err := s.Repo.GetProduct(ctx, item.ProductID); err == nil {
				name = p.Name
			}
			short = append(short, StockShortfall{
				ProductID:   item.ProductID,
				VariantID:   item.VariantID,
				ProductName: name,
				Requested:   item.Quantity,
				Available:   available,
			})
		}
	}
	if len(short) > 0 {
		return &InsufficientStockError{Items: short}
	}
	return nil
}

// CreatePaymentSession opens the hosted payment session and then persists
// the order with its line-item snapshot, pending/pending, carrying the
// gateway session id from the first insert. An order row never exists
// without a session id.
func (s *CheckoutService) CreatePaymentSession(ctx context.Context, token string) (*transport.CreateSessionResponse, error) {
	l := logging.FromContext(ctx).With("component", "checkout")

	sess, err := s.Repo.GetOrCreateSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if !sess.HasDraft() {
		return nil, fmt.Errorf("%w: order data not found, complete the delivery form first", ErrValidation)
	}

	cart, err := s.Repo.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	if err := s.ValidateInventory(ctx, cart); err != nil {
		return nil, err
	}

	lineItems, orderItems, err := s.buildLines(ctx, cart)
	if err != nil {
		return nil, err
	}
	if sess.ShippingCost > 0 {
		lineItems = append(lineItems, payments.LineItem{
			Name:        "Shipping & Delivery",
			Description: "Standard delivery",
			AmountPence: sess.ShippingCost,
			Quantity:    1,
		})
	}

	gwSess, err := s.Gateway.CreateSession(ctx, payments.SessionRequest{
		CustomerEmail: sess.Email,
		SuccessURL:    s.BaseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.BaseURL + "/?checkout=1",
		LineItems:     lineItems,
		Metadata: map[string]string{
			"order_id":         sess.OrderID,
			"customer_name":    sess.CustomerName,
			"customer_email":   sess.Email,
			"delivery_address": sess.Address,
			"delivery_notes":   sess.Notes,
			"checkout_token":   token,
		},
	})
	if err != nil {
		return nil, err
	}

	order := models.Order{
		OrderID:          sess.OrderID,
		GatewaySessionID: gwSess.ID,
		CustomerEmail:    sess.Email,
		CustomerName:     sess.CustomerName,
		DeliveryAddress:  sess.Address,
		DeliveryNotes:    sess.Notes,
		Subtotal:         sess.Subtotal,
		ShippingCost:     sess.ShippingCost,
		OrderTotal:       sess.OrderTotal,
		OrderStatus:      models.OrderStatusPending,
		PaymentStatus:    models.PaymentStatusPending,
	}
	if _, err := s.Repo.CreateOrder(ctx, &order, orderItems); err != nil {
		// The customer now holds an open payment session with no matching
		// order row; this cannot be silently retried.
		l.Error("order persist failed after payment session was created",
			"order_id", sess.OrderID,
			"gateway_session_id", gwSess.ID,
			"error", err)
		return nil, fmt.Errorf("%w: store order %s: %v", ErrPersistence, sess.OrderID, err)
	}

	s.publish(ctx, events.TopicOrderEvents, order.OrderID, map[string]any{
		"type":               "order_created",
		"order_id":           order.OrderID,
		"gateway_session_id": gwSess.ID,
		"order_total":        order.OrderTotal,
	})

	return &transport.CreateSessionResponse{SessionID: gwSess.ID, OrderID: order.OrderID}, nil
}

// HandleWebhookEvent routes a verified gateway notification.
func (s *CheckoutService) HandleWebhookEvent(ctx context.Context, ev *payments.WebhookEvent) error {
	l := logging.FromContext(ctx).With("component", "webhook")

	switch ev.Type {
	case payments.EventCheckoutCompleted:
		_, err := s.confirm(ctx, ev.Session, ev.Session.Metadata["checkout_token"], models.OrderStatusConfirmed)
		if errors.Is(err, repo.ErrOrderNotFound) {
			l.Warn("confirmation for unknown session", "gateway_session_id", ev.Session.ID)
			return nil
		}
		return err

	case payments.EventPaymentSucceeded:
		return s.markPaymentOutcome(ctx, ev.Metadata["session_id"],
			models.OrderStatusConfirmed, models.PaymentStatusPaid)

	case payments.EventPaymentFailed:
		return s.markPaymentOutcome(ctx, ev.Metadata["session_id"],
			models.OrderStatusPending, models.PaymentStatusFailed)

	default:
		l.Info("ignoring gateway event", "type", ev.Type)
		return nil
	}
}

// ConfirmFromRedirect is the success-page path: look the session up at the
// gateway synchronously, require a collected payment, then run the same
// confirmation as the webhook. Safe to race with it.
func (s *CheckoutService) ConfirmFromRedirect(ctx context.Context, token, sessionID string) (*models.Order, error) {
	gwSess, err := s.Gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !gwSess.Paid() {
		return nil, fmt.Errorf("%w: payment was not completed", ErrValidation)
	}
	if token == "" {
		token = gwSess.Metadata["checkout_token"]
	}
	return s.confirm(ctx, gwSess, token, models.OrderStatusCompleted)
}

// confirm applies the post-payment transition exactly once. Re-delivery of
// the same confirmation finds the order already paid and mutates nothing:
// no second stock decrement, no second email.
func (s *CheckoutService) confirm(ctx context.Context, gwSess *payments.Session, token, orderStatus string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("component", "checkout", "gateway_session_id", gwSess.ID)

	order, err := s.Repo.GetOrderBySessionID(ctx, gwSess.ID)
	if errors.Is(err, repo.ErrOrderNotFound) {
		order, err = s.reconstructOrder(ctx, gwSess, token)
	}
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		l.Info("duplicate confirmation ignored", "order_id", order.OrderID)
		return order, nil
	}

	if _, err := s.Repo.UpdateOrderStatus(ctx, gwSess.ID, orderStatus, models.PaymentStatusPaid); err != nil {
		return nil, fmt.Errorf("%w: update order %s: %v", ErrPersistence, order.OrderID, err)
	}
	if gwSess.CustomerID != "" {
		if err := s.Repo.UpdateOrderCustomerID(ctx, gwSess.ID, gwSess.CustomerID); err != nil {
			l.Error("store gateway customer id", "order_id", order.OrderID, "error", err)
		}
	}

	items, err := s.Repo.GetOrderItems(ctx, order.OrderID)
	if err != nil {
		l.Error("load order items for fulfillment", "order_id", order.OrderID, "error", err)
		items = nil
	}
	for _, it := range items {
		if err := s.Repo.DecrementStock(ctx, it.ProductID, it.VariantID, it.Quantity); err != nil {
			l.Error("decrement stock", "product_id", it.ProductID, "variant_id", it.VariantID, "error", err)
		}
	}

	if token != "" {
		if err := s.Repo.ClearCart(ctx, token); err != nil {
			l.Error("clear cart after confirmation", "error", err)
		}
		if err := s.Repo.ResetSession(ctx, token); err != nil {
			l.Error("reset checkout session after confirmation", "error", err)
		}
	}

	order, err = s.Repo.GetOrderBySessionID(ctx, gwSess.ID)
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		if err := s.Notifier.SendOrderConfirmation(order, items); err != nil {
			// Notification failure never blocks confirmation.
			l.Error("send order confirmation", "order_id", order.OrderID, "error", err)
		}
	}

	s.publish(ctx, events.TopicOrderEvents, order.OrderID, map[string]any{
		"type":               "order_confirmed",
		"order_id":           order.OrderID,
		"gateway_session_id": gwSess.ID,
		"order_status":       order.OrderStatus,
		"payment_status":     order.PaymentStatus,
	})

	l.Info("order confirmed", "order_id", order.OrderID, "order_status", order.OrderStatus)
	return order, nil
}

// reconstructOrder is the degraded reconciliation path for a confirmation
// that raced ahead of the draft persist. The drafted checkout session and
// cart are still available, so rebuild the order rather than dropping the
// confirmation.
func (s *CheckoutService) reconstructOrder(ctx context.Context, gwSess *payments.Session, token string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("component", "checkout")

	if token == "" {
		return nil, repo.ErrOrderNotFound
	}
	sess, err := s.Repo.GetOrCreateSession(ctx, token)
	if err != nil {
		return nil, err
	}
	cart, err := s.Repo.GetCart(ctx, token)
	if err != nil {
		return nil, err
	}
	if !sess.HasDraft() || len(cart) == 0 {
		return nil, repo.ErrOrderNotFound
	}

	l.Warn("order missing at confirmation, reconstructing from checkout session",
		"order_id", sess.OrderID, "gateway_session_id", gwSess.ID)

	_, orderItems, err := s.buildLines(ctx, cart)
	if err != nil {
		return nil, err
	}
	order := models.Order{
		OrderID:          sess.OrderID,
		GatewaySessionID: gwSess.ID,
		CustomerEmail:    sess.Email,
		CustomerName:     sess.CustomerName,
		DeliveryAddress:  sess.Address,
		DeliveryNotes:    sess.Notes,
		Subtotal:         sess.Subtotal,
		ShippingCost:     sess.ShippingCost,
		OrderTotal:       sess.OrderTotal,
		OrderStatus:      models.OrderStatusPending,
		PaymentStatus:    models.PaymentStatusPending,
	}
	if _, err := s.Repo.CreateOrder(ctx, &order, orderItems); err != nil {
		return nil, fmt.Errorf("%w: reconstruct order %s: %v", ErrPersistence, sess.OrderID, err)
	}
	return &order, nil
}

func (s *CheckoutService) markPaymentOutcome(ctx context.Context, sessionID, orderStatus, paymentStatus string) error {
	l := logging.FromContext(ctx).With("component", "webhook", "gateway_session_id", sessionID)

	if sessionID == "" {
		l.Warn("payment event without session id in metadata")
		return nil
	}
	order, err := s.Repo.GetOrderBySessionID(ctx, sessionID)
	if errors.Is(err, repo.ErrOrderNotFound) {
		l.Warn("payment event for unknown session")
		return nil
	}
	if err != nil {
		return err
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil
	}

	if _, err := s.Repo.UpdateOrderStatus(ctx, sessionID, orderStatus, paymentStatus); err != nil {
		return fmt.Errorf("%w: update order %s: %v", ErrPersistence, order.OrderID, err)
	}
	l.Info("payment outcome recorded", "order_id", order.OrderID, "payment_status", paymentStatus)
	return nil
}

// cartTotals resolves unit prices for every line and runs the calculator.
func (s *CheckoutService) cartTotals(ctx context.Context, cart []models.CartItem) (pricing.Totals, error) {
	lines := make([]pricing.Line, 0, len(cart))
	for _, item := range cart {
		price, err := s.Repo.UnitPrice(ctx, item.ProductID, item.VariantID)
		if err != nil {
			return pricing.Totals{}, fmt.Errorf("resolve price for product %d: %w", item.ProductID, err)
		}
		lines = append(lines, pricing.Line{UnitPrice: price, Quantity: item.Quantity})
	}
	return s.Calc.Totals(lines), nil
}

// buildLines produces the gateway line items and the immutable order-item
// snapshot from the same cart walk so the two can never disagree.
func (s *CheckoutService) buildLines(ctx context.Context, cart []models.CartItem) ([]payments.LineItem, []models.OrderItem, error) {
	lineItems := make([]payments.LineItem, 0, len(cart))
	orderItems := make([]models.OrderItem, 0, len(cart))

	for _, item := range cart {
		p, err := s.Repo.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, nil, fmt.Errorf("load product %d: %w", item.ProductID, err)
		}
		price, err := s.Repo.UnitPrice(ctx, item.ProductID, item.VariantID)
		if err != nil {
			return nil, nil, err
		}

		lineItems = append(lineItems, payments.LineItem{
			Name:        p.Name,
			AmountPence: price,
			Quantity:    int64(item.Quantity),
			Metadata: map[string]string{
				"product_id": fmt.Sprint(item.ProductID),
				"variant_id": item.VariantID,
				"color":      item.Color,
				"color_name": item.ColorName,
				"size":       item.Size,
			},
		})
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			ProductName: p.Name,
			ProductSKU:  p.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   price,
			TotalPrice:  price * int64(item.Quantity),
		})
	}
	return lineItems, orderItems, nil
}

func (s *CheckoutService) publish(ctx context.Context, topic, key string, event map[string]any) {
	if s.Producer == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish", "topic", topic, "error", err)
	}
}

func generateOrderID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("ORD%d%s", time.Now().Unix(), suffix)
}

func formatDeliveryAddress(sess *models.CheckoutSession) string {
	parts := []string{
		sess.AddressLine1,
		sess.AddressLine2,
		sess.City,
		sess.State,
		sess.PostalCode,
		sess.Country,
	}
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}
