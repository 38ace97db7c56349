package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bobaandbao/storefront/internal/logging"
	"github.com/bobaandbao/storefront/internal/service"
	"github.com/bobaandbao/storefront/internal/transport"
)

type CheckoutHandler struct {
	Svc *service.CheckoutService
}

func (h *CheckoutHandler) SubmitAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.submit_address")
	token := sessionToken(c)

	var req transport.DeliveryAddressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.SubmitAddress(ctx, token, req); err != nil {
		l.Warn("submit_address_error", "error", err)
		return respondError(c, err)
	}

	l.Info("submit_address_success")
	return c.JSON(http.StatusOK, map[string]string{"message": "delivery address saved"})
}

func (h *CheckoutHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.create_order")
	token := sessionToken(c)

	sess, err := h.Svc.CreateDraft(ctx, token)
	if err != nil {
		l.Warn("create_order_error", "error", err)
		return respondError(c, err)
	}

	l.Info("create_order_success", "order_id", sess.OrderID)
	return c.JSON(http.StatusOK, map[string]any{
		"message":    "order created",
		"order_data": sess,
	})
}

func (h *CheckoutHandler) ShippingEstimate(c echo.Context) error {
	ctx := c.Request().Context()
	token := sessionToken(c)

	estimate, err := h.Svc.ShippingEstimate(ctx, token)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, estimate)
}

func (h *CheckoutHandler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.create_session")
	token := sessionToken(c)

	resp, err := h.Svc.CreatePaymentSession(ctx, token)
	if err != nil {
		l.Warn("create_session_error", "error", err)
		return respondError(c, err)
	}

	l.Info("create_session_success", "order_id", resp.OrderID, "session_id", resp.SessionID)
	return c.JSON(http.StatusOK, resp)
}

// Success is the customer-facing return page: it verifies payment with the
// gateway synchronously and runs the same confirmation path as the webhook.
func (h *CheckoutHandler) Success(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.success")

	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing session_id")
	}

	token := ""
	if ck, err := c.Cookie(sessionCookieName); err == nil {
		token = ck.Value
	}

	order, err := h.Svc.ConfirmFromRedirect(ctx, token, sessionID)
	if err != nil {
		l.Warn("success_confirmation_error", "session_id", sessionID, "error", err)
		return respondError(c, err)
	}

	items, err := h.Svc.Repo.GetOrderItems(ctx, order.OrderID)
	if err != nil {
		l.Error("load order items", "order_id", order.OrderID, "error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"payment_status": "success",
		"order":          order,
		"items":          items,
	})
}
