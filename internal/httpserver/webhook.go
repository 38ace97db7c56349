package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bobaandbao/storefront/internal/logging"
	"github.com/bobaandbao/storefront/internal/payments"
	"github.com/bobaandbao/storefront/internal/service"
)

type WebhookHandler struct {
	Svc     *service.CheckoutService
	Gateway payments.Gateway
}

// HandleStripe verifies and processes a gateway notification. 200 means
// processed (including events we deliberately ignore); 400 means the
// payload or signature was invalid; 5xx asks the gateway to redeliver.
func (h *WebhookHandler) HandleStripe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "webhook.stripe")

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		l.Warn("read webhook payload", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	event, err := h.Gateway.VerifyWebhook(payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payments.ErrSignatureInvalid) {
			l.Warn("webhook signature verification failed", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid signature")
		}
		l.Error("webhook verification", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "webhook error")
	}

	if err := h.Svc.HandleWebhookEvent(ctx, event); err != nil {
		l.Error("webhook processing", "type", event.Type, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "webhook error")
	}

	return c.NoContent(http.StatusOK)
}
