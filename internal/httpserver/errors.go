package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bobaandbao/storefront/internal/logging"
	"github.com/bobaandbao/storefront/internal/payments"
	"github.com/bobaandbao/storefront/internal/service"
)

// respondError maps the service error taxonomy onto HTTP. Validation and
// inventory problems go back verbatim so the customer can self-correct;
// gateway and persistence failures are logged with context and surfaced as
// retry guidance.
func respondError(c echo.Context, err error) error {
	l := logging.FromContext(c.Request().Context())

	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.JSON(http.StatusConflict, map[string]any{
			"error": "insufficient stock",
			"items": stockErr.Items,
		})
	}

	var rejected *payments.RejectedError
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, payments.ErrConfig):
		l.Error("payment configuration error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError,
			"payment configuration error, please contact support")

	case errors.Is(err, payments.ErrTransport):
		l.Error("payment gateway unreachable", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway,
			"payment service is unavailable, please try again")

	case errors.As(err, &rejected):
		l.Error("payment gateway rejected request", "code", rejected.Code, "type", rejected.Kind, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "payment error: "+rejected.Message)

	case errors.Is(err, service.ErrPersistence):
		l.Error("persistence error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError,
			"could not store your order, please try again")

	default:
		l.Error("internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
