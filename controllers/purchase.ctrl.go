package controllers

import (
	"errors"
	"net/http"

	"github.com/getAlby/satshop.go/lib/responses"
	"github.com/getAlby/satshop.go/lib/service"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
)

// PurchaseController : Purchase controller struct
type PurchaseController struct {
	svc *service.SatshopService
}

func NewPurchaseController(svc *service.SatshopService) *PurchaseController {
	return &PurchaseController{svc: svc}
}

type PurchaseRequestBody struct {
	FileID int64 `json:"fileId" validate:"required"`
}

type PurchaseResponseBody struct {
	PaymentRequest string `json:"payment_request"`
	PaymentHash    string `json:"payment_hash"`
}

// Purchase godoc
// @Summary      Start a purchase
// @Description  Creates a Lightning invoice for a catalog file
// @Accept       json
// @Produce      json
// @Tags         Purchase
// @Param        purchase  body      PurchaseRequestBody  True  "Purchase"
// @Success      200       {object}  PurchaseResponseBody
// @Failure      404       {object}  responses.ErrorResponse
// @Failure      429       {object}  responses.ErrorResponse
// @Failure      500       {object}  responses.ErrorResponse
// @Router       /purchase [post]
func (controller *PurchaseController) Purchase(c echo.Context) error {
	var body PurchaseRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load purchase request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid purchase request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, err := controller.svc.CreatePurchase(c.Request().Context(), body.FileID, c.RealIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileNotFound):
			return c.JSON(http.StatusNotFound, responses.NotFoundError)
		case errors.Is(err, service.ErrTooManyOutstanding):
			return c.JSON(http.StatusTooManyRequests, responses.TooManyOutstandingError)
		case errors.Is(err, service.ErrGateway):
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, responses.GatewayError)
		default:
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, responses.StoreError)
		}
	}

	// Internal record fields stay internal: the client gets what it needs
	// to pay, nothing else.
	return c.JSON(http.StatusOK, &PurchaseResponseBody{
		PaymentRequest: invoice.PaymentRequest,
		PaymentHash:    invoice.PaymentHash,
	})
}
