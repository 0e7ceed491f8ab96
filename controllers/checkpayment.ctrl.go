package controllers

import (
	"errors"
	"net/http"

	"github.com/getAlby/satshop.go/lib/responses"
	"github.com/getAlby/satshop.go/lib/service"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
)

// CheckPaymentController : CheckPayment controller struct
type CheckPaymentController struct {
	svc *service.SatshopService
}

func NewCheckPaymentController(svc *service.SatshopService) *CheckPaymentController {
	return &CheckPaymentController{svc: svc}
}

type CheckPaymentRequestBody struct {
	PaymentHash string `json:"payment_hash" validate:"required"`
}

type CheckPaymentResponseBody struct {
	Paid          bool   `json:"paid"`
	DownloadToken string `json:"downloadToken,omitempty"`
}

// CheckPayment godoc
// @Summary      Poll payment state
// @Description  Checks whether an invoice settled and returns a download token if it did
// @Accept       json
// @Produce      json
// @Tags         Purchase
// @Param        check  body      CheckPaymentRequestBody  True  "Check payment"
// @Success      200    {object}  CheckPaymentResponseBody
// @Failure      404    {object}  responses.ErrorResponse
// @Failure      500    {object}  responses.ErrorResponse
// @Router       /check-payment [post]
func (controller *CheckPaymentController) CheckPayment(c echo.Context) error {
	var body CheckPaymentRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load check-payment request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid check-payment request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	paid, token, err := controller.svc.CheckPayment(c.Request().Context(), body.PaymentHash)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvoiceNotFound):
			return c.JSON(http.StatusNotFound, responses.NotFoundError)
		case errors.Is(err, service.ErrGateway):
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, responses.GatewayError)
		default:
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, responses.StoreError)
		}
	}

	responseBody := CheckPaymentResponseBody{Paid: paid}
	if token != nil {
		responseBody.DownloadToken = token.Token
	}
	return c.JSON(http.StatusOK, &responseBody)
}
