package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/getAlby/satshop.go/lib/responses"
	"github.com/getAlby/satshop.go/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/skip2/go-qrcode"
)

// QrController : Invoice QR controller struct
type QrController struct {
	svc *service.SatshopService
}

func NewQrController(svc *service.SatshopService) *QrController {
	return &QrController{svc: svc}
}

// InvoiceQr godoc
// @Summary      Invoice QR code
// @Description  Renders the bolt11 payment request of an invoice as a PNG QR code
// @Produce      png
// @Tags         Purchase
// @Param        payment_hash  path  string  true  "Payment hash"
// @Success      200  {file}    binary
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /qr/{payment_hash} [get]
func (controller *QrController) InvoiceQr(c echo.Context) error {
	invoice, err := controller.svc.FindInvoiceByPaymentHash(c.Request().Context(), c.Param("payment_hash"))
	if err != nil {
		if errors.Is(err, service.ErrInvoiceNotFound) {
			return c.JSON(http.StatusNotFound, responses.NotFoundError)
		}
		return c.JSON(http.StatusInternalServerError, responses.StoreError)
	}

	// Uppercase bolt11 QRs pack tighter in alphanumeric mode.
	png, err := qrcode.Encode("lightning:"+strings.ToUpper(invoice.PaymentRequest), qrcode.Medium, 256)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
