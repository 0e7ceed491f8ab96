package controllers

import (
	"errors"
	"net/http"

	"github.com/getAlby/satshop.go/lib/responses"
	"github.com/getAlby/satshop.go/lib/service"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
)

// DownloadController : Download controller struct
type DownloadController struct {
	svc *service.SatshopService
}

func NewDownloadController(svc *service.SatshopService) *DownloadController {
	return &DownloadController{svc: svc}
}

// Download godoc
// @Summary      Download a purchased file
// @Description  Streams the file a token grants and consumes the token
// @Produce      octet-stream
// @Tags         Download
// @Param        token  query     string  true  "Download token"
// @Success      200    {file}    binary
// @Failure      403    {object}  responses.ErrorResponse
// @Failure      404    {object}  responses.ErrorResponse
// @Failure      500    {object}  responses.ErrorResponse
// @Router       /download [get]
func (controller *DownloadController) Download(c echo.Context) error {
	tokenValue := c.QueryParam("token")
	if tokenValue == "" {
		return c.JSON(http.StatusForbidden, responses.InvalidTokenError)
	}

	ctx := c.Request().Context()
	file, err := controller.svc.ResolveDownload(ctx, tokenValue)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			return c.JSON(http.StatusForbidden, responses.InvalidTokenError)
		case errors.Is(err, service.ErrTokenExpired):
			return c.JSON(http.StatusForbidden, responses.TokenExpiredError)
		case errors.Is(err, service.ErrFileNotFound):
			return c.JSON(http.StatusNotFound, responses.NotFoundError)
		default:
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, responses.StoreError)
		}
	}

	// The token is consumed only after the transfer went through, so a
	// failed transfer can be retried with the same token.
	if err := c.Attachment(controller.svc.Catalog.FilePath(file), file.Name); err != nil {
		c.Logger().Errorf("File transfer failed: file_id:%d error: %v", file.ID, err)
		return err
	}

	if err := controller.svc.ConsumeToken(ctx, tokenValue); err != nil {
		// The transfer already succeeded. Log and let the sweeper catch
		// the token at expiry.
		c.Logger().Errorf("Error consuming token after download: %v", err)
		sentry.CaptureException(err)
	}
	return nil
}
