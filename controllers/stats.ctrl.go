package controllers

import (
	"net/http"

	"github.com/getAlby/satshop.go/lib/responses"
	"github.com/getAlby/satshop.go/lib/service"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
)

// StatsController : Stats controller struct
type StatsController struct {
	svc *service.SatshopService
}

func NewStatsController(svc *service.SatshopService) *StatsController {
	return &StatsController{svc: svc}
}

// Stats godoc
// @Summary      Store diagnostics
// @Description  Returns record counts and estimated sizes of the invoice and token stores
// @Produce      json
// @Tags         Diagnostics
// @Success      200  {object}  service.Stats
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /stats [get]
func (controller *StatsController) Stats(c echo.Context) error {
	stats, err := controller.svc.GetStats(c.Request().Context())
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, responses.StoreError)
	}
	return c.JSON(http.StatusOK, stats)
}
