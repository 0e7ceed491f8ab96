package transport

import (
	"github.com/getAlby/satshop.go/controllers"
	"github.com/getAlby/satshop.go/lib/service"
	"github.com/labstack/echo/v4"
)

func RegisterEndpoints(svc *service.SatshopService, e *echo.Echo, purchaseRateLimitMiddleware echo.MiddlewareFunc, logMw echo.MiddlewareFunc) {
	cacheClient := CreateCacheClient()

	e.GET("/files", controllers.NewFilesController(svc).Files, cacheClient.Middleware(), logMw)
	// stricter limit on invoice creation, it is the expensive call
	e.POST("/purchase", controllers.NewPurchaseController(svc).Purchase, purchaseRateLimitMiddleware, logMw)
	e.POST("/check-payment", controllers.NewCheckPaymentController(svc).CheckPayment, logMw)
	e.GET("/download", controllers.NewDownloadController(svc).Download, logMw)
	e.GET("/qr/:payment_hash", controllers.NewQrController(svc).InvoiceQr, logMw)
	e.GET("/stats", controllers.NewStatsController(svc).Stats, logMw)

	// the polling UI
	if svc.Config.StaticDir != "" {
		e.Static("/", svc.Config.StaticDir)
	}
}
