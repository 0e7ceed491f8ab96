package controllers

import (
	"net/http"

	"github.com/getAlby/satshop.go/lib/service"
	"github.com/labstack/echo/v4"
)

// FilesController : Files controller struct
type FilesController struct {
	svc *service.SatshopService
}

func NewFilesController(svc *service.SatshopService) *FilesController {
	return &FilesController{svc: svc}
}

// Files godoc
// @Summary      List files for sale
// @Description  Returns the catalog of downloadable files with prices in satoshis
// @Produce      json
// @Tags         Catalog
// @Success      200  {object}  []catalog.File
// @Router       /files [get]
func (controller *FilesController) Files(c echo.Context) error {
	return c.JSON(http.StatusOK, controller.svc.Catalog.List())
}
