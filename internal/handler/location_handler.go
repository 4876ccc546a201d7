package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hyperlocal/internal/location"
)

// LocationHandler serves the location directory.
type LocationHandler struct {
	directory *location.Directory
}

// NewLocationHandler creates a new location handler.
func NewLocationHandler(directory *location.Directory) *LocationHandler {
	return &LocationHandler{directory: directory}
}

// LocationsResponse lists the supported locations and region defaults.
type LocationsResponse struct {
	Defaults location.Defaults  `json:"defaults"`
	PinCodes []location.PinCode `json:"pin_codes"`
}

// List godoc
// @Summary List known pin codes and areas
// @Tags locations
// @Produce json
// @Success 200 {object} LocationsResponse
// @Router /locations [get]
func (h *LocationHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, LocationsResponse{
		Defaults: h.directory.Defaults(),
		PinCodes: h.directory.PinCodes(),
	})
}
