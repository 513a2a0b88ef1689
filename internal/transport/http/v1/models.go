package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) handleListModels(c echo.Context) error {
	models, err := h.service.ListModels(c.Request().Context())
	if err != nil {
		return h.requestError(c, err)
	}
	return c.JSON(http.StatusOK, models)
}
