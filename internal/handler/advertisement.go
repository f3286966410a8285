package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ticketkati/ticketkati/internal/repository"
)

// AdvertisementHandler serves the public front-page projection of
// advertised tickets.  The route sits behind the Redis response cache.
type AdvertisementHandler struct {
	Ads *repository.AdvertisementRepo
}

// NewAdvertisementHandler constructs an AdvertisementHandler.
func NewAdvertisementHandler(ads *repository.AdvertisementRepo) *AdvertisementHandler {
	return &AdvertisementHandler{Ads: ads}
}

// ListAll handles GET /advertisements.
func (h *AdvertisementHandler) ListAll(c echo.Context) error {
	ads, err := h.Ads.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load advertisements failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": ads})
}
