package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems to verify that the service is running.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Root answers GET / with a short banner so a browser hitting the bare
// host sees the service is up.
func Root(c echo.Context) error {
	return c.String(http.StatusOK, "Server is running")
}
