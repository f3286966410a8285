package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ticketkati/ticketkati/internal/payment"
	"github.com/ticketkati/ticketkati/internal/repository"
	"github.com/ticketkati/ticketkati/internal/service"
)

// authEmail extracts the authenticated account email stored in the context
// by the JWTAuth middleware.  An error means the handler was reached
// without authentication and should respond 401.
func authEmail(c echo.Context) (string, error) {
	s, ok := c.Get("email").(string)
	if !ok || s == "" {
		return "", errors.New("no authenticated email in context")
	}
	return s, nil
}

// respondError translates workflow and repository errors into the JSON
// error body and status code the API promises: validation problems and
// oversized bookings map to 400, missing entities to 404, ownership
// violations to 403, duplicate emails and illegal status transitions to
// 409, provider trouble and everything unexpected to 500.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, repository.ErrInsufficientInventory):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": messageFor(err)})
	case errors.Is(err, repository.ErrTicketNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": messageFor(err)})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": messageFor(err)})
	case errors.Is(err, payment.ErrProvider):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment provider error"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, service.ErrValidation):
		return err.Error()
	case errors.Is(err, repository.ErrInsufficientInventory):
		return "insufficient ticket quantity"
	case errors.Is(err, repository.ErrTicketNotFound):
		return "ticket not found"
	case errors.Is(err, repository.ErrBookingNotFound):
		return "booking not found"
	case errors.Is(err, sql.ErrNoRows):
		return "not found"
	case errors.Is(err, repository.ErrEmailExists):
		return "email already exists"
	case errors.Is(err, repository.ErrConflict):
		return "conflicting state"
	default:
		return "internal error"
	}
}
