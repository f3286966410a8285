package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ticketkati/ticketkati/internal/config"
	"github.com/ticketkati/ticketkati/internal/model"
	"github.com/ticketkati/ticketkati/internal/repository"
	"github.com/ticketkati/ticketkati/internal/utils"
)

// AuthHandler bundles dependencies for registration, token issuing and
// account administration.
type AuthHandler struct {
	Cfg      config.Config
	Accounts *repository.AccountRepo
	Tickets  *repository.TicketRepo
}

// NewAuthHandler constructs an AuthHandler with the provided repositories.
func NewAuthHandler(cfg config.Config, accounts *repository.AccountRepo, tickets *repository.TicketRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: accounts, Tickets: tickets}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Photo    string `json:"photo"`
	Role     string `json:"role"`
	Password string `json:"password"` // optional; social sign-ins omit it
}

type tokenReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo,omitempty"`
	Role  string `json:"role"`
	Fraud bool   `json:"fraud,omitempty"`
}

func toAccountPart(a model.Account) accountPart {
	return accountPart{ID: a.ID, Name: a.Name, Email: a.Email, Photo: a.Photo, Role: a.Role, Fraud: a.Fraud}
}

// Register handles POST /register.  Name, email and role are required;
// admins cannot be self-registered.  The unique index on accounts.email
// makes a duplicate in any role surface as 409 regardless of which role
// the first registration used.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if req.Name == "" || req.Email == "" || req.Role == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and role are required"})
	}
	if req.Role != model.RoleUser && req.Role != model.RoleVendor {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	var passwordHash *string
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
		}
		passwordHash = &hash
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Accounts.Create(ctx, req.Name, req.Email, req.Photo, req.Role, passwordHash)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    accountPart{ID: id, Name: req.Name, Email: req.Email, Photo: req.Photo, Role: req.Role},
	})
}

// IssueToken handles POST /jwt.  It looks the account up by email and
// issues a short-lived access token carrying the email and role.  When the
// account holds a password hash the supplied password must verify; social
// sign-in accounts carry no hash and authenticate by email alone.
func (h *AuthHandler) IssueToken(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if a.PasswordHash != nil && !utils.VerifyPassword(*a.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.Email, a.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token":   access.Token,
		"expires": access.Exp,
	})
}

// GetRole handles GET /user-role/:email, used by the frontend at login to
// decide which dashboard to show.  404 when no account carries the email.
func (h *AuthHandler) GetRole(c echo.Context) error {
	email := c.Param("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"role": a.Role, "id": a.ID})
}

// ChangeRole handles PATCH /users/role/:id (admin).  The account's row is
// rewritten in place, so a role change moves the record between audiences
// without touching the total account count.
func (h *AuthHandler) ChangeRole(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}
	var body struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	body.Role = strings.ToLower(strings.TrimSpace(body.Role))
	if !model.ValidRole(body.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Accounts.UpdateRole(ctx, id, body.Role); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "role": body.Role})
}

// MarkFraud handles PATCH /vendors/fraud/:id (admin).  Flagging a vendor
// also takes all of their listings off sale and clears their
// advertisements; bookings and transactions already made are kept.
func (h *AuthHandler) MarkFraud(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	a, err := h.Accounts.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Accounts.MarkVendorFraud(ctx, id); err != nil {
		return respondError(c, err)
	}
	if err := h.Tickets.DelistByVendor(ctx, a.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "fraud": true})
}

// ListAccounts handles GET /accounts (admin).  The optional ?role= query
// filters by audience.
func (h *AuthHandler) ListAccounts(c echo.Context) error {
	role := strings.ToLower(strings.TrimSpace(c.QueryParam("role")))
	if role != "" && !model.ValidRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	accounts, err := h.Accounts.ListByRole(ctx, role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	items := make([]accountPart, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, toAccountPart(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
