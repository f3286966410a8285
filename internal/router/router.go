package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/ticketkati/ticketkati/internal/config"
	"github.com/ticketkati/ticketkati/internal/handler"
	"github.com/ticketkati/ticketkati/internal/middleware"
	"github.com/ticketkati/ticketkati/internal/model"
)

// Handlers groups everything the router wires up.  All fields must be
// non-nil; rdb may be nil, which disables caching and rate limiting.
type Handlers struct {
	Auth    *handler.AuthHandler
	Ticket  *handler.TicketHandler
	Booking *handler.BookingHandler
	Payment *handler.PaymentHandler
	Txn     *handler.TransactionHandler
	Ads     *handler.AdvertisementHandler
}

// Register mounts every route of the marketplace on the provided Echo
// instance.  Public browse endpoints go behind the Redis response cache
// and rate limiter; vendor and admin surfaces go behind JWT auth plus a
// role check.  The booking and payment endpoints stay public because the
// buyer's browser drives them before any sign-in exchange, but they are
// rate limited.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Liveness and banner
	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Health)

	// Account registration and login exchange
	e.POST("/register", h.Auth.Register, limit)
	e.POST("/jwt", h.Auth.IssueToken, limit)
	e.GET("/user-role/:email", h.Auth.GetRole, limit)

	// Public browse, cached
	e.GET("/all-tickets", h.Ticket.ListApproved, limit, cache)
	e.GET("/tickets/:id", h.Ticket.GetByID, limit, cache)
	e.GET("/advertisements", h.Ads.ListAll, limit, cache)

	// Booking and checkout, driven by the buyer's browser
	e.POST("/bookings", h.Booking.Create, limit)
	e.GET("/bookings/:email", h.Booking.ListByEmail, limit)
	e.POST("/create-checkout-session", h.Payment.CreateCheckoutSession, limit)
	e.PATCH("/payment-success", h.Payment.PaymentSuccess, limit)

	// Vendor surface: listing management and booking moderation
	vendor := e.Group("", middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole(model.RoleVendor, model.RoleAdmin))
	vendor.POST("/tickets", h.Ticket.Create)
	vendor.GET("/tickets/vendor/:email", h.Ticket.ListByVendor)
	vendor.PATCH("/tickets/:id", h.Ticket.Update)
	vendor.DELETE("/tickets/:id", h.Ticket.Delete)
	vendor.GET("/bookings", h.Booking.ListAll)
	vendor.PATCH("/bookings/accept/:id", h.Booking.Accept)
	vendor.PATCH("/bookings/reject/:id", h.Booking.Reject)
	vendor.GET("/transactions/:email", h.Txn.ListByEmail)

	// Admin surface: moderation and account administration
	admin := e.Group("", middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole(model.RoleAdmin))
	admin.PATCH("/tickets/approve/:id", h.Ticket.Approve)
	admin.PATCH("/tickets/reject/:id", h.Ticket.Reject)
	admin.PATCH("/tickets/advertise/:id", h.Ticket.Advertise)
	admin.PATCH("/users/role/:id", h.Auth.ChangeRole)
	admin.PATCH("/vendors/fraud/:id", h.Auth.MarkFraud)
	admin.GET("/accounts", h.Auth.ListAccounts)
	admin.GET("/transactions", h.Txn.ListAll)
}
