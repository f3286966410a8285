package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ticketkati/ticketkati/internal/config"
	"github.com/ticketkati/ticketkati/internal/database"
	"github.com/ticketkati/ticketkati/internal/handler"
	"github.com/ticketkati/ticketkati/internal/payment"
	"github.com/ticketkati/ticketkati/internal/queue"
	"github.com/ticketkati/ticketkati/internal/repository"
	"github.com/ticketkati/ticketkati/internal/router"
	"github.com/ticketkati/ticketkati/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories
	accounts := repository.NewAccountRepo(db)
	tickets := repository.NewTicketRepo(db)
	bookings := repository.NewBookingRepo(db)
	txns := repository.NewTransactionRepo(db)
	ads := repository.NewAdvertisementRepo(db)

	// Workflows
	publisher := queue.NewPublisher()
	provider := payment.NewStripeProvider(cfg.StripeSecret, cfg.SiteURL)
	bookingSvc := service.NewBookingService(tickets, bookings, publisher)
	paymentSvc := service.NewPaymentService(bookings, provider, publisher)

	// Background consumers append broker events to logs/.
	go func() {
		if err := queue.StartConsumer(queue.BookingCreatedQueue); err != nil {
			log.Printf("consumer %s stopped: %v", queue.BookingCreatedQueue, err)
		}
	}()
	go func() {
		if err := queue.StartConsumer(queue.PaymentCompletedQueue); err != nil {
			log.Printf("consumer %s stopped: %v", queue.PaymentCompletedQueue, err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, accounts, tickets),
		Ticket:  handler.NewTicketHandler(tickets),
		Booking: handler.NewBookingHandler(bookingSvc, bookings),
		Payment: handler.NewPaymentHandler(paymentSvc),
		Txn:     handler.NewTransactionHandler(txns),
		Ads:     handler.NewAdvertisementHandler(ads),
	}, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
