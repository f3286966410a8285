package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validTicketReq() ticketReq {
	return ticketReq{
		Title:         "Dhaka to Sylhet",
		From:          "Dhaka",
		To:            "Sylhet",
		TransportType: "Bus",
		PriceCents:    120000,
		Quantity:      10,
		DepartureAt:   time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC),
	}
}

func TestTicketReq_Validate(t *testing.T) {
	req := validTicketReq()
	assert.Empty(t, req.validate())

	cases := []struct {
		name   string
		mutate func(*ticketReq)
		want   string
	}{
		{"missing title", func(r *ticketReq) { r.Title = "  " }, "title is required"},
		{"missing from", func(r *ticketReq) { r.From = "" }, "from and to are required"},
		{"missing to", func(r *ticketReq) { r.To = "" }, "from and to are required"},
		{"missing transport", func(r *ticketReq) { r.TransportType = "" }, "transport_type is required"},
		{"zero price", func(r *ticketReq) { r.PriceCents = 0 }, "price_cents must be positive"},
		{"negative price", func(r *ticketReq) { r.PriceCents = -1 }, "price_cents must be positive"},
		{"zero departure", func(r *ticketReq) { r.DepartureAt = time.Time{} }, "departure_at is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validTicketReq()
			tc.mutate(&r)
			assert.Equal(t, tc.want, r.validate())
		})
	}
}

func TestTicketReq_ToModel(t *testing.T) {
	req := validTicketReq()
	req.Title = "  Dhaka to Sylhet "
	req.TransportType = " BUS "

	m := req.toModel("vendor@example.com")

	assert.Equal(t, "Dhaka to Sylhet", m.Title)
	assert.Equal(t, "bus", m.TransportType)
	assert.Equal(t, "vendor@example.com", m.VendorEmail)
	assert.Equal(t, time.UTC, m.DepartureAt.Location())
	// Status is assigned by the repository on insert, not by the DTO.
	assert.Empty(t, m.Status)
}
