package repository

import (
	"context"
	"database/sql"

	"github.com/ticketkati/ticketkati/internal/model"
)

// AdvertisementRepo reads the advertisements projection.  Rows are created
// and deleted by TicketRepo.SetAdvertised in lockstep with the ticket's
// advertised flag; this repository never writes.
type AdvertisementRepo struct{ DB *sql.DB }

// NewAdvertisementRepo returns an AdvertisementRepo bound to the given database.
func NewAdvertisementRepo(db *sql.DB) *AdvertisementRepo { return &AdvertisementRepo{DB: db} }

// ListAll returns every advertised ticket projection.  This feeds the
// public front page and sits behind the Redis response cache.
func (r *AdvertisementRepo) ListAll(ctx context.Context) ([]model.Advertisement, error) {
	const q = `SELECT ticket_id, title, price_cents, transport_type, vendor_name, image, perks
		FROM advertisements ORDER BY ticket_id DESC`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ads := make([]model.Advertisement, 0)
	for rows.Next() {
		var a model.Advertisement
		var image, perks sql.NullString
		if err := rows.Scan(&a.TicketID, &a.Title, &a.PriceCents, &a.TransportType,
			&a.VendorName, &image, &perks); err != nil {
			return nil, err
		}
		a.Image = image.String
		a.Perks = perks.String
		ads = append(ads, a)
	}
	return ads, rows.Err()
}
