package repository

import (
	"context"
	"errors"
	"time"

	"wingmate/internal/db"
	"wingmate/internal/matching"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FlightOfferRepository persists flight-companion offers.
type FlightOfferRepository struct {
	pool *pgxpool.Pool
}

func NewFlightOfferRepository(pool *pgxpool.Pool) *FlightOfferRepository {
	return &FlightOfferRepository{pool: pool}
}

// CreateFlightOfferParams holds the fields for a new flight offer.
type CreateFlightOfferParams struct {
	ProviderID        uuid.UUID
	FlightNumber      string
	FlightDate        time.Time
	DepartureAirport  string
	ArrivalAirport    string
	AvailableServices string
	Languages         string
	RequestedAmount   float64
}

const flightOfferColumns = `
	id, provider_id, flight_number, flight_date, departure_airport,
	arrival_airport, available_services, languages, requested_amount,
	is_available, helped_count, last_helped_at`

// Create inserts a new flight offer and returns its snapshot.
func (r *FlightOfferRepository) Create(ctx context.Context, params CreateFlightOfferParams) (*matching.FlightOffer, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO flight_offers (
			provider_id, flight_number, flight_date, departure_airport,
			arrival_airport, available_services, languages, requested_amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING`+flightOfferColumns,
		params.ProviderID, params.FlightNumber, params.FlightDate,
		params.DepartureAirport, params.ArrivalAirport,
		params.AvailableServices, params.Languages, params.RequestedAmount,
	)
	return scanFlightOffer(row)
}

// Get retrieves a flight offer snapshot by id.
func (r *FlightOfferRepository) Get(ctx context.Context, id uuid.UUID) (*matching.FlightOffer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+flightOfferColumns+`
		FROM flight_offers WHERE id = $1`, id)
	return scanFlightOffer(row)
}

// List returns flight offers ordered by newest first.
func (r *FlightOfferRepository) List(ctx context.Context, limit, offset int32) ([]matching.FlightOffer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+flightOfferColumns+`
		FROM flight_offers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFlightOffers(rows)
}

// GetEligibleFlightOffers returns available offers on the same flight, date,
// and route as the request, excluding the requester's own offers. This is the
// narrow candidate query; the engine re-applies the same gates in memory.
func (r *FlightOfferRepository) GetEligibleFlightOffers(ctx context.Context, req matching.FlightRequest) ([]matching.FlightOffer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+flightOfferColumns+`
		FROM flight_offers
		WHERE is_available
		  AND provider_id <> $1
		  AND upper(flight_number) = upper($2)
		  AND flight_date::date = $3::date
		  AND upper(departure_airport) = upper($4)
		  AND upper(arrival_airport) = upper($5)`,
		req.RequesterID, req.FlightNumber, req.FlightDate,
		req.DepartureAirport, req.ArrivalAirport)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFlightOffers(rows)
}

// SetAvailability toggles whether an offer appears in candidate queries.
func (r *FlightOfferRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE flight_offers SET is_available = $2, updated_at = now()
		WHERE id = $1`, id, available)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// RecordHelp increments the offer's helped counter and stamps the help time.
func (r *FlightOfferRepository) RecordHelp(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE flight_offers
		SET helped_count = helped_count + 1, last_helped_at = $2,
		    updated_at = now()
		WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func collectFlightOffers(rows pgx.Rows) ([]matching.FlightOffer, error) {
	var offers []matching.FlightOffer
	for rows.Next() {
		offer, err := scanFlightOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, *offer)
	}
	return offers, rows.Err()
}

func scanFlightOffer(row pgx.Row) (*matching.FlightOffer, error) {
	var offer matching.FlightOffer
	err := row.Scan(
		&offer.ID, &offer.ProviderID, &offer.FlightNumber, &offer.FlightDate,
		&offer.DepartureAirport, &offer.ArrivalAirport,
		&offer.AvailableServices, &offer.Languages, &offer.RequestedAmount,
		&offer.IsAvailable, &offer.HelpedCount, &offer.LastHelpedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &offer, nil
}
