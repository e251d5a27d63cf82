package repository

import (
	"context"
	"errors"

	"wingmate/internal/db"
	"wingmate/internal/matching"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PickupOfferRepository persists airport pickup offers.
type PickupOfferRepository struct {
	pool *pgxpool.Pool
}

func NewPickupOfferRepository(pool *pgxpool.Pool) *PickupOfferRepository {
	return &PickupOfferRepository{pool: pool}
}

// CreatePickupOfferParams holds the fields for a new pickup offer.
type CreatePickupOfferParams struct {
	ProviderID         uuid.UUID
	Airport            string
	VehicleCapacity    int
	CanHandleLuggage   bool
	ServiceArea        string
	AdditionalServices string
	Languages          string
	BaseRate           float64
}

const pickupOfferColumns = `
	id, provider_id, airport, vehicle_capacity, can_handle_luggage,
	service_area, additional_services, languages, base_rate, is_available,
	total_pickups, average_rating`

// Create inserts a new pickup offer and returns its snapshot.
func (r *PickupOfferRepository) Create(ctx context.Context, params CreatePickupOfferParams) (*matching.PickupOffer, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO pickup_offers (
			provider_id, airport, vehicle_capacity, can_handle_luggage,
			service_area, additional_services, languages, base_rate
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING`+pickupOfferColumns,
		params.ProviderID, params.Airport, params.VehicleCapacity,
		params.CanHandleLuggage, params.ServiceArea,
		params.AdditionalServices, params.Languages, params.BaseRate,
	)
	return scanPickupOffer(row)
}

// Get retrieves a pickup offer snapshot by id.
func (r *PickupOfferRepository) Get(ctx context.Context, id uuid.UUID) (*matching.PickupOffer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+pickupOfferColumns+`
		FROM pickup_offers WHERE id = $1`, id)
	return scanPickupOffer(row)
}

// List returns pickup offers ordered by newest first.
func (r *PickupOfferRepository) List(ctx context.Context, limit, offset int32) ([]matching.PickupOffer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+pickupOfferColumns+`
		FROM pickup_offers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPickupOffers(rows)
}

// GetEligiblePickupOffers returns available offers at the request's airport
// with enough seats (and luggage capability when required), excluding the
// requester's own offers.
func (r *PickupOfferRepository) GetEligiblePickupOffers(ctx context.Context, req matching.PickupRequest) ([]matching.PickupOffer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+pickupOfferColumns+`
		FROM pickup_offers
		WHERE is_available
		  AND provider_id <> $1
		  AND upper(airport) = upper($2)
		  AND vehicle_capacity >= $3
		  AND (NOT $4::boolean OR can_handle_luggage)`,
		req.RequesterID, req.Airport, req.PassengerCount, req.HasLuggage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPickupOffers(rows)
}

// SetAvailability toggles whether an offer appears in candidate queries.
func (r *PickupOfferRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE pickup_offers SET is_available = $2, updated_at = now()
		WHERE id = $1`, id, available)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// RecordPickup increments the driver's pickup counter.
func (r *PickupOfferRepository) RecordPickup(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE pickup_offers
		SET total_pickups = total_pickups + 1, updated_at = now()
		WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func collectPickupOffers(rows pgx.Rows) ([]matching.PickupOffer, error) {
	var offers []matching.PickupOffer
	for rows.Next() {
		offer, err := scanPickupOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, *offer)
	}
	return offers, rows.Err()
}

func scanPickupOffer(row pgx.Row) (*matching.PickupOffer, error) {
	var offer matching.PickupOffer
	err := row.Scan(
		&offer.ID, &offer.ProviderID, &offer.Airport, &offer.VehicleCapacity,
		&offer.CanHandleLuggage, &offer.ServiceArea,
		&offer.AdditionalServices, &offer.Languages, &offer.BaseRate,
		&offer.IsAvailable, &offer.TotalPickups, &offer.AverageRating,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &offer, nil
}
