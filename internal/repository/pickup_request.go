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

// PickupRequestRepository persists airport pickup requests.
type PickupRequestRepository struct {
	pool *pgxpool.Pool
}

func NewPickupRequestRepository(pool *pgxpool.Pool) *PickupRequestRepository {
	return &PickupRequestRepository{pool: pool}
}

// CreatePickupRequestParams holds the fields for a new pickup request.
type CreatePickupRequestParams struct {
	RequesterID        uuid.UUID
	Airport            string
	ArrivalTime        time.Time
	PassengerCount     int
	HasLuggage         bool
	DestinationAddress string
	SpecialRequests    string
	PreferredLanguage  string
	OfferedAmount      float64
}

const pickupRequestColumns = `
	id, requester_id, airport, arrival_time, passenger_count, has_luggage,
	destination_address, special_requests, preferred_language,
	offered_amount, is_matched`

// Create inserts a new pickup request and returns its snapshot.
func (r *PickupRequestRepository) Create(ctx context.Context, params CreatePickupRequestParams) (*matching.PickupRequest, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO pickup_requests (
			requester_id, airport, arrival_time, passenger_count, has_luggage,
			destination_address, special_requests, preferred_language,
			offered_amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING`+pickupRequestColumns,
		params.RequesterID, params.Airport, params.ArrivalTime,
		params.PassengerCount, params.HasLuggage, params.DestinationAddress,
		params.SpecialRequests, params.PreferredLanguage, params.OfferedAmount,
	)
	return scanPickupRequest(row)
}

// Get retrieves a pickup request snapshot by id.
func (r *PickupRequestRepository) Get(ctx context.Context, id uuid.UUID) (*matching.PickupRequest, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+pickupRequestColumns+`
		FROM pickup_requests WHERE id = $1`, id)
	return scanPickupRequest(row)
}

// GetPickupRequest implements matching.PickupSource.
func (r *PickupRequestRepository) GetPickupRequest(ctx context.Context, id uuid.UUID) (*matching.PickupRequest, error) {
	return r.Get(ctx, id)
}

// List returns pickup requests ordered by newest first.
func (r *PickupRequestRepository) List(ctx context.Context, limit, offset int32) ([]matching.PickupRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+pickupRequestColumns+`
		FROM pickup_requests
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []matching.PickupRequest
	for rows.Next() {
		req, err := scanPickupRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// ConfirmMatch marks the request matched to the given offer using an
// optimistic version check. Returns false if the request was already matched
// or concurrently modified.
func (r *PickupRequestRepository) ConfirmMatch(ctx context.Context, requestID, offerID uuid.UUID, version int) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE pickup_requests
		SET is_matched = TRUE, matched_offer_id = $2, version = version + 1,
		    updated_at = now()
		WHERE id = $1 AND version = $3 AND NOT is_matched`,
		requestID, offerID, version)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// GetVersion returns the current optimistic-lock version of a request.
func (r *PickupRequestRepository) GetVersion(ctx context.Context, id uuid.UUID) (int, error) {
	var version int
	err := r.pool.QueryRow(ctx,
		`SELECT version FROM pickup_requests WHERE id = $1`, id).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, db.ErrNotFound
	}
	return version, err
}

// ExpireStale marks unmatched requests whose arrival time has passed as
// expired. Returns the number of requests expired.
func (r *PickupRequestRepository) ExpireStale(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE pickup_requests
		SET is_expired = TRUE, updated_at = now()
		WHERE NOT is_matched AND NOT is_expired AND arrival_time < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanPickupRequest(row pgx.Row) (*matching.PickupRequest, error) {
	var req matching.PickupRequest
	err := row.Scan(
		&req.ID, &req.RequesterID, &req.Airport, &req.ArrivalTime,
		&req.PassengerCount, &req.HasLuggage, &req.DestinationAddress,
		&req.SpecialRequests, &req.PreferredLanguage, &req.OfferedAmount,
		&req.IsMatched,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}
