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

// FlightRequestRepository persists flight-companion requests.
type FlightRequestRepository struct {
	pool *pgxpool.Pool
}

func NewFlightRequestRepository(pool *pgxpool.Pool) *FlightRequestRepository {
	return &FlightRequestRepository{pool: pool}
}

// CreateFlightRequestParams holds the fields for a new flight request.
type CreateFlightRequestParams struct {
	RequesterID       uuid.UUID
	FlightNumber      string
	FlightDate        time.Time
	DepartureAirport  string
	ArrivalAirport    string
	TravelerAge       string
	SpecialNeeds      string
	PreferredLanguage string
	OfferedAmount     float64
}

const flightRequestColumns = `
	id, requester_id, flight_number, flight_date, departure_airport,
	arrival_airport, traveler_age, special_needs, preferred_language,
	offered_amount, is_matched`

// Create inserts a new flight request and returns its snapshot.
func (r *FlightRequestRepository) Create(ctx context.Context, params CreateFlightRequestParams) (*matching.FlightRequest, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO flight_requests (
			requester_id, flight_number, flight_date, departure_airport,
			arrival_airport, traveler_age, special_needs, preferred_language,
			offered_amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING`+flightRequestColumns,
		params.RequesterID, params.FlightNumber, params.FlightDate,
		params.DepartureAirport, params.ArrivalAirport, params.TravelerAge,
		params.SpecialNeeds, params.PreferredLanguage, params.OfferedAmount,
	)
	return scanFlightRequest(row)
}

// Get retrieves a flight request snapshot by id.
func (r *FlightRequestRepository) Get(ctx context.Context, id uuid.UUID) (*matching.FlightRequest, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+flightRequestColumns+`
		FROM flight_requests WHERE id = $1`, id)
	return scanFlightRequest(row)
}

// GetFlightRequest implements matching.FlightSource.
func (r *FlightRequestRepository) GetFlightRequest(ctx context.Context, id uuid.UUID) (*matching.FlightRequest, error) {
	return r.Get(ctx, id)
}

// List returns flight requests ordered by newest first.
func (r *FlightRequestRepository) List(ctx context.Context, limit, offset int32) ([]matching.FlightRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+flightRequestColumns+`
		FROM flight_requests
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []matching.FlightRequest
	for rows.Next() {
		req, err := scanFlightRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// ConfirmMatch marks the request matched to the given offer using an
// optimistic version check. It returns false when the request was already
// matched or concurrently modified, so at most one confirmation can win.
func (r *FlightRequestRepository) ConfirmMatch(ctx context.Context, requestID, offerID uuid.UUID, version int) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE flight_requests
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
func (r *FlightRequestRepository) GetVersion(ctx context.Context, id uuid.UUID) (int, error) {
	var version int
	err := r.pool.QueryRow(ctx,
		`SELECT version FROM flight_requests WHERE id = $1`, id).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, db.ErrNotFound
	}
	return version, err
}

// ExpireStale marks unmatched requests whose flight date has passed as
// expired, removing them from future candidate queries. Returns the number
// of requests expired.
func (r *FlightRequestRepository) ExpireStale(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE flight_requests
		SET is_expired = TRUE, updated_at = now()
		WHERE NOT is_matched AND NOT is_expired AND flight_date < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanFlightRequest(row pgx.Row) (*matching.FlightRequest, error) {
	var req matching.FlightRequest
	err := row.Scan(
		&req.ID, &req.RequesterID, &req.FlightNumber, &req.FlightDate,
		&req.DepartureAirport, &req.ArrivalAirport, &req.TravelerAge,
		&req.SpecialNeeds, &req.PreferredLanguage, &req.OfferedAmount,
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
