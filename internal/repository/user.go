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

// UserRepository reads the reputation fields of marketplace users. Account
// management itself lives outside this service; the matching engine only
// needs the read-only reputation view.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetReputationProfile returns the reputation snapshot for a user, or
// (nil, nil) when the user has no profile row. The engine scores a missing
// profile neutrally.
func (r *UserRepository) GetReputationProfile(ctx context.Context, userID uuid.UUID) (*matching.ReputationProfile, error) {
	var profile matching.ReputationProfile
	err := r.pool.QueryRow(ctx, `
		SELECT rating, total_ratings, is_verified, created_at
		FROM users WHERE id = $1`, userID).Scan(
		&profile.Rating, &profile.TotalRatings, &profile.IsVerified,
		&profile.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// AddRating folds a new rating value into a user's running average.
func (r *UserRepository) AddRating(ctx context.Context, userID uuid.UUID, rating float64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET rating = (rating * total_ratings + $2) / (total_ratings + 1),
		    total_ratings = total_ratings + 1,
		    updated_at = now()
		WHERE id = $1`, userID, rating)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
