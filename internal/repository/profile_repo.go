package repository

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ProfileRepository defines methods for accessing per-user profile rows.
type ProfileRepository interface {
	// GetProfileByID returns the profile for a user, or nil when none exists.
	GetProfileByID(ctx context.Context, userID string) (*model.Profile, error)
	// CreateProfile inserts a free-tier profile if none exists for the user.
	// Safe to call concurrently for the same user: the insert is
	// ON CONFLICT DO NOTHING on the identity key.
	CreateProfile(ctx context.Context, userID, email string) error
	// GetProfileByStripeCustomerID returns the profile linked to a Stripe
	// customer, or nil when none matches.
	GetProfileByStripeCustomerID(ctx context.Context, customerID string) (*model.Profile, error)
	// UpdateStripeCustomerID persists the Stripe customer reference.
	UpdateStripeCustomerID(ctx context.Context, userID, customerID string) error
	// ActivatePremium sets the premium plan and both Stripe references on
	// the user's profile. Returns false when no profile matched.
	ActivatePremium(ctx context.Context, userID, customerID, subscriptionID string) (bool, error)
	// DowngradeByCustomerID resets the plan to free and clears the
	// subscription reference on the profile linked to the Stripe customer,
	// keeping the customer reference. Returns false when no profile matched.
	DowngradeByCustomerID(ctx context.Context, customerID string) (bool, error)
}

type profileRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProfileRepo creates a new ProfileRepository.
func NewProfileRepo(pool *pgxpool.Pool, logger zerolog.Logger) ProfileRepository {
	return &profileRepo{pool: pool, logger: logger.With().Str("repository", "ProfileRepository").Logger()}
}

func (r *profileRepo) scanProfile(row pgx.Row) (*model.Profile, error) {
	var p model.Profile
	var rawPlan string
	if err := row.Scan(
		&p.UserID,
		&p.Email,
		&rawPlan,
		&p.StripeCustomerID,
		&p.StripeSubscriptionID,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var known bool
	if p.Plan, known = model.ParsePlan(rawPlan); !known {
		r.logger.Warn().Str("user_id", p.UserID).Str("plan", rawPlan).Msg("Unknown plan tier in profile row, treating as free")
	}
	return &p, nil
}

func (r *profileRepo) GetProfileByID(ctx context.Context, userID string) (*model.Profile, error) {
	const q = `
        SELECT user_id, email, plan, stripe_customer_id, stripe_subscription_id, created_at, updated_at
        FROM profiles
        WHERE user_id = $1
    `
	p, err := r.scanProfile(r.pool.QueryRow(ctx, q, userID))
	if err != nil {
		return nil, fmt.Errorf("fetch profile for user %s: %w", userID, err)
	}
	return p, nil
}

func (r *profileRepo) CreateProfile(ctx context.Context, userID, email string) error {
	const q = `
        INSERT INTO profiles (user_id, email, plan, created_at, updated_at)
        VALUES ($1, $2, 'free', NOW(), NOW())
        ON CONFLICT (user_id) DO NOTHING;
    `
	if _, err := r.pool.Exec(ctx, q, userID, email); err != nil {
		return fmt.Errorf("create profile for user %s: %w", userID, err)
	}
	return nil
}

func (r *profileRepo) GetProfileByStripeCustomerID(ctx context.Context, customerID string) (*model.Profile, error) {
	const q = `
        SELECT user_id, email, plan, stripe_customer_id, stripe_subscription_id, created_at, updated_at
        FROM profiles
        WHERE stripe_customer_id = $1
    `
	p, err := r.scanProfile(r.pool.QueryRow(ctx, q, customerID))
	if err != nil {
		return nil, fmt.Errorf("fetch profile for stripe customer %s: %w", customerID, err)
	}
	return p, nil
}

func (r *profileRepo) UpdateStripeCustomerID(ctx context.Context, userID, customerID string) error {
	const q = `
        UPDATE profiles
        SET stripe_customer_id = $2, updated_at = NOW()
        WHERE user_id = $1;
    `
	if _, err := r.pool.Exec(ctx, q, userID, customerID); err != nil {
		return fmt.Errorf("store stripe customer id for user %s: %w", userID, err)
	}
	return nil
}

func (r *profileRepo) ActivatePremium(ctx context.Context, userID, customerID, subscriptionID string) (bool, error) {
	const q = `
        UPDATE profiles
        SET plan = 'premium',
            stripe_customer_id = $2,
            stripe_subscription_id = $3,
            updated_at = NOW()
        WHERE user_id = $1;
    `
	tag, err := r.pool.Exec(ctx, q, userID, customerID, subscriptionID)
	if err != nil {
		return false, fmt.Errorf("activate premium for user %s: %w", userID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *profileRepo) DowngradeByCustomerID(ctx context.Context, customerID string) (bool, error) {
	const q = `
        UPDATE profiles
        SET plan = 'free',
            stripe_subscription_id = NULL,
            updated_at = NOW()
        WHERE stripe_customer_id = $1;
    `
	tag, err := r.pool.Exec(ctx, q, customerID)
	if err != nil {
		return false, fmt.Errorf("downgrade profile for stripe customer %s: %w", customerID, err)
	}
	return tag.RowsAffected() > 0, nil
}
