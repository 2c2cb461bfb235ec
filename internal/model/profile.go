package model

import "time"

// Profile is the per-user record holding the plan tier and Stripe linkage.
// The primary key equals the external auth identity, so there is exactly
// one profile per authenticated user.
type Profile struct {
	UserID               string    `db:"user_id" json:"user_id"`
	Email                string    `db:"email" json:"email"`
	Plan                 Plan      `db:"plan" json:"plan"`
	StripeCustomerID     *string   `db:"stripe_customer_id" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string   `db:"stripe_subscription_id" json:"stripe_subscription_id,omitempty"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}
