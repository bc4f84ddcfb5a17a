package model

import "time"

// Subscription status values mirrored from Stripe webhook events. The local
// status string is the source of truth for access checks; the presence of a
// Stripe customer ID only means the user has been through billing once.
const (
	SubscriptionInactive = "inactive"
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
	SubscriptionPastDue  = "past_due"
)

// User mirrors a Clerk identity plus locally cached billing state.
type User struct {
	ID                   int       `db:"id" json:"id"`
	ClerkID              string    `db:"clerk_id" json:"clerkId"`
	Email                string    `db:"email" json:"email"`
	Username             string    `db:"username" json:"username"`
	StripeCustomerID     *string   `db:"stripe_customer_id" json:"stripeCustomerId,omitempty"`
	StripeSubscriptionID *string   `db:"stripe_subscription_id" json:"stripeSubscriptionId,omitempty"`
	SubscriptionStatus   string    `db:"subscription_status" json:"subscriptionStatus"`
	CreatedAt            time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time `db:"updated_at" json:"updatedAt"`
}

// IsSubscribed reports whether the locally mirrored status grants access.
func (u *User) IsSubscribed() bool {
	return u.SubscriptionStatus == SubscriptionActive
}
