package dto

// UserResponseDTO is returned by the auth/me endpoint.
type UserResponseDTO struct {
	ID                 int    `json:"id"`
	Email              string `json:"email"`
	Username           string `json:"username"`
	IsSubscribed       bool   `json:"isSubscribed"`
	SubscriptionStatus string `json:"subscriptionStatus"`
}
