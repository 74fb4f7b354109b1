package response_models

import "time"

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserProfileResponse struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	HasSubscription    bool       `json:"hasSubscription"`
	SubscriptionExpiry *time.Time `json:"subscriptionExpiry"`
}

type RegisterResponse struct {
	User UserResponse `json:"user"`
}

type LoginResponse struct {
	User  UserProfileResponse `json:"user"`
	Token string              `json:"token"`
}
