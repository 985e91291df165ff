package account

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsStaff      bool      `json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Profile struct {
	ID      string `json:"id"`
	UserID  string `json:"-"`
	Name    string `json:"name"`
	Bio     string `json:"bio"`
	Picture string `json:"picture"`
}

type Address struct {
	ID            string `json:"id"`
	UserID        string `json:"-"`
	PhoneNumber   string `json:"phone_number"`
	StreetAddress string `json:"street_address"`
	Directions    string `json:"directions"`
	State         string `json:"state"`
	City          string `json:"city"`
	Country       string `json:"country"`
	PostalCode    string `json:"postal_code"`
}

// RegisterRequest payload of user registration.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" example:"ada"`
	Email    string `json:"email"    example:"ada@example.com"`
	Password string `json:"password" example:"hunter22"`
}

// LoginRequest payload of the token-issuing login call.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"    example:"ada@example.com"`
	Password string `json:"password" example:"hunter22"`
}

// ResetRequest asks for a password-reset link.
// swagger:model ResetRequest
type ResetRequest struct {
	Email string `json:"email" example:"ada@example.com"`
}

// ResetConfirmRequest completes a password reset.
// swagger:model ResetConfirmRequest
type ResetConfirmRequest struct {
	UID      string `json:"uid"`
	Token    string `json:"token"`
	Password string `json:"password"`
}
