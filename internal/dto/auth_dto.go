package dto

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the payload for exchanging credentials for tokens.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse serializes an account without its credentials.
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// TokenResponse carries issued tokens.
type TokenResponse struct {
	Access   string `json:"access"`
	Refresh  string `json:"refresh"`
	Username string `json:"username"`
}
