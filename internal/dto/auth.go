package dto

// RegisterRequest is an enlistment application.
type RegisterRequest struct {
	Callsign string `json:"callsign" binding:"required,min=2,max=50"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Branch   string `json:"branch"   binding:"required"`
}

// LoginRequest authenticates by email.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest updates the caller's password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// TokenResponse is the issued token pair.
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}

// RegisterResponse confirms a submitted application.
type RegisterResponse struct {
	ID       string `json:"id"`
	Callsign string `json:"callsign"`
	Email    string `json:"email"`
	Status   string `json:"status"`
}
