package request

// LoginRequest represents an operator PIN login
type LoginRequest struct {
	Operator string `json:"operator" binding:"required,max=64"`
	PIN      string `json:"pin" binding:"required,numeric,min=4,max=8"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
