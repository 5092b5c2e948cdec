package dto

// RegisterRequest represents a registration request.
// Every registration creates a STUDENT; roles are granted later by a curator.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required" example:"Ivan Petrov"`
	Email    string `json:"email" binding:"required,email" example:"student@vuz.edu"`
	Password string `json:"password" binding:"required,min=6" example:"secret123"`
}

// RegisterResponse carries the new user's identifier
type RegisterResponse struct {
	ID int64 `json:"id" example:"3"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"student@vuz.edu"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// TokenResponse carries the signed access token and the caller's role
type TokenResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role" example:"STUDENT"`
	ExpiresIn int    `json:"expiresIn" example:"86400"`
}

// GreetingResponse echoes the authenticated principal back to the caller
type GreetingResponse struct {
	Name string `json:"name" example:"Ivan Petrov"`
	Role string `json:"role" example:"STUDENT"`
}
