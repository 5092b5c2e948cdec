package dto

import "time"

// SetRoleRequest changes a user's role; curator only
type SetRoleRequest struct {
	Email   string `json:"email" binding:"required,email" example:"student@vuz.edu"`
	NewRole string `json:"newRole" binding:"required" example:"TEACHER"`
}

// UserResponse is the public projection of a user (no password hash)
type UserResponse struct {
	ID        int64     `json:"id" example:"1"`
	Name      string    `json:"name" example:"Ivan Petrov"`
	Email     string    `json:"email" example:"student@vuz.edu"`
	RoleType  string    `json:"roleType" example:"STUDENT"`
	CreatedAt time.Time `json:"createdAt"`
}
