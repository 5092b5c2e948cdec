package models

import (
	"time"
)

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleTeacher RoleType = "TEACHER"
	RoleCurator RoleType = "CURATOR"
)

// ParseRole converts a stored or submitted role value into a RoleType.
// Unknown values are rejected so an illegal role can never enter the system.
func ParseRole(value string) (RoleType, bool) {
	switch RoleType(value) {
	case RoleStudent, RoleTeacher, RoleCurator:
		return RoleType(value), true
	}
	return "", false
}

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`                                  // Unique identifier for the user
	Name      string    `json:"name" db:"name" example:"Ivan Petrov"`                    // Display name
	Email     string    `json:"email" db:"email" example:"student@vuz.edu"`              // User's email address (case-sensitive identity key)
	Password  string    `json:"-" db:"password"`                                         // User's hashed password (excluded from JSON)
	RoleType  RoleType  `json:"roleType" db:"role_type" example:"STUDENT"`               // User's role (STUDENT, TEACHER or CURATOR)
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`
}
