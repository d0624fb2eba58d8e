package model

import "time"

// Role enumerates platform roles.
type Role string

const (
	RoleEmployee    Role = "employee"
	RoleContributor Role = "contributor"
	RoleAdmin       Role = "admin"
)

// Employee represents a platform user: exam candidates, question
// contributors, and administrators share the same table.
type Employee struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	EmployeeCode string    `json:"employee_code"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginRequest is the payload for logging in with email or employee code.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required,min=3,max=255"`
	Password   string `json:"password" binding:"required,min=6,max=128"`
}
