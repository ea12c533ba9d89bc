// Package types defines the request and response bodies of the HTTP API.
package types

import (
	"time"

	"github.com/google/uuid"
)

// CreateUserRequest represents the request to create a new user with password authentication.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User represents a user profile for API responses.
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PasswordSet bool      `json:"password_set"`
	HasResume   bool      `json:"has_resume"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginResponse represents the login/register response with user data and authentication token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UpdatePasswordRequest represents a password update request.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

// SendOTPRequest asks for a password reset code by email.
type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SendOTPResponse carries the signed token the client returns with the code.
type SendOTPResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VerifyOTPRequest checks a reset code and, when NewPassword is set, resets
// the password.
type VerifyOTPRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"otp" validate:"required,len=6,numeric"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password,omitempty" validate:"omitempty,min=8,max=72"`
}

// ValidateEmailRequest is the body of the address check endpoint.
type ValidateEmailRequest struct {
	Email string `json:"email" validate:"required"`
}

// UpdateResumeRequest stores the user's resume text.
type UpdateResumeRequest struct {
	ResumeText string `json:"resume_text" validate:"required,max=200000"`
}

// DigestPreferenceRequest sets the scheduled summary email.
type DigestPreferenceRequest struct {
	Frequency     string `json:"frequency" validate:"required,oneof=daily weekly bi-weekly monthly quarterly"`
	ScheduledTime string `json:"scheduled_time" validate:"required,clock"`
	Active        *bool  `json:"is_active"`
}

// Validate validates the CreateUserRequest.
func (r *CreateUserRequest) Validate() error {
	return Validate(r)
}

// Validate validates the LoginRequest.
func (r *LoginRequest) Validate() error {
	return Validate(r)
}

// Validate validates the UpdatePasswordRequest.
func (r *UpdatePasswordRequest) Validate() error {
	return Validate(r)
}
