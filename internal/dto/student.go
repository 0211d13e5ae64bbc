package dto

import "github.com/noah-isme/programme-match-api/internal/models"

// SignInRequest carries student credentials to the student service.
type SignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignInResponse is the student service reply to a sign-in.
type SignInResponse struct {
	Success  bool                    `json:"success"`
	Student  models.Student          `json:"student"`
	Subjects []models.StudentSubject `json:"subjects"`
	Error    string                  `json:"error,omitempty"`
}

// RegisterRequest creates a student account with the subjects sat.
type RegisterRequest struct {
	Username string                  `json:"username" validate:"required"`
	Email    string                  `json:"email" validate:"required,email"`
	FullName string                  `json:"full_name" validate:"required"`
	Password string                  `json:"password" validate:"required,min=6"`
	Subjects []models.StudentSubject `json:"subjects" validate:"required,min=1"`
}

// RegisterResponse returns the id assigned to a new student.
type RegisterResponse struct {
	Success   bool      `json:"success"`
	StudentID models.ID `json:"student_id"`
	Error     string    `json:"error,omitempty"`
}

// UpdateProfileRequest edits the mutable profile fields.
type UpdateProfileRequest struct {
	StudentID string `json:"student_id"`
	FullName  string `json:"full_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

// UpdateProfileResponse returns the profile after the update.
type UpdateProfileResponse struct {
	Success bool           `json:"success"`
	User    models.Student `json:"user"`
	Error   string         `json:"error,omitempty"`
}

// SessionResponse is handed to the browser after sign-in.
type SessionResponse struct {
	Token     string                  `json:"token"`
	ExpiresIn int64                   `json:"expires_in"`
	Student   models.Student          `json:"student"`
	Subjects  []models.StudentSubject `json:"subjects"`
}
