package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims identify the student a dashboard request acts for.
type SessionClaims struct {
	StudentID string `json:"student_id"`
	Role      string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
