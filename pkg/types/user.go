package types

import (
	"strings"
	"time"
)

// Role represents the different user roles in the portal
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// NormalizeRole lowercases a backend-supplied role string. The backend is
// expected to return lowercase roles, but older deployments stored them
// uppercase.
func NormalizeRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// Valid reports whether the role is one of the recognized portal roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// User represents a portal user as returned by the auth backend
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Role             Role      `json:"role"`
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	DateOfBirth      string    `json:"dateOfBirth,omitempty"`
	Specialization   string    `json:"specialization,omitempty"`
	LicenseNumber    string    `json:"licenseNumber,omitempty"`
	BloodGroup       string    `json:"bloodGroup,omitempty"`
	EmergencyContact string    `json:"emergencyContact,omitempty"`
	CreatedAt        time.Time `json:"createdAt,omitempty"`
}

// Session is the in-memory representation of the authenticated user. It is
// owned by the session store; consumers receive copies.
type Session struct {
	UserID           string
	DisplayName      string
	Email            string
	Role             Role
	Specialization   string
	LicenseNumber    string
	BloodGroup       string
	EmergencyContact string
	CreatedAt        time.Time
}

// NewSession builds a session from a backend user payload. The role always
// comes from the backend response, never from the login request.
func NewSession(user *User) *Session {
	return &Session{
		UserID:           user.ID,
		DisplayName:      user.Name,
		Email:            user.Email,
		Role:             NormalizeRole(string(user.Role)),
		Specialization:   user.Specialization,
		LicenseNumber:    user.LicenseNumber,
		BloodGroup:       user.BloodGroup,
		EmergencyContact: user.EmergencyContact,
		CreatedAt:        time.Now(),
	}
}

// LoginRequest represents the login payload sent to the auth backend
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// RegisterRequest represents the role-tagged registration payload. Doctor
// payloads carry specialization and license number; patient payloads carry
// blood group and emergency contact.
type RegisterRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Role             Role   `json:"role"`
	Phone            string `json:"phone,omitempty"`
	Address          string `json:"address,omitempty"`
	DateOfBirth      string `json:"dateOfBirth,omitempty"`
	Specialization   string `json:"specialization,omitempty"`
	LicenseNumber    string `json:"licenseNumber,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
	BloodGroup       string `json:"bloodGroup,omitempty"`
}

// LoginResponse represents a successful login response body
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ValidateResponse represents a successful credential validation body
type ValidateResponse struct {
	Valid bool `json:"valid"`
	User  User `json:"user"`
}
