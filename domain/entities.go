package domain

import "time"

// Hospital roles accepted at registration.
const (
	RolePatient  = "Patient"
	RoleDoctor   = "Doctor"
	RoleStaff    = "Staff"
	RolePharmacy = "Pharmacy"
)

// OTPPurposeReset tags password-reset OTPs stored on user rows. A reset
// is only authorized when the stored purpose matches.
const OTPPurposeReset = "password_reset"

// ValidRoles lists the roles a registration may carry.
var ValidRoles = []string{RolePatient, RoleDoctor, RoleStaff, RolePharmacy}

// ValidDepartments lists the departments a Doctor registration may carry.
var ValidDepartments = []string{"Cardiology", "Neurology", "Pediatrics", "Orthopedics", "General OPD"}

// RolePrefixes maps a role to its user-code prefix (P0001, D1234, PH0456).
// Roles outside this map get no code.
var RolePrefixes = map[string]string{
	RolePatient:  "P",
	RoleDoctor:   "D",
	RoleStaff:    "S",
	RolePharmacy: "PH",
}

// User represents a provisioned account. UserCode is optional: the
// underlying schema may lack the column, in which case it stays empty.
// The otp_* fields belong to the password-reset flow only.
type User struct {
	ID             uint       `json:"id"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	Department     string     `json:"department,omitempty"`
	PasswordHash   string     `json:"-"`
	UserCode       string     `json:"user_code,omitempty"`
	OTPHash        string     `json:"-"`
	OTPExpiresAt   *time.Time `json:"-"`
	OTPPurpose     string     `json:"-"`
	OTPLastSentAt  *time.Time `json:"-"`
	OTPResendCount int        `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// PendingRegistration is an unconfirmed signup held in the pending
// store until OTP verification completes it. At most one entry exists
// per email; a new registration overwrites the prior one.
type PendingRegistration struct {
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Department   string    `json:"department,omitempty"`
	PasswordHash string    `json:"password_hash"`
	OTPHash      string    `json:"otp_hash"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the registration's OTP window has closed.
func (p *PendingRegistration) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// RegistrationResult is the outcome of a completed registration.
// EmailStatus reports best-effort delivery of the account email:
// "sent", "failed" or "skipped" (mail not configured). Note is set when
// a code was generated but could not be persisted.
type RegistrationResult struct {
	User          *User
	EmailStatus   string
	GeneratedCode string
	Note          string
}

// AuthResult is the outcome of a successful login.
type AuthResult struct {
	User  *User
	Token string
}

// TokenClaims is the verified content of a session token.
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FullName  string `json:"full_name"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// RoleValid reports whether role is one of the accepted hospital roles.
func RoleValid(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// DepartmentValid reports whether department is an accepted department.
func DepartmentValid(department string) bool {
	for _, d := range ValidDepartments {
		if d == department {
			return true
		}
	}
	return false
}
