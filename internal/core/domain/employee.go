package domain

import (
	"strings"
	"time"
)

// Role is the coarse permission label carried in every token.
type Role string

const (
	RoleEmployee Role = "ROLE_EMPLOYEE"
	RoleAdmin    Role = "ROLE_ADMIN"
)

// ParseRole accepts both the wire form (ROLE_ADMIN) and the short form (ADMIN).
func ParseRole(s string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ROLE_ADMIN", "ADMIN":
		return RoleAdmin, true
	case "ROLE_EMPLOYEE", "EMPLOYEE":
		return RoleEmployee, true
	}
	return "", false
}

// Employee models an identity that can log in and own time entries.
// Optional numeric fields are nil when absent; callers must not treat nil as zero.
type Employee struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	CPF            string    `json:"cpf"`
	Role           Role      `json:"role"`
	CompanyID      int64     `json:"company_id"`
	HourlyRate     *float64  `json:"hourly_rate,omitempty"`
	DailyWorkHours *float32  `json:"daily_work_hours,omitempty"`
	LunchHours     *float32  `json:"lunch_hours,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
