// Package forms implements client-side validation for the login and
// registration forms. Errors are returned per field and rendered inline;
// they never reach the notification queue.
package forms

import (
	"regexp"
	"strings"

	"pro_market/internal/core"
)

var (
	emailPattern    = regexp.MustCompile(`\S+@\S+\.\S+`)
	nonDigitPattern = regexp.MustCompile(`\D`)
)

const minPasswordLength = 6

// Errors maps field name to the message shown next to it
type Errors map[string]string

// Valid reports whether no field failed
func (e Errors) Valid() bool {
	return len(e) == 0
}

// LoginForm is the login page input
type LoginForm struct {
	Email    string
	Password string
}

// Validate checks the login form locally, without a network round trip
func (f LoginForm) Validate() Errors {
	errs := Errors{}

	if strings.TrimSpace(f.Email) == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(f.Email) {
		errs["email"] = "Invalid email format"
	}

	if f.Password == "" {
		errs["password"] = "Password is required"
	}

	return errs
}

// RegisterForm is the registration page input
type RegisterForm struct {
	Name     string
	Email    string
	Password string
	Role     string // "client" or "pro"
	Phone    string
	Location string
	Skill    string
}

// Validate checks the registration form locally. Professionals additionally
// need a reachable phone number (9-12 digits) and a primary skill.
func (f RegisterForm) Validate() Errors {
	errs := Errors{}

	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Name is required"
	}

	if strings.TrimSpace(f.Email) == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(f.Email) {
		errs["email"] = "Invalid email format"
	}

	if f.Password == "" {
		errs["password"] = "Password is required"
	} else if len(f.Password) < minPasswordLength {
		errs["password"] = "Password must be at least 6 characters"
	}

	if f.Role != "client" && f.Role != "pro" {
		errs["role"] = "Role must be client or pro"
	}

	if f.Role == "pro" {
		if strings.TrimSpace(f.Phone) == "" {
			errs["phone"] = "Phone number is required for professionals"
		} else {
			digits := nonDigitPattern.ReplaceAllString(f.Phone, "")
			if len(digits) < 9 || len(digits) > 12 {
				errs["phone"] = "Phone number must be 9-12 digits"
			}
		}
		if strings.TrimSpace(f.Skill) == "" {
			errs["skill"] = "Skill is required for professionals"
		}
	}

	return errs
}

// Registration converts a validated form into the register payload
func (f RegisterForm) Registration() core.Registration {
	reg := core.Registration{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		Role:     f.Role,
		Location: strings.TrimSpace(f.Location),
	}
	if f.Role == "pro" {
		reg.Phone = nonDigitPattern.ReplaceAllString(f.Phone, "")
		reg.Skills = []string{strings.TrimSpace(f.Skill)}
	}
	return reg
}
