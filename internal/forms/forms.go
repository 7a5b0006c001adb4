// Package forms validates the login, registration and nurse contact forms.
package forms

import (
	"regexp"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ShayCichocki/breathcheck/internal/content"
)

// Field names used as FieldErrors keys.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldStudyID  = "study_id"
	FieldMethod   = "method"
	FieldUrgency  = "urgency"
	FieldReason   = "reason"
)

// MinPasswordLength is the shortest password registration accepts.
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// FieldErrors maps a field name to the message shown under it.
type FieldErrors map[string]string

// Err returns nil when there are no errors, otherwise a *ValidationError.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return &ValidationError{Fields: fe}
}

// ValidationError is returned when a form has one or more invalid fields.
type ValidationError struct {
	Fields FieldErrors
}

// Error lists the field messages in field-name order.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, k+": "+e.Fields[k])
	}
	return "invalid form: " + strings.Join(msgs, "; ")
}

// ValidateLogin only checks that both fields are filled in.
func ValidateLogin(email, password string) FieldErrors {
	errs := FieldErrors{}
	if email == "" {
		errs[FieldEmail] = "Email is required"
	}
	if password == "" {
		errs[FieldPassword] = "Password is required"
	}
	return errs
}

// Registration is the sign-up form.
type Registration struct {
	Username string
	Email    string
	Password string
	StudyID  string
}

// ValidateRegistration checks required fields, email shape and password length.
func ValidateRegistration(r Registration) FieldErrors {
	errs := FieldErrors{}
	if r.Username == "" {
		errs[FieldUsername] = "Username is required"
	}
	if r.Email == "" {
		errs[FieldEmail] = "Email is required"
	} else if !emailPattern.MatchString(r.Email) {
		errs[FieldEmail] = "Please enter a valid email address"
	}
	if r.Password == "" {
		errs[FieldPassword] = "Password is required"
	} else if utf8.RuneCountInString(r.Password) < MinPasswordLength {
		errs[FieldPassword] = "Password must be at least 8 characters"
	}
	if r.StudyID == "" {
		errs[FieldStudyID] = "Study ID is required"
	}
	return errs
}

// ContactRequest is the "Contact Your COPD Nurse" form.
type ContactRequest struct {
	Method  string
	Urgency string
	Reason  string
	Message string
}

// Normalize fills in the default urgency.
func (c ContactRequest) Normalize() ContactRequest {
	if c.Urgency == "" {
		c.Urgency = content.DefaultUrgency
	}
	return c
}

// ValidateContactRequest checks the dropdown selections against the known
// options. Urgency falls back to the default when empty.
func ValidateContactRequest(c ContactRequest) FieldErrors {
	c = c.Normalize()
	errs := FieldErrors{}
	switch {
	case c.Method == "":
		errs[FieldMethod] = "Please choose how you would like to be contacted"
	case !slices.Contains(content.ContactMethods, c.Method):
		errs[FieldMethod] = "Unknown contact method"
	}
	if !slices.Contains(content.UrgencyLevels, c.Urgency) {
		errs[FieldUrgency] = "Unknown urgency level"
	}
	switch {
	case c.Reason == "":
		errs[FieldReason] = "Please choose a reason for contact"
	case !slices.Contains(content.ContactReasons, c.Reason):
		errs[FieldReason] = "Unknown reason for contact"
	}
	return errs
}
