// Package validation holds the input format rules applied before any store access.
package validation

import (
	"fmt"

	"account/internal/domain/entity"
	domainerrors "account/internal/domain/errors"
	"account/internal/errors"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultMinPasswordLength is also the floor for a configured minimum.
	DefaultMinPasswordLength = 6
	// DefaultMaxPasswordLength is the bcrypt input limit in bytes.
	DefaultMaxPasswordLength = 72
)

// CredentialRule checks the format of an email/password pair.
// It is a pure predicate with no side effects.
type CredentialRule struct {
	validate  *validator.Validate
	minLength int
	maxLength int
}

// NewCredentialRule creates a rule with the given password bounds.
// A minimum below the default and a non-positive maximum fall back to the defaults.
func NewCredentialRule(minLength, maxLength int) *CredentialRule {
	if minLength < DefaultMinPasswordLength {
		minLength = DefaultMinPasswordLength
	}
	if maxLength <= 0 || maxLength > DefaultMaxPasswordLength {
		maxLength = DefaultMaxPasswordLength
	}
	if maxLength < minLength {
		maxLength = minLength
	}

	return &CredentialRule{
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		minLength: minLength,
		maxLength: maxLength,
	}
}

// MinLength returns the effective minimum password length in characters.
func (r *CredentialRule) MinLength() int {
	return r.minLength
}

// MaxLength returns the effective maximum password length in bytes.
func (r *CredentialRule) MaxLength() int {
	return r.maxLength
}

// Validate reports every field that violates the rule as a *errors.ValidationError.
func (r *CredentialRule) Validate(creds entity.Credentials) error {
	var violations []domainerrors.FieldViolation

	if v, ok := r.check("email", creds.Email, "required,email"); !ok {
		violations = append(violations, v)
	}

	if v, ok := r.check("password", creds.Password, fmt.Sprintf("required,min=%d", r.minLength)); !ok {
		violations = append(violations, v)
	} else if len(creds.Password) > r.maxLength {
		violations = append(violations, domainerrors.FieldViolation{
			Field:   "password",
			Rule:    "max",
			Message: fmt.Sprintf("password must be at most %d bytes", r.maxLength),
		})
	}

	if len(violations) > 0 {
		return errors.WithStack(domainerrors.NewValidationError(violations...))
	}

	return nil
}

func (r *CredentialRule) check(field, value, tags string) (domainerrors.FieldViolation, bool) {
	err := r.validate.Var(value, tags)
	if err == nil {
		return domainerrors.FieldViolation{}, true
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domainerrors.FieldViolation{Field: field, Rule: "invalid", Message: field + " is invalid"}, false
	}

	fe := fieldErrs[0]

	return domainerrors.FieldViolation{
		Field:   field,
		Rule:    fe.Tag(),
		Message: messageFor(field, fe),
	}, false
}

func messageFor(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
