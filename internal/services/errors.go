package services

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/markjakearzadon/rxmate-checkout/internal/apiclient"
)

var (
	// ErrNotFound is returned when a directory record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrCohortUnavailable marks a cohort that cannot be bought because it has no price.
	ErrCohortUnavailable = errors.New("cohort has no price")
)

// Category is the user-facing class of a failure.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryAuth       Category = "auth"
	CategoryNotFound   Category = "not_found"
	CategoryServer     Category = "server"
	CategoryNetwork    Category = "network"
	CategoryUnknown    Category = "unknown"
)

const (
	msgBadRequest        = "Bad request. Please check your input and try again."
	msgUnprocessable     = "Validation failed. Please check your details and try again."
	msgUnauthorized      = "Authentication failed. Please contact support."
	msgForbidden         = "Access denied. Please contact support."
	msgNotFound          = "Service not found. Please contact support."
	msgPaymentNotFound   = "No payment found for this reference."
	msgServer            = "Server error. Please try again in a few minutes."
	msgServerStatus      = "Server error (%d). Please try again."
	msgTimeout           = "Request timeout. Please check your internet connection and try again."
	msgNetwork           = "Network error. Unable to connect to the server. Please check your internet connection."
	msgUnexpectedShape   = "Unexpected response from the server. Please try again."
	msgUnknown           = "An unexpected error occurred. Please try again."
	msgUnreachable       = "Unable to connect to payment service. Please check your internet connection and try again."
	msgNoRedirectURL     = "Payment initialization failed - no authorization URL received"
	msgMissingPrice      = "Invalid cohort data - missing price information"
	msgInvalidCohort     = "Invalid cohort selection. Please refresh the page and try again."
	msgInvalidUniversity = "Please select a valid university."
	msgPhoneFormat       = "Invalid phone number format. Expected 13 characters (+233XXXXXXXXX), got %d. Please enter a valid Ghanaian phone number."
)

// ServiceError is a backend or transport failure translated into one message
// that can be shown to the user as is.
type ServiceError struct {
	Category Category
	// Status is the backend HTTP status, 0 when there was none.
	Status  int
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// ValidationError is raised before any network call when user input is
// incomplete or malformed. Fields names every offending input.
type ValidationError struct {
	Fields  []string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Describe maps any workflow failure onto a ServiceError using the structured
// status carried by the API client errors.
func Describe(err error) *ServiceError {
	if err == nil {
		return nil
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return &ServiceError{Category: CategoryValidation, Message: ve.Message, Err: err}
	}

	var he *apiclient.HTTPError
	if errors.As(err, &he) {
		return describeHTTP(err, he)
	}

	var ne *apiclient.NetworkError
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return &ServiceError{Category: CategoryNetwork, Message: msgTimeout, Err: err}
		}
		return &ServiceError{Category: CategoryNetwork, Message: msgNetwork, Err: err}
	}

	var dse *apiclient.DataShapeError
	if errors.As(err, &dse) {
		return &ServiceError{Category: CategoryServer, Message: msgUnexpectedShape, Err: err}
	}

	return &ServiceError{Category: CategoryUnknown, Message: msgUnknown, Err: err}
}

func describeHTTP(err error, he *apiclient.HTTPError) *ServiceError {
	se := &ServiceError{Status: he.Status, Err: err}
	switch {
	case he.Status == http.StatusBadRequest:
		se.Category = CategoryValidation
		se.Message = orDefault(he.BackendMessage(), msgBadRequest)
	case he.Status == http.StatusUnprocessableEntity:
		se.Category = CategoryValidation
		se.Message = orDefault(he.BackendMessage(), msgUnprocessable)
	case he.Status == http.StatusUnauthorized:
		se.Category = CategoryAuth
		se.Message = msgUnauthorized
	case he.Status == http.StatusForbidden:
		se.Category = CategoryAuth
		se.Message = msgForbidden
	case he.Status == http.StatusNotFound:
		se.Category = CategoryNotFound
		se.Message = msgNotFound
	case he.Status >= 500:
		se.Category = CategoryServer
		se.Message = msgServer
	default:
		se.Category = CategoryUnknown
		se.Message = fmt.Sprintf(msgServerStatus, he.Status)
	}
	return se
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct reports every missing field at once; malformed fields are
// only reported when nothing is missing.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %T: %w", s, err)
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: "Missing required form data: " + strings.Join(missing, ", ")}
	}
	return &ValidationError{Fields: invalid, Message: "Invalid form data: " + strings.Join(invalid, ", ")}
}
