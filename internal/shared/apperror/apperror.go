package apperror

import (
	"errors"
	"fmt"
)

// Validation codes
const (
	CodeEmptySeats        = "EMPTY_SEATS"
	CodeMissingStop       = "MISSING_STOP"
	CodeIdenticalStops    = "IDENTICAL_STOPS"
	CodeUnknownStop       = "UNKNOWN_STOP"
	CodeIncomplete        = "INCOMPLETE"
	CodeCountMismatch     = "COUNT_MISMATCH"
	CodeInvalidAge        = "INVALID_AGE"
	CodeInvalidGender     = "INVALID_GENDER"
	CodePassengerLimit    = "PASSENGER_LIMIT"
	CodePassengerRequired = "PASSENGER_REQUIRED"
	CodeInvalidCard       = "INVALID_CARD"
	CodeSeatUnavailable   = "SEAT_UNAVAILABLE"
	CodeEmptySeatMap      = "EMPTY_SEAT_MAP"
)

// Submission codes
const (
	CodePaymentDeclined = "PAYMENT_DECLINED"
	CodeBookingFailed   = "BOOKING_FAILED"
)

// ValidationError is a user-correctable problem with the current stage input.
type ValidationError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidation(code, field, message string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: message}
}

// UpstreamError wraps a failed fetch from an inventory collaborator.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func NewUpstream(op string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Err: err}
}

// SubmissionError is a payment or persistence failure. Retrying the same stage is allowed.
type SubmissionError struct {
	Code string
	Err  error
}

func (e *SubmissionError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

func NewSubmission(code string, err error) *SubmissionError {
	return &SubmissionError{Code: code, Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsUpstream(err error) bool {
	var u *UpstreamError
	return errors.As(err, &u)
}

func IsSubmission(err error) bool {
	var s *SubmissionError
	return errors.As(err, &s)
}

// CodeOf returns the machine-readable code carried by err, or "" when it has none.
// Submission codes win over any validation error they wrap.
func CodeOf(err error) string {
	var s *SubmissionError
	if errors.As(err, &s) {
		return s.Code
	}
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Code
	}
	var u *UpstreamError
	if errors.As(err, &u) {
		return "UPSTREAM_" + u.Op
	}
	return ""
}
