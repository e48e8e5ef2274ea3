package bizerror

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("record not found")

	// ErrUnknownAttributePath is raised when a partial update addresses a path
	// that does not resolve to a declared attribute in the schema chain.
	ErrUnknownAttributePath = errors.New("unknown attribute path")

	// closed error set reported by the process engine adapter
	ErrMissingTask        = errors.New("task not found in process engine")
	ErrMissingTransaction = errors.New("transaction not found in process engine")
	ErrProvidedData       = errors.New("provided data rejected by process engine")

	ErrUserVerification = errors.New("Could not verify user existence")

	ErrTooManyRequests = errors.New("too many requests")
)

type BizError interface {
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string

	Data  interface{}
	Cause error
}

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}
func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}
func (e *ErrBadParam) Respond() *BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message, Data: nil}
}

// FormValidationError carries one item per violated form rule. These are
// user-correctable and must surface with the raw item list.
type FormValidationError struct {
	Items []FormValidationItem
}

type FormValidationItem struct {
	ErrorName string `json:"errorName"`
	Field     string `json:"field,omitempty"`
}

func (e *FormValidationError) Error() string {
	return "form validation failed"
}
func (e *FormValidationError) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "form.validation_failed",
		Message: "form validation failed", Data: e.Items}
}
