package epc

import (
	"errors"
	"fmt"
)

// Validation error codes. Each failure mode in Encode maps to exactly one
// code so callers can surface them as distinct user input errors.
const (
	ErrCodeUnsupportedVersion  = "UNSUPPORTED_VERSION"
	ErrCodeUnsupportedEncoding = "UNSUPPORTED_ENCODING"
	ErrCodeMissingIBAN         = "MISSING_IBAN"
	ErrCodeInvalidIBAN         = "INVALID_IBAN"
	ErrCodeMissingName         = "MISSING_NAME"
	ErrCodeInvalidBIC          = "INVALID_BIC"
	ErrCodeBICIBANMismatch     = "BIC_IBAN_MISMATCH"
	ErrCodeMissingRequiredBIC  = "MISSING_REQUIRED_BIC"
	ErrCodeAmountOutOfRange    = "AMOUNT_OUT_OF_RANGE"
	ErrCodeExclusiveRemittance = "MUTUALLY_EXCLUSIVE_REMITTANCE"
	ErrCodePayloadTooLarge     = "PAYLOAD_TOO_LARGE"
)

// Error is a payload validation error.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func wrapError(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// ErrorCode extracts the code from an encode error, or "" for unrelated
// errors.
func ErrorCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
