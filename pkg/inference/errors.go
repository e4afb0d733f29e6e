package inference

import (
	"errors"
	"fmt"
)

// RateLimitError means the inference service throttled the request. The
// condition is transient; the caller should suggest a retry.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("inference: rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// QuotaError means the account is out of credits. Fatal until the account is
// topped up; retrying will fail identically, so batch callers short-circuit.
type QuotaError struct {
	Err error
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("inference: quota or credits exhausted: %v", e.Err)
}

func (e *QuotaError) Unwrap() error { return e.Err }

// MalformedResponseError means the model reply did not match the expected
// structured schema. The raw payload is kept for diagnosis.
type MalformedResponseError struct {
	Reason  string
	Payload string
}

func (e *MalformedResponseError) Error() string {
	return "inference: malformed response: " + e.Reason
}

// IsRateLimited reports whether the error chain contains a RateLimitError.
func IsRateLimited(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// IsQuotaExhausted reports whether the error chain contains a QuotaError.
func IsQuotaExhausted(err error) bool {
	var qe *QuotaError
	return errors.As(err, &qe)
}

// IsMalformed reports whether the error chain contains a MalformedResponseError.
func IsMalformed(err error) bool {
	var mr *MalformedResponseError
	return errors.As(err, &mr)
}
