package storedb

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
)

// ErrorKind classifies a store database failure. The classification is part
// of the contract: each kind maps to a distinct remediation shown to staff.
type ErrorKind string

const (
	KindTimeout              ErrorKind = "timeout"
	KindNetworkUnreachable   ErrorKind = "network_unreachable"
	KindAuthenticationFailed ErrorKind = "authentication_failed"
	KindOperational          ErrorKind = "operational"
	KindUnexpected           ErrorKind = "unexpected"
)

// StoreError wraps a failure against one store's database with its kind.
type StoreError struct {
	Store string
	Kind  ErrorKind
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %s: %v", e.Store, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Retryable reports whether retrying the operation can help. Credential
// rejections fail the same way every time.
func (e *StoreError) Retryable() bool {
	return e.Kind != KindAuthenticationFailed
}

// Remediation is the user-facing next step for this failure. Messages name
// the store and a concrete action rather than a generic error.
func (e *StoreError) Remediation() string {
	switch e.Kind {
	case KindTimeout, KindNetworkUnreachable:
		return fmt.Sprintf(
			"Store %s is unreachable. Verify the store code is correct, that server SRV_%s is online, and that the store network has connectivity.",
			e.Store, e.Store)
	case KindAuthenticationFailed:
		return fmt.Sprintf(
			"Credentials were rejected by store %s. Contact the system administrator.", e.Store)
	case KindOperational:
		return fmt.Sprintf(
			"Store %s reported a database error: %v. Contact the service desk with this detail.", e.Store, e.Err)
	default:
		return fmt.Sprintf(
			"Unexpected error talking to store %s. Contact technical support.", e.Store)
	}
}

// Login-failure error numbers reported by SQL Server.
const (
	sqlErrLoginFailed        = 18456
	sqlErrLoginFailedOpenErr = 18452
)

// Classify maps a raw driver/network error onto the error taxonomy. An error
// that is already a *StoreError passes through unchanged.
func Classify(storeCode string, err error) *StoreError {
	var se *StoreError
	if errors.As(err, &se) {
		return se
	}

	wrap := func(kind ErrorKind) *StoreError {
		return &StoreError{Store: storeCode, Kind: kind, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return wrap(KindTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return wrap(KindTimeout)
		}
		return wrap(KindNetworkUnreachable)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return wrap(KindNetworkUnreachable)
	}

	var sqlErr mssql.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.SQLErrorNumber() {
		case sqlErrLoginFailed, sqlErrLoginFailedOpenErr:
			return wrap(KindAuthenticationFailed)
		}
		return wrap(KindOperational)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "login"):
		return wrap(KindAuthenticationFailed)
	case strings.Contains(msg, "network") || strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "connection refused"):
		return wrap(KindNetworkUnreachable)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return wrap(KindTimeout)
	}
	return wrap(KindUnexpected)
}
