package storedb

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"deadline exceeded", context.DeadlineExceeded, KindTimeout},
		{"net timeout", timeoutErr{}, KindTimeout},
		{"connection refused", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, KindNetworkUnreachable},
		{"login failed", mssql.Error{Number: 18456, Message: "Login failed for user"}, KindAuthenticationFailed},
		{"backend fault", mssql.Error{Number: 208, Message: "Invalid object name"}, KindOperational},
		{"login text fallback", errors.New("login error: cannot authenticate"), KindAuthenticationFailed},
		{"host fallback", errors.New("lookup SRV_K100: no such host"), KindNetworkUnreachable},
		{"anything else", errors.New("boom"), KindUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := Classify("K100", tt.err)
			assert.Equal(t, tt.want, se.Kind)
			assert.Equal(t, "K100", se.Store)
		})
	}
}

func TestClassifyPassesThroughStoreError(t *testing.T) {
	orig := &StoreError{Store: "K080", Kind: KindTimeout, Err: context.DeadlineExceeded}
	wrapped := fmt.Errorf("query failed: %w", orig)
	assert.Same(t, orig, Classify("K100", wrapped))
}

func TestRetryable(t *testing.T) {
	assert.False(t, (&StoreError{Kind: KindAuthenticationFailed}).Retryable())
	assert.True(t, (&StoreError{Kind: KindTimeout}).Retryable())
	assert.True(t, (&StoreError{Kind: KindNetworkUnreachable}).Retryable())
	assert.True(t, (&StoreError{Kind: KindOperational}).Retryable())
}

func TestRemediationNamesStore(t *testing.T) {
	se := &StoreError{Store: "K080", Kind: KindNetworkUnreachable, Err: errors.New("refused")}
	assert.Contains(t, se.Remediation(), "K080")
	assert.Contains(t, se.Remediation(), "SRV_K080")

	se = &StoreError{Store: "K080", Kind: KindAuthenticationFailed, Err: errors.New("login")}
	assert.Contains(t, se.Remediation(), "administrator")
}

var _ net.Error = timeoutErr{}
