package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCode(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"K100", true},
		{"K002", true},
		{"K9999", true},
		{"K10", false},   // too short
		{"X100", false},  // wrong prefix
		{"K10a", false},  // non-digit suffix
		{"", false},
		{"100", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, ValidateCode(tt.code), "code %q", tt.code)
	}
}

func TestResolveDatabaseEndpoint(t *testing.T) {
	ep := ResolveDatabaseEndpoint("K100")
	assert.Equal(t, "SRV_K100", ep.Server)
	assert.Equal(t, "MAXPOINT_K100", ep.Database)

	// The code is appended verbatim, leading zeros included.
	ep = ResolveDatabaseEndpoint("K002")
	assert.Equal(t, "SRV_K002", ep.Server)
	assert.Equal(t, "MAXPOINT_K002", ep.Database)
}

func TestResolveNetworkAddress(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"K080", "10.101.80.20"},  // leading zero dropped
		{"K002", "10.101.2.20"},
		{"K100", "10.101.100.20"},
		{"K000", "10.101.0.20"},
		{"KXYZ", "10.101.0.20"},   // no digits defaults to 0
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveNetworkAddress(tt.code), "code %q", tt.code)
	}
}
