package store

import (
	"fmt"
	"strconv"
	"strings"
)

// Every store runs two independent networks: the database tier, reached by
// named SQL Server instances ("SRV_<code>"), and the store-local web/print
// tier, reached by fixed 10.101.X.20 addressing. The two derivation rules
// are separate contracts and must not be unified.

const (
	codePrefix     = "K"
	minCodeLength  = 4
	serverPrefix   = "SRV_"
	databasePrefix = "MAXPOINT_"

	networkTemplate = "10.101.%d.20"
)

// DatabaseEndpoint names the SQL Server instance and database for one store.
type DatabaseEndpoint struct {
	Server   string
	Database string
}

// ValidateCode reports whether code is a well-formed store identifier:
// the fixed prefix followed by digits, at least four characters total.
func ValidateCode(code string) bool {
	if !strings.HasPrefix(code, codePrefix) || len(code) < minCodeLength {
		return false
	}
	for _, r := range code[len(codePrefix):] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ResolveDatabaseEndpoint derives the database-tier endpoint for a store.
// The store code is appended verbatim to both the server and database names.
func ResolveDatabaseEndpoint(code string) DatabaseEndpoint {
	return DatabaseEndpoint{
		Server:   serverPrefix + code,
		Database: databasePrefix + code,
	}
}

// ResolveNetworkAddress derives the store-local web/print tier address.
// The digit run of the code becomes the third octet with leading zeros
// dropped (K002 -> 10.101.2.20, K100 -> 10.101.100.20). A code without
// digits resolves to octet 0.
func ResolveNetworkAddress(code string) string {
	var digits strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	n := 0
	if digits.Len() > 0 {
		n, _ = strconv.Atoi(digits.String())
	}
	return fmt.Sprintf(networkTemplate, n)
}
