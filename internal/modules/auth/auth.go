package auth

import "context"

// Operator access is a static gate: a fixed allow-list of operator ids with
// hashed PINs, loaded at startup. There is no self-service account flow.

// Service issues and verifies operator tokens.
type Service interface {
	// Login checks the operator id and PIN against the allow-list and
	// returns a signed token.
	Login(ctx context.Context, operatorID, pin string) (string, error)

	// Verify validates a token and returns the operator id it was issued to.
	Verify(token string) (string, error)
}

// LoginRequest is the payload for the login endpoint.
type LoginRequest struct {
	OperatorID string `json:"operator_id"`
	PIN        string `json:"pin"`
}
