package services

import "context"

// TokenSvc validates operator credentials and issues session tokens. The
// core never consumes the identity itself; it only feeds the ambient caller
// identity the handlers attach to the request context.
type TokenSvc interface {
	// Authenticate checks the operator's credentials and returns a signed
	// JWT on success.
	Authenticate(ctx context.Context, username, password string) (string, error)
}
