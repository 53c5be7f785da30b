package types

// AuthResult is the structured outcome of a session store operation. Session
// operations never propagate errors to callers; every failure is folded into
// a result carrying a user-facing message, so rendering code needs no
// exception scaffolding.
type AuthResult struct {
	Success bool      `json:"success"`
	Kind    ErrorType `json:"kind,omitempty"`
	Message string    `json:"message,omitempty"`
}

// AuthSuccess returns a successful result
func AuthSuccess() AuthResult {
	return AuthResult{Success: true}
}

// AuthFailure returns a failed result with a user-facing message
func AuthFailure(kind ErrorType, message string) AuthResult {
	return AuthResult{Success: false, Kind: kind, Message: message}
}
