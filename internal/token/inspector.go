package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Inspection errors returned by Check
var (
	ErrMalformed = errors.New("credential is malformed")
	ErrExpired   = errors.New("credential is expired")
)

// Inspector performs local, advisory checks on a stored credential before any
// network call. The portal holds no signing secret, so the payload is decoded
// without signature verification; a passing check is provisional and never
// substitutes for remote validation. It only short-circuits tokens already
// known to be unusable.
type Inspector struct {
	parser *jwt.Parser
	now    func() time.Time
}

// NewInspector creates a new credential inspector
func NewInspector() *Inspector {
	return &Inspector{
		parser: jwt.NewParser(),
		now:    time.Now,
	}
}

// Check decodes the credential payload and checks its embedded expiry.
// Returns ErrMalformed when the payload cannot be decoded, ErrExpired when
// the expiry timestamp is at or before the current time, and nil when the
// credential is provisionally valid.
func (i *Inspector) Check(credential string) error {
	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(credential, claims); err != nil {
		return ErrMalformed
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return ErrMalformed
	}

	// A token without an expiry claim is left for the backend to judge
	if exp != nil && !exp.Time.After(i.now()) {
		return ErrExpired
	}

	return nil
}
