package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/medvault/portal/internal/credstore"
	"github.com/medvault/portal/internal/token"
	"github.com/medvault/portal/pkg/config"
	"github.com/medvault/portal/pkg/logger"
	"github.com/medvault/portal/pkg/types"
)

// State represents the session store lifecycle state
type State int

const (
	StateUninitialized State = iota
	StateValidating
	StateAuthenticated
	StateAnonymous
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateValidating:
		return "validating"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// User-facing failure messages
const (
	msgInvalidCredentials = "Invalid credentials. Please try again."
	msgLoginNetworkError  = "Network error. Please check your connection."
	msgRegistrationFailed = "Registration failed"
	msgRegisterNetwork    = "Network error"
	msgInvalidResponse    = "Unexpected response from server."
)

// Store is the single source of truth for the authenticated user and the only
// component permitted to mutate the persisted credential. All operations
// return structured results; no error crosses this boundary unhandled.
type Store struct {
	mu      sync.Mutex
	state   State
	session *types.Session

	// opMu serializes credential-mutating operations so a late Initialize
	// and an explicit Login cannot clobber each other's outcome. Writes are
	// strictly ordered by completion.
	opMu sync.Mutex

	client    *http.Client
	baseURL   string
	creds     *credstore.Store
	inspector *token.Inspector
	logger    *logger.Logger
}

// NewStore creates a new session store
func NewStore(cfg *config.APIConfig, creds *credstore.Store, inspector *token.Inspector, log *logger.Logger) *Store {
	return &Store{
		state:   StateUninitialized,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		creds:     creds,
		inspector: inspector,
		logger:    log,
	}
}

// State returns the current lifecycle state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Loading reports whether the store has not yet settled into an
// authenticated or anonymous state. Consumers must not trust session fields
// while Loading is true.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateUninitialized || s.state == StateValidating
}

// Session returns a copy of the active session. The second return value is
// false while anonymous or still validating; no partial session is ever
// observable.
func (s *Store) Session() (types.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthenticated || s.session == nil {
		return types.Session{}, false
	}
	return *s.session, true
}

// Initialize restores a session from the persisted credential, if any. A
// locally expired or malformed credential is purged without a network call;
// otherwise the credential is confirmed remotely. Remote rejection and
// transport failure are both treated as "cannot trust this credential".
// Calling Initialize on an already initialized store returns the current
// state without issuing new work.
func (s *Store) Initialize(ctx context.Context) State {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.state != StateUninitialized {
		state := s.state
		s.mu.Unlock()
		return state
	}
	s.state = StateValidating
	s.mu.Unlock()

	credential, err := s.creds.Load()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read persisted credential")
		s.purgeToAnonymous()
		return StateAnonymous
	}

	if credential == "" {
		s.setAnonymous()
		return StateAnonymous
	}

	// Local inspection before trusting the credential with the network
	if err := s.inspector.Check(credential); err != nil {
		s.logger.WithError(err).Debug("Stored credential failed local inspection")
		s.purgeToAnonymous()
		return StateAnonymous
	}

	user, ok := s.validateRemote(ctx, credential)
	if !ok {
		s.purgeToAnonymous()
		return StateAnonymous
	}

	session := types.NewSession(user)
	s.setAuthenticated(session)
	s.logger.Session("validated", session.UserID, map[string]interface{}{
		"role": string(session.Role),
	})
	return StateAuthenticated
}

// Login authenticates against the remote backend. On failure nothing is
// mutated, so a retry starts from the same state.
func (s *Store) Login(ctx context.Context, email, password string, role types.Role) types.AuthResult {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	body, err := json.Marshal(types.LoginRequest{
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		return types.AuthFailure(types.ErrorTypeInternal, msgInvalidCredentials)
	}

	resp, err := s.postJSON(ctx, "/api/auth/login", body)
	if err != nil {
		s.logger.WithError(err).Warn("Login request failed")
		return types.AuthFailure(types.ErrorTypeNetwork, msgLoginNetworkError)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		message := failureMessage(respBody, msgInvalidCredentials)
		s.logger.Auth("login", email, false, map[string]interface{}{
			"status_code": resp.StatusCode,
		})
		return types.AuthFailure(types.ErrorTypeAuthentication, message)
	}

	var loginResp types.LoginResponse
	if err := json.Unmarshal(respBody, &loginResp); err != nil || loginResp.Token == "" {
		s.logger.WithError(err).Error("Malformed login response body")
		return types.AuthFailure(types.ErrorTypeInternal, msgInvalidResponse)
	}

	if err := s.creds.Save(loginResp.Token); err != nil {
		// Session stays valid in memory; restore on restart will not work
		s.logger.WithError(err).Warn("Failed to persist credential")
	}

	session := types.NewSession(&loginResp.User)
	s.setAuthenticated(session)
	s.logger.Auth("login", email, true, map[string]interface{}{
		"user_id": session.UserID,
		"role":    string(session.Role),
	})
	return types.AuthSuccess()
}

// Register submits a role-tagged registration. It never authenticates the
// caller; a successful registration is followed by an explicit Login.
func (s *Store) Register(ctx context.Context, req *types.RegisterRequest) types.AuthResult {
	body, err := json.Marshal(req)
	if err != nil {
		return types.AuthFailure(types.ErrorTypeInternal, msgRegistrationFailed)
	}

	resp, err := s.postJSON(ctx, "/api/auth/register", body)
	if err != nil {
		s.logger.WithError(err).Warn("Register request failed")
		return types.AuthFailure(types.ErrorTypeNetwork, msgRegisterNetwork)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		message := failureMessage(respBody, msgRegistrationFailed)
		s.logger.Auth("register", req.Email, false, map[string]interface{}{
			"status_code": resp.StatusCode,
		})
		return types.AuthFailure(types.ErrorTypeValidation, message)
	}

	s.logger.Auth("register", req.Email, true, nil)
	return types.AuthSuccess()
}

// Logout clears the session and purges the credential. Safe to call with no
// active session.
func (s *Store) Logout() {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	userID := ""
	if s.session != nil {
		userID = s.session.UserID
	}
	s.session = nil
	s.state = StateAnonymous
	s.mu.Unlock()

	if err := s.creds.Clear(); err != nil {
		s.logger.WithError(err).Warn("Failed to purge credential on logout")
	}

	if userID != "" {
		s.logger.Session("logout", userID, nil)
	}
}

// validateRemote confirms the credential with the backend. Any non-200
// response or transport error yields false.
func (s *Store) validateRemote(ctx context.Context, credential string) (*types.User, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/auth/validate", nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WithError(err).Warn("Credential validation request failed")
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}

	var validateResp types.ValidateResponse
	if err := json.NewDecoder(resp.Body).Decode(&validateResp); err != nil {
		s.logger.WithError(err).Warn("Malformed validation response body")
		return nil, false
	}

	return &validateResp.User, true
}

func (s *Store) postJSON(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return s.client.Do(req)
}

func (s *Store) setAuthenticated(session *types.Session) {
	s.mu.Lock()
	s.session = session
	s.state = StateAuthenticated
	s.mu.Unlock()
}

func (s *Store) setAnonymous() {
	s.mu.Lock()
	s.session = nil
	s.state = StateAnonymous
	s.mu.Unlock()
}

func (s *Store) purgeToAnonymous() {
	if err := s.creds.Clear(); err != nil {
		s.logger.WithError(err).Warn("Failed to purge credential")
	}
	s.setAnonymous()
}

// failureMessage extracts a human-readable message from an error response
// body: a structured {message} JSON body first, then a plain-text body, then
// the fallback. Callers never re-implement this body sniffing.
func failureMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}

	return fallback
}
