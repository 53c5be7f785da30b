package stubserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/medvault/portal/pkg/logger"
	"github.com/medvault/portal/pkg/monitoring"
	"github.com/medvault/portal/pkg/types"
)

// Config holds the stub server configuration
type Config struct {
	Addr         string
	JWTSecret    string
	TokenTTL     time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server implements the development auth backend. It serves the same HTTP
// contract the production backend exposes so the portal can run against it
// unchanged.
type Server struct {
	router    *mux.Router
	server    *http.Server
	registry  Registry
	tokens    *TokenIssuer
	metrics   *monitoring.MetricsCollector
	logger    *logger.Logger
	startTime time.Time
}

// NewServer creates a new stub auth server
func NewServer(cfg *Config, registry Registry, log *logger.Logger) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		registry:  registry,
		tokens:    NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		metrics:   monitoring.NewMetricsCollector("stub-auth"),
		logger:    log,
		startTime: time.Now(),
	}

	s.setupRoutes()
	s.setupMiddleware()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// Handler returns the router, useful for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the stub auth server
func (s *Server) Start() error {
	s.logger.WithField("addr", s.server.Addr).Info("Starting stub auth server")
	return s.server.ListenAndServe()
}

// Stop stops the stub auth server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Stopping stub auth server")
	return s.server.Shutdown(ctx)
}

// setupRoutes sets up the routing
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/auth/login", s.handleLogin).Methods("POST")
	s.router.HandleFunc("/api/auth/register", s.handleRegister).Methods("POST")
	s.router.HandleFunc("/api/auth/validate", s.handleValidate).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
}

// setupMiddleware sets up middleware
func (s *Server) setupMiddleware() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.metrics.HTTPMiddleware)
}

// handleLogin authenticates an account and issues a bearer token. Error
// bodies are plain text, matching the production backend's behavior.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeTextError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := s.registry.GetByEmail(req.Email)
	if err != nil {
		s.metrics.RecordAuthAttempt("login", "failure")
		s.logger.Auth("login", req.Email, false, map[string]interface{}{"reason": "unknown user"})
		s.writeTextError(w, http.StatusBadRequest, "User not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		s.metrics.RecordAuthAttempt("login", "failure")
		s.logger.Auth("login", req.Email, false, map[string]interface{}{"reason": "bad password"})
		s.writeTextError(w, http.StatusBadRequest, "Invalid password")
		return
	}

	tokenString, err := s.tokens.Issue(account)
	if err != nil {
		s.logger.WithError(err).Error("Failed to issue token")
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.metrics.RecordAuthAttempt("login", "success")
	s.logger.Auth("login", req.Email, true, map[string]interface{}{"user_id": account.ID})

	// The role reflects the stored account, never the requested role
	s.writeJSONResponse(w, http.StatusOK, types.LoginResponse{
		Token: tokenString,
		User:  account.User,
	})
}

// handleRegister creates a new account. It never issues a token; the caller
// logs in explicitly afterwards.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeTextError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		s.writeTextError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	role := types.NormalizeRole(string(req.Role))
	if !role.Valid() {
		s.writeTextError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithError(err).Error("Failed to hash password")
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to process registration")
		return
	}

	account := &Account{
		User: types.User{
			ID:               uuid.New().String(),
			Name:             req.Name,
			Email:            normalizeEmail(req.Email),
			Role:             role,
			Phone:            req.Phone,
			Address:          req.Address,
			DateOfBirth:      req.DateOfBirth,
			Specialization:   req.Specialization,
			LicenseNumber:    req.LicenseNumber,
			BloodGroup:       req.BloodGroup,
			EmergencyContact: req.EmergencyContact,
			CreatedAt:        time.Now(),
		},
		PasswordHash: string(hash),
	}

	if err := s.registry.Create(account); err != nil {
		if portalErr, ok := err.(*types.PortalError); ok && portalErr.Type == types.ErrorTypeConflict {
			s.metrics.RecordAuthAttempt("register", "failure")
			s.writeTextError(w, http.StatusBadRequest, "Email already exists")
			return
		}
		s.logger.WithError(err).Error("Failed to create account")
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	s.metrics.RecordAuthAttempt("register", "success")
	s.logger.Auth("register", account.Email, true, map[string]interface{}{
		"user_id": account.ID,
		"role":    string(account.Role),
	})

	s.writeJSONResponse(w, http.StatusOK, account.User)
}

// handleValidate confirms a bearer token and returns the account it names
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		s.rejectValidation(w, "missing authorization header")
		return
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		s.rejectValidation(w, "invalid authorization header format")
		return
	}

	claims, err := s.tokens.Verify(parts[1])
	if err != nil {
		s.rejectValidation(w, "invalid token")
		return
	}

	account, err := s.registry.GetByID(claims.UserID)
	if err != nil {
		s.rejectValidation(w, "unknown account")
		return
	}

	s.metrics.RecordCredentialValidation("valid")
	s.writeJSONResponse(w, http.StatusOK, types.ValidateResponse{
		Valid: true,
		User:  account.User,
	})
}

func (s *Server) rejectValidation(w http.ResponseWriter, reason string) {
	s.metrics.RecordCredentialValidation("invalid")
	s.logger.WithField("reason", reason).Debug("Credential validation rejected")
	s.writeJSONResponse(w, http.StatusUnauthorized, types.ValidateResponse{Valid: false})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startTime).String(),
	})
}

// loggingMiddleware logs requests and responses
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(recorder, r)

		s.logger.HTTPRequest(r.Method, r.URL.Path, r.RemoteAddr, recorder.statusCode, time.Since(start).Milliseconds())
	})
}

// writeJSONResponse writes a JSON response
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// writeErrorResponse writes a structured JSON error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	errorResponse := &types.PortalError{
		Type:    types.ErrorTypeInternal,
		Code:    http.StatusText(statusCode),
		Message: message,
	}

	s.writeJSONResponse(w, statusCode, errorResponse)
}

// writeTextError writes a plain-text error body
func (s *Server) writeTextError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	w.Write([]byte(message))
}

// responseRecorder captures response status code
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
