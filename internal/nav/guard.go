package nav

import (
	"github.com/medvault/portal/pkg/logger"
	"github.com/medvault/portal/pkg/types"
)

// DecisionKind classifies a guard decision
type DecisionKind int

const (
	// DecisionLoading suspends routing until the session store settles
	DecisionLoading DecisionKind = iota
	// DecisionRender renders the requested route
	DecisionRender
	// DecisionRedirectLogin sends an anonymous user to the login screen
	DecisionRedirectLogin
	// DecisionRedirectDashboard sends an authenticated user to their landing screen
	DecisionRedirectDashboard
	// DecisionInvalidRole is the terminal state for an unrecognized session role
	DecisionInvalidRole
)

// String returns the decision kind name
func (k DecisionKind) String() string {
	switch k {
	case DecisionLoading:
		return "loading"
	case DecisionRender:
		return "render"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectDashboard:
		return "redirect_dashboard"
	case DecisionInvalidRole:
		return "invalid_role"
	default:
		return "unknown"
	}
}

// Decision is the outcome of resolving a requested route
type Decision struct {
	Kind  DecisionKind
	Route Route
}

// SessionReader is the session state surface the guard consumes. The guard
// itself never calls the network.
type SessionReader interface {
	Loading() bool
	Session() (types.Session, bool)
}

// Guard decides which screen to present for a requested route given the
// current session state
type Guard struct {
	sessions SessionReader
	logger   *logger.Logger
}

// NewGuard creates a new navigation guard
func NewGuard(sessions SessionReader, log *logger.Logger) *Guard {
	return &Guard{
		sessions: sessions,
		logger:   log,
	}
}

// Resolve decides what to present for the requested route
func (g *Guard) Resolve(requested Route) Decision {
	// No route decision while the store is still validating
	if g.sessions.Loading() {
		return Decision{Kind: DecisionLoading}
	}

	session, ok := g.sessions.Session()
	if !ok {
		// Anonymous users only reach the authentication screens
		if IsAuthRoute(requested) {
			return g.decide(requested, "", Decision{Kind: DecisionRender, Route: requested})
		}
		return g.decide(requested, "", Decision{Kind: DecisionRedirectLogin, Route: RouteLogin})
	}

	// An unrecognized role is terminal rather than silently landing on any
	// dashboard
	if !session.Role.Valid() {
		return g.decide(requested, session.Role, Decision{Kind: DecisionInvalidRole})
	}

	// An authenticated user never sees the login or register form
	if IsAuthRoute(requested) {
		return g.decide(requested, session.Role, Decision{Kind: DecisionRedirectDashboard, Route: RouteDashboard})
	}

	if !RoleAllowed(requested, session.Role) {
		return g.decide(requested, session.Role, Decision{Kind: DecisionRedirectDashboard, Route: RouteDashboard})
	}

	return g.decide(requested, session.Role, Decision{Kind: DecisionRender, Route: requested})
}

func (g *Guard) decide(requested Route, role types.Role, decision Decision) Decision {
	g.logger.Navigation(string(requested), decision.Kind.String(), string(role))
	return decision
}
