package shell

import (
	"sync"

	"github.com/medvault/portal/internal/nav"
	"github.com/medvault/portal/pkg/logger"
	"github.com/medvault/portal/pkg/types"
)

// View is the screen a front end should present, with or without the common
// navigation chrome
type View struct {
	Screen string
	Chrome bool
}

// Well-known screens outside the route table
const (
	ScreenLoading     = "loading"
	ScreenInvalidRole = "invalid-role"
)

// Shell owns the navigation state and composes the session store and
// navigation guard into a single screen decision. It carries no business
// logic beyond delegation.
type Shell struct {
	mu       sync.Mutex
	active   nav.Route
	sub      nav.Route
	lastRole types.Role

	sessions nav.SessionReader
	guard    *nav.Guard
	logger   *logger.Logger
}

// New creates a new shell. The initial route is the login screen; the guard
// redirects as the session store settles.
func New(sessions nav.SessionReader, guard *nav.Guard, log *logger.Logger) *Shell {
	return &Shell{
		active:   nav.RouteLogin,
		sessions: sessions,
		guard:    guard,
		logger:   log,
	}
}

// NavigateTo switches the top-level route and clears any active sub-route
func (s *Shell) NavigateTo(route nav.Route) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = route
	s.sub = ""
}

// NavigateToSub opens a sub-route under the current route
func (s *Shell) NavigateToSub(route nav.Route) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sub = route
}

// NavigateBack returns from a sub-route to the current top-level route
func (s *Shell) NavigateBack() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sub = ""
}

// ActiveRoute returns the navigation state as (route, sub-route). The
// sub-route is empty when none is active.
func (s *Shell) ActiveRoute() (nav.Route, nav.Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.sub
}

// CurrentView resolves the screen to present. Navigation state is reset to
// the default whenever the session role changes, including logout.
func (s *Shell) CurrentView() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions.Loading() {
		return View{Screen: ScreenLoading}
	}

	session, authenticated := s.sessions.Session()

	role := types.Role("")
	if authenticated {
		role = session.Role
	}
	if role != s.lastRole {
		s.resetFor(authenticated)
		s.lastRole = role
	}

	requested := s.active
	if s.sub != "" {
		requested = s.sub
	}

	decision := s.guard.Resolve(requested)

	switch decision.Kind {
	case nav.DecisionLoading:
		return View{Screen: ScreenLoading}

	case nav.DecisionRedirectLogin:
		s.active = nav.RouteLogin
		s.sub = ""
		return View{Screen: string(nav.RouteLogin)}

	case nav.DecisionRedirectDashboard:
		s.active = nav.RouteDashboard
		s.sub = ""
		return View{Screen: screenFor(nav.RouteDashboard, role), Chrome: true}

	case nav.DecisionInvalidRole:
		return View{Screen: ScreenInvalidRole}

	case nav.DecisionRender:
		if nav.IsAuthRoute(decision.Route) {
			return View{Screen: string(decision.Route)}
		}
		return View{Screen: screenFor(decision.Route, role), Chrome: true}

	default:
		return View{Screen: ScreenInvalidRole}
	}
}

func (s *Shell) resetFor(authenticated bool) {
	if authenticated {
		s.active = nav.RouteDashboard
	} else {
		s.active = nav.RouteLogin
	}
	s.sub = ""
}

// screenFor names the concrete screen for a route and role. Doctors have
// their own variants of the shared screens; settings is a single shared
// screen.
func screenFor(route nav.Route, role types.Role) string {
	if route == nav.RouteDashboard {
		return string(role) + "-dashboard"
	}

	if role == types.RoleDoctor && route != nav.RouteSettings {
		return "doctor-" + string(route)
	}

	return string(route)
}
