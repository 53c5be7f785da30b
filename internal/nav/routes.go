package nav

import "github.com/medvault/portal/pkg/types"

// Route identifies a portal screen
type Route string

const (
	// Authentication screens
	RouteLogin    Route = "login"
	RouteRegister Route = "register"

	// Default authenticated landing screen
	RouteDashboard Route = "dashboard"

	// Patient screens
	RouteBookAppointment Route = "book-appointment"
	RouteChat            Route = "chat"

	// Doctor screens
	RoutePatients Route = "patients"

	// Screens shared by patients and doctors
	RouteAppointments   Route = "appointments"
	RouteMedicalRecords Route = "medical-records"
	RouteReports        Route = "reports"
	RouteSettings       Route = "settings"
)

// routeRoles maps each route to the roles allowed to view it. A route with no
// entry is reachable by any authenticated role. Authentication screens are
// never listed here; the guard handles them before the table is consulted.
var routeRoles = map[Route][]types.Role{
	RouteBookAppointment: {types.RolePatient},
	RouteChat:            {types.RolePatient},
	RoutePatients:        {types.RoleDoctor},
	RouteAppointments:    {types.RolePatient, types.RoleDoctor},
	RouteMedicalRecords:  {types.RolePatient, types.RoleDoctor},
	RouteReports:         {types.RolePatient, types.RoleDoctor},
	RouteSettings:        {types.RolePatient, types.RoleDoctor},
}

// AllowedRoles returns the allow-list for a route. The second return value is
// false when the route carries no restriction.
func AllowedRoles(route Route) ([]types.Role, bool) {
	roles, ok := routeRoles[route]
	return roles, ok
}

// RoleAllowed reports whether the role may view the route
func RoleAllowed(route Route, role types.Role) bool {
	roles, ok := routeRoles[route]
	if !ok {
		// No entry means any authenticated role
		return true
	}

	for _, allowed := range roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// IsAuthRoute reports whether the route is an authentication screen
func IsAuthRoute(route Route) bool {
	return route == RouteLogin || route == RouteRegister
}

// Routes returns every route in the restriction table
func Routes() []Route {
	routes := make([]Route, 0, len(routeRoles))
	for route := range routeRoles {
		routes = append(routes, route)
	}
	return routes
}
