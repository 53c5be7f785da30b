package shell

import (
	"testing"

	"github.com/medvault/portal/internal/nav"
	"github.com/medvault/portal/pkg/logger"
	"github.com/medvault/portal/pkg/types"
)

// fakeSessions is a canned session reader for shell tests
type fakeSessions struct {
	loading bool
	session *types.Session
}

func (f *fakeSessions) Loading() bool {
	return f.loading
}

func (f *fakeSessions) Session() (types.Session, bool) {
	if f.session == nil {
		return types.Session{}, false
	}
	return *f.session, true
}

func newShell(sessions *fakeSessions) *Shell {
	log := logger.New("error")
	return New(sessions, nav.NewGuard(sessions, log), log)
}

func TestShell_LoadingScreen(t *testing.T) {
	shell := newShell(&fakeSessions{loading: true})

	view := shell.CurrentView()
	if view.Screen != ScreenLoading {
		t.Errorf("Expected loading screen, got %q", view.Screen)
	}
	if view.Chrome {
		t.Error("Loading screen must not carry chrome")
	}
}

func TestShell_AnonymousDefaultsToLogin(t *testing.T) {
	shell := newShell(&fakeSessions{})

	view := shell.CurrentView()
	if view.Screen != "login" {
		t.Errorf("Expected login screen, got %q", view.Screen)
	}
	if view.Chrome {
		t.Error("Auth screens must not carry chrome")
	}
}

func TestShell_AnonymousNavigatesToRegister(t *testing.T) {
	shell := newShell(&fakeSessions{})

	shell.NavigateTo(nav.RouteRegister)

	view := shell.CurrentView()
	if view.Screen != "register" {
		t.Errorf("Expected register screen, got %q", view.Screen)
	}
}

func TestShell_DashboardPerRole(t *testing.T) {
	tests := []struct {
		role   types.Role
		screen string
	}{
		{types.RolePatient, "patient-dashboard"},
		{types.RoleDoctor, "doctor-dashboard"},
		{types.RoleAdmin, "admin-dashboard"},
	}

	for _, tt := range tests {
		shell := newShell(&fakeSessions{
			session: &types.Session{UserID: "user123", Role: tt.role},
		})

		view := shell.CurrentView()
		if view.Screen != tt.screen {
			t.Errorf("Expected %q for %s, got %q", tt.screen, tt.role, view.Screen)
		}
		if !view.Chrome {
			t.Errorf("Dashboard for %s must carry chrome", tt.role)
		}
	}
}

func TestShell_SubRouteFlow(t *testing.T) {
	shell := newShell(&fakeSessions{
		session: &types.Session{UserID: "user123", Role: types.RolePatient},
	})

	// Settle navigation state on the dashboard first
	shell.CurrentView()

	shell.NavigateToSub(nav.RouteMedicalRecords)
	view := shell.CurrentView()
	if view.Screen != "medical-records" {
		t.Errorf("Expected medical-records screen, got %q", view.Screen)
	}

	shell.NavigateBack()
	view = shell.CurrentView()
	if view.Screen != "patient-dashboard" {
		t.Errorf("Expected return to dashboard, got %q", view.Screen)
	}
}

func TestShell_DoctorScreenVariants(t *testing.T) {
	shell := newShell(&fakeSessions{
		session: &types.Session{UserID: "user123", Role: types.RoleDoctor},
	})
	shell.CurrentView()

	shell.NavigateToSub(nav.RouteMedicalRecords)
	if view := shell.CurrentView(); view.Screen != "doctor-medical-records" {
		t.Errorf("Expected doctor-medical-records, got %q", view.Screen)
	}

	shell.NavigateToSub(nav.RouteSettings)
	if view := shell.CurrentView(); view.Screen != "settings" {
		t.Errorf("Expected shared settings screen, got %q", view.Screen)
	}
}

func TestShell_RestrictedSubRouteRedirects(t *testing.T) {
	shell := newShell(&fakeSessions{
		session: &types.Session{UserID: "user123", Role: types.RolePatient},
	})
	shell.CurrentView()

	// Patients cannot open the doctor-only patients list
	shell.NavigateToSub(nav.RoutePatients)
	view := shell.CurrentView()
	if view.Screen != "patient-dashboard" {
		t.Errorf("Expected redirect to dashboard, got %q", view.Screen)
	}

	// The redirect resets the sub-route
	if _, sub := shell.ActiveRoute(); sub != "" {
		t.Errorf("Expected sub-route cleared after redirect, got %q", sub)
	}
}

func TestShell_NavigationStateResetsOnLogout(t *testing.T) {
	sessions := &fakeSessions{
		session: &types.Session{UserID: "user123", Role: types.RolePatient},
	}
	shell := newShell(sessions)
	shell.CurrentView()
	shell.NavigateToSub(nav.RouteReports)
	shell.CurrentView()

	// Logout
	sessions.session = nil

	view := shell.CurrentView()
	if view.Screen != "login" {
		t.Errorf("Expected login screen after logout, got %q", view.Screen)
	}

	active, sub := shell.ActiveRoute()
	if active != nav.RouteLogin || sub != "" {
		t.Errorf("Expected navigation state reset, got (%q, %q)", active, sub)
	}
}

func TestShell_NavigationStateResetsOnRoleChange(t *testing.T) {
	sessions := &fakeSessions{
		session: &types.Session{UserID: "user123", Role: types.RolePatient},
	}
	shell := newShell(sessions)
	shell.CurrentView()
	shell.NavigateToSub(nav.RouteChat)
	shell.CurrentView()

	// A different account signs in
	sessions.session = &types.Session{UserID: "user456", Role: types.RoleDoctor}

	view := shell.CurrentView()
	if view.Screen != "doctor-dashboard" {
		t.Errorf("Expected doctor dashboard after role change, got %q", view.Screen)
	}
}

func TestShell_InvalidRoleScreen(t *testing.T) {
	shell := newShell(&fakeSessions{
		session: &types.Session{UserID: "user123", Role: types.Role("superuser")},
	})

	view := shell.CurrentView()
	if view.Screen != ScreenInvalidRole {
		t.Errorf("Expected invalid-role screen, got %q", view.Screen)
	}
	if view.Chrome {
		t.Error("Invalid-role screen must not carry chrome")
	}
}

func TestShell_AuthenticatedLoginRequestRedirects(t *testing.T) {
	shell := newShell(&fakeSessions{
		session: &types.Session{UserID: "user123", Role: types.RolePatient},
	})
	shell.CurrentView()

	shell.NavigateTo(nav.RouteLogin)
	view := shell.CurrentView()
	if view.Screen != "patient-dashboard" {
		t.Errorf("Expected redirect to dashboard, got %q", view.Screen)
	}
}
