package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/medvault/portal/internal/credstore"
	"github.com/medvault/portal/internal/nav"
	"github.com/medvault/portal/internal/session"
	"github.com/medvault/portal/internal/shell"
	"github.com/medvault/portal/internal/token"
	"github.com/medvault/portal/pkg/config"
	"github.com/medvault/portal/pkg/logger"
	"github.com/medvault/portal/pkg/types"
)

const usage = `MedVault portal client

Usage:
  portal login -email <email> -password <password> [-role <role>]
  portal register -name <name> -email <email> -password <password> -role <role> [options]
  portal logout
  portal status
  portal open <route>

Routes:
  dashboard, book-appointment, chat, patients, appointments,
  medical-records, reports, settings
`

type app struct {
	sessions *session.Store
	shell    *shell.Shell
	logger   *logger.Logger
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger := logger.New(cfg.LogLevel)

	creds := credstore.New(cfg.Credential.Path, appLogger)
	inspector := token.NewInspector()
	sessions := session.NewStore(&cfg.API, creds, inspector, appLogger)
	guard := nav.NewGuard(sessions, appLogger)

	a := &app{
		sessions: sessions,
		shell:    shell.New(sessions, guard, appLogger),
		logger:   appLogger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.API.RequestTimeout+5)*time.Second)
	defer cancel()

	var exitCode int
	switch os.Args[1] {
	case "login":
		exitCode = a.runLogin(ctx, os.Args[2:])
	case "register":
		exitCode = a.runRegister(ctx, os.Args[2:])
	case "logout":
		exitCode = a.runLogout(ctx)
	case "status":
		exitCode = a.runStatus(ctx)
	case "open":
		exitCode = a.runOpen(ctx, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", os.Args[1], usage)
		exitCode = 2
	}

	os.Exit(exitCode)
}

func (a *app) runLogin(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	role := fs.String("role", "patient", "requested role (patient, doctor, admin)")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "login requires -email and -password")
		return 2
	}

	a.sessions.Initialize(ctx)

	result := a.sessions.Login(ctx, *email, *password, types.NormalizeRole(*role))
	if !result.Success {
		fmt.Fprintln(os.Stderr, result.Message)
		return 1
	}

	sess, _ := a.sessions.Session()
	fmt.Printf("Logged in as %s (%s)\n", sess.Email, sess.Role)
	return 0
}

func (a *app) runRegister(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	role := fs.String("role", "patient", "account role (patient, doctor, admin)")
	phone := fs.String("phone", "", "phone number")
	address := fs.String("address", "", "postal address")
	dateOfBirth := fs.String("date-of-birth", "", "date of birth")
	specialization := fs.String("specialization", "", "doctor specialization")
	licenseNumber := fs.String("license-number", "", "doctor license number")
	bloodGroup := fs.String("blood-group", "", "patient blood group")
	emergencyContact := fs.String("emergency-contact", "", "patient emergency contact")
	fs.Parse(args)

	if *name == "" || *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "register requires -name, -email and -password")
		return 2
	}

	result := a.sessions.Register(ctx, &types.RegisterRequest{
		Name:             *name,
		Email:            *email,
		Password:         *password,
		Role:             types.NormalizeRole(*role),
		Phone:            *phone,
		Address:          *address,
		DateOfBirth:      *dateOfBirth,
		Specialization:   *specialization,
		LicenseNumber:    *licenseNumber,
		BloodGroup:       *bloodGroup,
		EmergencyContact: *emergencyContact,
	})
	if !result.Success {
		fmt.Fprintln(os.Stderr, result.Message)
		return 1
	}

	fmt.Println("Registered. Log in to start a session.")
	return 0
}

func (a *app) runLogout(ctx context.Context) int {
	a.sessions.Initialize(ctx)
	a.sessions.Logout()
	fmt.Println("Logged out.")
	return 0
}

func (a *app) runStatus(ctx context.Context) int {
	state := a.sessions.Initialize(ctx)

	sess, ok := a.sessions.Session()
	if !ok {
		fmt.Printf("Not signed in (%s)\n", state)
		return 0
	}

	fmt.Printf("Signed in as %s\n", sess.Email)
	fmt.Printf("  Name:  %s\n", sess.DisplayName)
	fmt.Printf("  Role:  %s\n", sess.Role)
	view := a.shell.CurrentView()
	fmt.Printf("  View:  %s\n", view.Screen)
	return 0
}

func (a *app) runOpen(ctx context.Context, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "open requires a route")
		return 2
	}
	route := nav.Route(args[0])

	a.sessions.Initialize(ctx)
	a.shell.NavigateTo(nav.RouteDashboard)
	if route != nav.RouteDashboard {
		a.shell.NavigateToSub(route)
	}

	view := a.shell.CurrentView()
	fmt.Printf("Screen: %s\n", view.Screen)
	if !view.Chrome {
		fmt.Println("(no navigation chrome)")
	}
	return 0
}
