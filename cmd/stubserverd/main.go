package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medvault/portal/internal/stubserver"
	"github.com/medvault/portal/pkg/config"
	"github.com/medvault/portal/pkg/database"
	"github.com/medvault/portal/pkg/logger"
	"github.com/medvault/portal/pkg/types"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger := logger.New(cfg.LogLevel)

	// Create server configuration
	serverConfig := &stubserver.Config{
		Addr:         fmt.Sprintf("%s:%d", cfg.StubServer.Host, cfg.StubServer.Port),
		JWTSecret:    cfg.StubServer.JWTSecret,
		TokenTTL:     time.Duration(cfg.StubServer.TokenTTL) * time.Second,
		ReadTimeout:  time.Duration(cfg.StubServer.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.StubServer.WriteTimeout) * time.Second,
	}

	registry := buildRegistry(cfg, appLogger)

	server := stubserver.NewServer(serverConfig, registry, appLogger)

	// Start the server in a goroutine
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Error("Failed to start server")
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down stub auth server...")

	if err := server.Stop(); err != nil {
		appLogger.WithError(err).Error("Failed to shutdown server gracefully")
		os.Exit(1)
	}

	appLogger.Info("Stub auth server stopped")
}

// buildRegistry picks PostgreSQL when a database host is configured and
// reachable, otherwise an in-memory registry seeded with demo accounts.
func buildRegistry(cfg *config.Config, appLogger *logger.Logger) stubserver.Registry {
	if cfg.StubServer.Database.Host != "" {
		db, err := database.NewConnection(&cfg.StubServer.Database, appLogger)
		if err == nil {
			if err := db.EnsureSchema(); err != nil {
				appLogger.WithError(err).Error("Failed to ensure database schema")
				os.Exit(1)
			}
			appLogger.Info("Using PostgreSQL account registry")
			return stubserver.NewPostgresRegistry(db.DB, appLogger)
		}
		appLogger.WithError(err).Warn("Database unreachable, falling back to in-memory registry")
	}

	registry := stubserver.NewMemoryRegistry()
	seedDemoAccounts(registry, appLogger)
	return registry
}

// seedDemoAccounts registers the demo users the portal documentation refers to
func seedDemoAccounts(registry *stubserver.MemoryRegistry, appLogger *logger.Logger) {
	demo := []struct {
		name     string
		email    string
		password string
		role     types.Role
		extra    func(u *types.User)
	}{
		{"Dr. Sarah Chen", "doctor@medvault.dev", "doctor123", types.RoleDoctor, func(u *types.User) {
			u.Specialization = "Cardiology"
			u.LicenseNumber = "MD-48213"
		}},
		{"Pat Rivera", "patient@medvault.dev", "patient123", types.RolePatient, func(u *types.User) {
			u.BloodGroup = "O+"
			u.EmergencyContact = "555-0142"
		}},
		{"Alex Morgan", "admin@medvault.dev", "admin123", types.RoleAdmin, nil},
	}

	for _, d := range demo {
		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			appLogger.WithError(err).Error("Failed to hash demo password")
			continue
		}

		account := &stubserver.Account{
			User: types.User{
				ID:        uuid.New().String(),
				Name:      d.name,
				Email:     d.email,
				Role:      d.role,
				CreatedAt: time.Now(),
			},
			PasswordHash: string(hash),
		}
		if d.extra != nil {
			d.extra(&account.User)
		}

		if err := registry.Create(account); err != nil {
			appLogger.WithError(err).Error("Failed to seed demo account")
			continue
		}
		appLogger.WithFields(map[string]interface{}{
			"email": d.email,
			"role":  string(d.role),
		}).Info("Seeded demo account")
	}
}
