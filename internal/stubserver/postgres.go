package stubserver

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/medvault/portal/pkg/logger"
	"github.com/medvault/portal/pkg/types"
)

// PostgresRegistry persists accounts in PostgreSQL
type PostgresRegistry struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewPostgresRegistry creates a new PostgreSQL-backed registry
func NewPostgresRegistry(db *sql.DB, log *logger.Logger) *PostgresRegistry {
	return &PostgresRegistry{
		db:     db,
		logger: log,
	}
}

// Create stores a new account
func (r *PostgresRegistry) Create(account *Account) error {
	query := `
		INSERT INTO accounts (id, name, email, password_hash, role, phone,
			address, date_of_birth, specialization, license_number,
			blood_group, emergency_contact, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.Exec(query,
		account.ID,
		account.Name,
		normalizeEmail(account.Email),
		account.PasswordHash,
		account.Role,
		account.Phone,
		account.Address,
		account.DateOfBirth,
		account.Specialization,
		account.LicenseNumber,
		account.BloodGroup,
		account.EmergencyContact,
		account.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				return types.NewConflictError("EMAIL_EXISTS", "Email already exists")
			}
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"user_id": account.ID,
		"role":    string(account.Role),
	}).Info("Account created")
	return nil
}

// GetByEmail retrieves an account by email
func (r *PostgresRegistry) GetByEmail(email string) (*Account, error) {
	query := `
		SELECT id, name, email, password_hash, role, phone, address,
			date_of_birth, specialization, license_number, blood_group,
			emergency_contact, created_at
		FROM accounts
		WHERE email = $1`

	return r.scanAccount(r.db.QueryRow(query, normalizeEmail(email)))
}

// GetByID retrieves an account by ID
func (r *PostgresRegistry) GetByID(id string) (*Account, error) {
	query := `
		SELECT id, name, email, password_hash, role, phone, address,
			date_of_birth, specialization, license_number, blood_group,
			emergency_contact, created_at
		FROM accounts
		WHERE id = $1`

	return r.scanAccount(r.db.QueryRow(query, id))
}

func (r *PostgresRegistry) scanAccount(row *sql.Row) (*Account, error) {
	var account Account

	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.Phone,
		&account.Address,
		&account.DateOfBirth,
		&account.Specialization,
		&account.LicenseNumber,
		&account.BloodGroup,
		&account.EmergencyContact,
		&account.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("USER_NOT_FOUND", "User not found")
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}
