package stubserver

import (
	"strings"
	"sync"

	"github.com/medvault/portal/pkg/types"
)

// Account is a registered user plus the bcrypt hash of their password
type Account struct {
	types.User
	PasswordHash string
}

// Registry stores portal accounts for the stub auth backend
type Registry interface {
	Create(account *Account) error
	GetByEmail(email string) (*Account, error)
	GetByID(id string) (*Account, error)
}

// MemoryRegistry is an in-memory account registry for development
type MemoryRegistry struct {
	mu      sync.RWMutex
	byID    map[string]*Account
	byEmail map[string]*Account
}

// NewMemoryRegistry creates an empty in-memory registry
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		byID:    make(map[string]*Account),
		byEmail: make(map[string]*Account),
	}
}

// Create stores a new account
func (r *MemoryRegistry) Create(account *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := normalizeEmail(account.Email)
	if _, exists := r.byEmail[key]; exists {
		return types.NewConflictError("EMAIL_EXISTS", "Email already exists")
	}

	stored := *account
	r.byID[account.ID] = &stored
	r.byEmail[key] = &stored
	return nil
}

// GetByEmail retrieves an account by email
func (r *MemoryRegistry) GetByEmail(email string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, types.NewNotFoundError("USER_NOT_FOUND", "User not found")
	}

	copied := *account
	return &copied, nil
}

// GetByID retrieves an account by ID
func (r *MemoryRegistry) GetByID(id string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[id]
	if !ok {
		return nil, types.NewNotFoundError("USER_NOT_FOUND", "User not found")
	}

	copied := *account
	return &copied, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
