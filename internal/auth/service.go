package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tradeloop/marketplace-api/internal/model"
)

// UserStore is the credential-store boundary the service operates against.
// *repository.UserRepo satisfies it in production; tests substitute a fake.
// The lookup methods return (nil, nil) when no account matches. The store's
// unique email index is the final arbiter for concurrent signups: Create must
// return ErrEmailExists when the insert loses that race.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, u *model.User) error
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// Service orchestrates signup, login and account deletion over a UserStore.
type Service struct {
	store      UserStore
	bcryptCost int
}

// NewService wires a Service to its credential store.
func NewService(store UserStore, bcryptCost int) *Service {
	return &Service{store: store, bcryptCost: bcryptCost}
}

// Signup creates a new account. Emails are compared exactly as stored; no
// normalization happens here. Returns ErrEmailExists when the address is
// taken, either by the pre-check or by the store's own unique index when two
// signups race.
func (s *Service) Signup(ctx context.Context, email, password, name string) (*model.User, error) {
	exists, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("signup: check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	now := time.Now().UTC()
	u := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies email/password and returns the matching account.
// Unknown email reports ErrNotFound and a wrong password reports
// ErrInvalidCredentials; the distinction mirrors the login API contract
// (404 vs 401) even though it allows probing for registered addresses.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	if !VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Lookup fetches an account by id, or nil when none exists.
func (s *Service) Lookup(ctx context.Context, id string) (*model.User, error) {
	return s.store.FindByID(ctx, id)
}

// Delete removes the account with the given id. It returns false, not an
// error, when the account is already gone.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	exists, err := s.store.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete: check account: %w", err)
	}
	if !exists {
		return false, nil
	}
	return s.store.DeleteByID(ctx, id)
}
