package user

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Service exposes the user directory. Users are seeded, never created through the board.
type Service struct {
	mu     sync.RWMutex
	dir    *Directory
	repo   Repository
	logger *slog.Logger
}

// NewService creates a user service. repo may be nil for a purely in-memory directory.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{dir: NewDirectory(nil), repo: repo, logger: logger}
}

// Load replaces the directory with the persisted users.
func (s *Service) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}
	s.mu.Lock()
	s.dir = NewDirectory(users)
	s.mu.Unlock()
	return nil
}

// Seed installs fixture users and persists them.
func (s *Service) Seed(ctx context.Context, users []User) error {
	for i := range users {
		if strings.TrimSpace(users[i].ID) == "" || strings.TrimSpace(users[i].Name) == "" {
			return ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo != nil {
		for i := range users {
			if err := s.repo.Upsert(ctx, &users[i]); err != nil {
				return fmt.Errorf("seeding user %s: %w", users[i].ID, err)
			}
		}
	}
	merged := append(s.dir.List(), users...)
	s.dir = NewDirectory(merged)
	s.logger.Info("users seeded", "count", len(users))
	return nil
}

// Get returns a user by ID.
func (s *Service) Get(_ context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.dir.Find(id)
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

// List returns all users.
func (s *Service) List(_ context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir.List(), nil
}

// Resolve maps assignee IDs to users, dropping duplicate IDs.
func (s *Service) Resolve(_ context.Context, ids []string) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir.Resolve(ids)
}
