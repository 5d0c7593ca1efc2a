// Package session holds the bearer credential of the signed-in account.
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Backend persists the credential between process runs.
type Backend interface {
	Load(ctx context.Context) (string, error) // "" when nothing is stored
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// Store keeps exactly one live credential. Reads never touch the backend.
type Store struct {
	mu      sync.RWMutex
	token   string
	backend Backend
	logger  *zap.Logger
}

// NewStore creates an empty store. backend may be nil for a memory-only store.
func NewStore(backend Backend, logger *zap.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
	}
}

// Token returns the current credential or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) HasToken() bool {
	return s.Token() != ""
}

// Set replaces the credential. The in-memory value is updated even if the
// backend fails to persist it.
func (s *Store) Set(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.logger.Info("Session token set", zap.Int("token_length", len(token)))

	if s.backend == nil {
		return nil
	}
	if err := s.backend.Save(ctx, token); err != nil {
		s.logger.Error("Failed to persist session token", zap.Error(err))
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

// Clear drops the credential.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	hadToken := s.token != ""
	s.token = ""
	s.mu.Unlock()

	if hadToken {
		s.logger.Info("Session token cleared")
	}

	if s.backend == nil {
		return nil
	}
	if err := s.backend.Delete(ctx); err != nil {
		s.logger.Error("Failed to delete persisted session token", zap.Error(err))
		return fmt.Errorf("delete persisted token: %w", err)
	}
	return nil
}

// Restore loads the persisted credential, if any, into memory.
func (s *Store) Restore(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}

	token, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("load persisted token: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	s.logger.Info("Session restored", zap.Bool("has_token", token != ""))
	return nil
}
