package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dlane/event-checkin/internal/auth"
	"github.com/dlane/event-checkin/internal/config"
	"github.com/dlane/event-checkin/internal/domain"
	"github.com/dlane/event-checkin/internal/repository"
)

// SessionCookieName is the cookie carrying the "{id}.{secret}" token.
const SessionCookieName = "session_token"

type SessionService struct {
	sessionRepo repository.SessionRepository
	ttl         time.Duration
}

func NewSessionService(sessionRepo repository.SessionRepository, cfg *config.Config) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		ttl:         cfg.SessionTTL,
	}
}

func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Create issues a session bound to eventID and returns it with the
// composite bearer token. The secret is never persisted or logged.
func (s *SessionService) Create(ctx context.Context, eventID int64) (*domain.Session, string, error) {
	id, err := auth.GenerateToken()
	if err != nil {
		return nil, "", err
	}
	secret, err := auth.GenerateToken()
	if err != nil {
		return nil, "", err
	}

	session := &domain.Session{
		ID:         id,
		SecretHash: auth.HashSecret(secret),
		EventID:    eventID,
		CreatedAt:  time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, "", err
	}

	return session, fmt.Sprintf("%s.%s", id, secret), nil
}

// Validate resolves a bearer token to its session. Every failure mode
// (malformed token, unknown id, expiry, wrong secret) collapses to
// domain.ErrNoSession so callers cannot distinguish them. Expired rows
// are deleted on sight; there is no background sweep.
func (s *SessionService) Validate(ctx context.Context, token string) (*domain.Session, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return nil, domain.ErrNoSession
	}
	sessionID, secret := parts[0], parts[1]

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrNoSession) {
			log.Printf("ERROR [session] lookup failed: %v", err)
		}
		return nil, domain.ErrNoSession
	}

	if time.Since(session.CreatedAt) >= s.ttl {
		if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			log.Printf("ERROR [session] failed to delete expired session: %v", err)
		}
		return nil, domain.ErrNoSession
	}

	if !auth.DigestsEqual(auth.HashSecret(secret), session.SecretHash) {
		return nil, domain.ErrNoSession
	}

	return session, nil
}

// Revoke deletes the session. Revoking an absent session is a no-op.
func (s *SessionService) Revoke(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}
