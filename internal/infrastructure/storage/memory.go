package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"svw.info/indices/internal/domain"
	"svw.info/indices/internal/ports"
)

// Memory keeps live sessions in a map for the lifetime of the process.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]ports.Session
}

func NewMemory() *Memory { return &Memory{sessions: map[string]ports.Session{}} }

func (s *Memory) Save(ctx context.Context, sess ports.Session) error {
	if sess == nil || strings.TrimSpace(sess.ID()) == "" {
		return errors.New("invalid session: missing ID")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID()] = sess
	return nil
}

func (s *Memory) Load(ctx context.Context, id string) (ports.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return sess, nil
}

func (s *Memory) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id = strings.TrimSpace(id)
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	delete(s.sessions, id)
	return nil
}

// List returns the sessions oldest first.
func (s *Memory) List(ctx context.Context) ([]domain.SessionMeta, error) {
	s.mu.RLock()
	all := make([]ports.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	s.mu.RUnlock()

	out := make([]domain.SessionMeta, 0, len(all))
	for _, sess := range all {
		snap := sess.Snapshot()
		out = append(out, domain.SessionMeta{
			ID:        sess.ID(),
			Variant:   snap.Variant,
			State:     snap.State,
			Stage:     snap.Stage,
			CreatedAt: sess.CreatedAt().Unix(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
