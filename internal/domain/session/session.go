// Package session issues ephemeral anonymous play sessions. Sessions
// carry no credentials; they exist so the client can tag submissions
// without any account system.
package session

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lexigo/tilescore/pkg/metrics"
)

// Default issuer configuration constants.
const (
	defaultMaxSessions = 10000
	playerNameSpan     = 10000
)

// Session identifies an anonymous player for the duration of play.
type Session struct {
	SessionID  string
	PlayerID   string
	PlayerName string
	CreatedAt  time.Time
}

// Issuer creates and resolves sessions.
type Issuer interface {
	// NewSession issues a session with generated ids and a player name.
	NewSession(ctx context.Context) (Session, error)

	// Get resolves a session by id. Returns ErrNotFound for unknown ids.
	Get(ctx context.Context, sessionID string) (Session, error)

	// Size returns the number of live sessions.
	Size() int
}

// Option applies a configuration option to the InMemoryIssuer.
type Option func(*InMemoryIssuer)

// WithMaxSessions bounds the number of retained sessions. The oldest
// session is dropped when the bound is reached.
func WithMaxSessions(n int) Option {
	return func(i *InMemoryIssuer) {
		if n > 0 {
			i.maxSessions = n
		}
	}
}

// WithNameFunc overrides player name generation.
func WithNameFunc(f func() string) Option {
	return func(i *InMemoryIssuer) {
		if f != nil {
			i.newName = f
		}
	}
}

// InMemoryIssuer implements Issuer with a bounded in-memory map.
type InMemoryIssuer struct {
	mu          sync.RWMutex
	sessions    map[string]Session
	order       []string // issuance order, oldest first, for eviction
	maxSessions int
	newName     func() string
}

// NewInMemoryIssuer creates an issuer with configuration options.
func NewInMemoryIssuer(opts ...Option) *InMemoryIssuer {
	i := &InMemoryIssuer{
		sessions:    make(map[string]Session),
		maxSessions: defaultMaxSessions,
		newName: func() string {
			return fmt.Sprintf("Player%d", rand.Intn(playerNameSpan)) //nolint:gosec // display name, not a secret
		},
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// NewSession issues a session with fresh uuids and a generated name.
func (i *InMemoryIssuer) NewSession(ctx context.Context) (Session, error) {
	s := Session{
		SessionID:  uuid.NewString(),
		PlayerID:   uuid.NewString(),
		PlayerName: i.newName(),
		CreatedAt:  time.Now().UTC(),
	}

	i.mu.Lock()
	if len(i.sessions) >= i.maxSessions && len(i.order) > 0 {
		oldest := i.order[0]
		i.order = i.order[1:]
		delete(i.sessions, oldest)
	}
	i.sessions[s.SessionID] = s
	i.order = append(i.order, s.SessionID)
	i.mu.Unlock()

	metrics.RecordSessionIssued()
	return s, nil
}

// Get resolves a session by id.
func (i *InMemoryIssuer) Get(ctx context.Context, sessionID string) (Session, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	s, ok := i.sessions[sessionID]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	return s, nil
}

// Size returns the number of live sessions.
func (i *InMemoryIssuer) Size() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.sessions)
}
