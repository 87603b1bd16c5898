package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/signalsfoundry/impact-simulator/core"
	"github.com/signalsfoundry/impact-simulator/internal/logging"
	"github.com/signalsfoundry/impact-simulator/model"
)

var (
	// ErrSessionNotFound indicates a requested session does not exist or
	// has expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownPhase indicates a phase name other than the two descent
	// phases.
	ErrUnknownPhase = errors.New("unknown phase")
	// ErrNilResult indicates Create was called without a result.
	ErrNilResult = errors.New("nil simulation result")
)

// Session is one completed simulation held for playback. It is immutable
// once created; callers must treat Result as read-only.
type Session struct {
	ID        string
	PresetID  string
	CreatedAt time.Time
	Params    model.EntryParameters
	Result    *model.SimulationResult
}

// Trajectory returns the named phase trajectory.
func (s *Session) Trajectory(phase string) (model.Trajectory, error) {
	switch phase {
	case core.PhaseHighAltitude, "1":
		return s.Result.Phase1, nil
	case core.PhaseLowAltitude, "2", "":
		return s.Result.Phase2, nil
	default:
		return model.Trajectory{}, fmt.Errorf("%w: %q", ErrUnknownPhase, phase)
	}
}

// MetricsRecorder receives the number of live sessions.
type MetricsRecorder interface {
	SetActiveSessions(n int)
}

// Store holds sessions in memory. Sessions share no mutable state, so the
// lock only guards the index.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	maxSessions int
	ttl         time.Duration
	now         func() time.Time

	log     logging.Logger
	metrics MetricsRecorder
}

// StoreOption customises Store construction.
type StoreOption func(*Store)

// WithMetricsRecorder attaches an optional recorder for the session gauge.
func WithMetricsRecorder(m MetricsRecorder) StoreOption {
	return func(s *Store) { s.metrics = m }
}

// WithMaxSessions bounds the store; the oldest session is evicted to make
// room. Zero means unbounded.
func WithMaxSessions(n int) StoreOption {
	return func(s *Store) { s.maxSessions = n }
}

// WithTTL expires sessions older than d. Zero disables expiry.
func WithTTL(d time.Duration) StoreOption {
	return func(s *Store) { s.ttl = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore constructs an empty store.
func NewStore(log logging.Logger, opts ...StoreOption) *Store {
	if log == nil {
		log = logging.Noop()
	}
	s := &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Create stores a completed simulation and returns its session.
func (s *Store) Create(ctx context.Context, params model.EntryParameters, presetID string, result *model.SimulationResult) (*Session, error) {
	if result == nil {
		return nil, ErrNilResult
	}
	sess := &Session{
		ID:        newID(),
		PresetID:  presetID,
		CreatedAt: s.now(),
		Params:    params,
		Result:    result,
	}

	s.mu.Lock()
	s.pruneLocked(ctx)
	if s.maxSessions > 0 {
		for len(s.sessions) >= s.maxSessions {
			oldest := s.oldestLocked()
			delete(s.sessions, oldest)
			s.log.Info(ctx, "evicted session", logging.String("session_id", oldest))
		}
	}
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	s.report(n)
	return sess, nil
}

// Get returns the session with the given id.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok || s.expiredLocked(sess) {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	return sess, nil
}

// Delete removes a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	if _, ok := s.sessions[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	s.report(n)
	return nil
}

// List returns live sessions, oldest first.
func (s *Store) List() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if !s.expiredLocked(sess) {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of stored sessions, including any expired ones
// not yet pruned.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SampleAt samples the named phase of a session at timeS.
func (s *Store) SampleAt(id, phase string, timeS float64) (model.SimulationState, error) {
	sess, err := s.Get(id)
	if err != nil {
		return model.SimulationState{}, err
	}
	traj, err := sess.Trajectory(phase)
	if err != nil {
		return model.SimulationState{}, err
	}
	return core.SampleAt(traj, timeS), nil
}

// Prune drops expired sessions and returns how many were removed.
func (s *Store) Prune(ctx context.Context) int {
	s.mu.Lock()
	removed := s.pruneLocked(ctx)
	n := len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		s.report(n)
	}
	return removed
}

// Clear removes every session.
func (s *Store) Clear() {
	s.mu.Lock()
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()
	s.report(0)
}

func (s *Store) pruneLocked(ctx context.Context) int {
	if s.ttl <= 0 {
		return 0
	}
	removed := 0
	for id, sess := range s.sessions {
		if s.expiredLocked(sess) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.log.Debug(ctx, "pruned expired sessions", logging.Int("count", removed))
	}
	return removed
}

func (s *Store) expiredLocked(sess *Session) bool {
	return s.ttl > 0 && s.now().Sub(sess.CreatedAt) > s.ttl
}

func (s *Store) oldestLocked() string {
	var oldest *Session
	for _, sess := range s.sessions {
		if oldest == nil || sess.CreatedAt.Before(oldest.CreatedAt) ||
			(sess.CreatedAt.Equal(oldest.CreatedAt) && sess.ID < oldest.ID) {
			oldest = sess
		}
	}
	if oldest == nil {
		return ""
	}
	return oldest.ID
}

func (s *Store) report(n int) {
	if s.metrics != nil {
		s.metrics.SetActiveSessions(n)
	}
}

func newID() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("sess-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
