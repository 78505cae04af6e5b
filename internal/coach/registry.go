package coach

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/kfreiman/interviewprep/internal/session"
)

var (
	// ErrSessionNotFound is returned for an unknown session id
	ErrSessionNotFound = errors.New("interview session not found")
	// ErrTurnInProgress is returned when a session already has a turn in flight
	ErrTurnInProgress = errors.New("a turn is already in progress for this session")
)

type entry struct {
	state session.State
	busy  bool
}

// Registry keeps independent interviews for hosts that serve more than one.
// Each session processes at most one turn at a time.
type Registry struct {
	mu       sync.Mutex
	coach    *Coach
	sessions map[string]*entry
}

// NewRegistry creates a new session registry
func NewRegistry(coach *Coach) *Registry {
	return &Registry{
		coach:    coach,
		sessions: make(map[string]*entry),
	}
}

// Start creates and stores a new interview
func (r *Registry) Start(cfg session.Config) session.State {
	s := r.coach.Start(cfg)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = &entry{state: s}
	return s
}

// Get returns a snapshot of a session
func (r *Registry) Get(id string) (session.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return session.State{}, ErrSessionNotFound
	}
	return e.state.Clone(), nil
}

// Now returns the coach clock's current time
func (r *Registry) Now() time.Time {
	return r.coach.Now()
}

// IDs returns the ids of all stored sessions, sorted
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// acquire marks the session busy and returns its current state
func (r *Registry) acquire(id string) (session.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return session.State{}, ErrSessionNotFound
	}
	if e.busy {
		return session.State{}, ErrTurnInProgress
	}
	e.busy = true
	return e.state, nil
}

// release clears the busy flag and, when next is non-nil, stores the new state
func (r *Registry) release(id string, next *session.State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return
	}
	if next != nil {
		e.state = *next
	}
	e.busy = false
}

// Submit runs one turn for the session. The model call happens outside the lock.
func (r *Registry) Submit(ctx context.Context, id, input string) (session.State, Outcome, error) {
	current, err := r.acquire(id)
	if err != nil {
		return session.State{}, Outcome{}, err
	}

	next, outcome, err := r.coach.Submit(ctx, current, input)
	if err != nil {
		r.release(id, nil)
		return current.Clone(), Outcome{}, err
	}

	r.release(id, &next)
	return next.Clone(), outcome, nil
}

// UpdateConfig replaces the configuration used from the next turn on with
// the result of update applied to the current one. update runs under the
// registry lock, so concurrent changes to different fields are not lost.
func (r *Registry) UpdateConfig(id string, update func(session.Config) (session.Config, error)) (session.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return session.State{}, ErrSessionNotFound
	}
	if e.busy {
		return session.State{}, ErrTurnInProgress
	}

	cfg, err := update(e.state.Config)
	if err != nil {
		return session.State{}, err
	}
	e.state.Config = cfg
	return e.state.Clone(), nil
}

// Reset discards every turn and statistic of a session, keeping its id and configuration
func (r *Registry) Reset(id string) (session.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return session.State{}, ErrSessionNotFound
	}
	if e.busy {
		return session.State{}, ErrTurnInProgress
	}

	fresh := r.coach.Start(e.state.Config)
	fresh.ID = id
	e.state = fresh
	return fresh.Clone(), nil
}

// Delete forgets a session
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if e.busy {
		return ErrTurnInProgress
	}
	delete(r.sessions, id)
	return nil
}
