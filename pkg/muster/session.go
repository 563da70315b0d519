package muster

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultChoiceTimeout is how long a disambiguation prompt stays live.
const DefaultChoiceTimeout = 60 * time.Second

// MatchKind classifies the outcome of resolving a channel query.
type MatchKind int

const (
	// MatchNone means no catalog entry resembled the query.
	MatchNone MatchKind = iota
	// MatchExact means a single candidate resolved automatically.
	MatchExact
	// MatchAmbiguous means several candidates need a user choice.
	MatchAmbiguous
)

// ChannelMatch is the result of running a query against the channel catalog.
type ChannelMatch struct {
	Kind       MatchKind
	Channel    string
	Candidates []string
}

// ResolveChannel runs the fuzzy matcher and classifies the result for the
// disambiguation flow: zero matches, one auto-resolved channel, or a
// candidate list awaiting a choice.
func ResolveChannel(query string, catalog []string) ChannelMatch {
	matches := CloseMatches(query, catalog, MaxChannelMatches, MatchCutoff)
	switch len(matches) {
	case 0:
		return ChannelMatch{Kind: MatchNone}
	case 1:
		return ChannelMatch{Kind: MatchExact, Channel: matches[0]}
	default:
		return ChannelMatch{Kind: MatchAmbiguous, Candidates: matches}
	}
}

// ChoiceState is a terminal state of a disambiguation session.
type ChoiceState int

const (
	ChoiceSelected ChoiceState = iota
	ChoiceCancelled
	ChoiceTimedOut
)

// Choice is the single terminal outcome of a session.
type Choice struct {
	State   ChoiceState
	Channel string
}

// ChoiceSession binds a candidate list to one pending user choice. The first
// event to arrive (selection, cancel, timer, context) wins; everything after
// is a no-op. A session is single use: Wait may be called once, and the
// session is dead after it returns.
type ChoiceSession struct {
	id         string
	candidates []string
	timeout    time.Duration
	resolved   atomic.Bool
	result     chan Choice
}

// NewChoiceSession creates a session for the given candidates. A zero
// timeout falls back to DefaultChoiceTimeout.
func NewChoiceSession(candidates []string, timeout time.Duration) *ChoiceSession {
	if timeout <= 0 {
		timeout = DefaultChoiceTimeout
	}
	return &ChoiceSession{
		id:         uuid.New().String(),
		candidates: candidates,
		timeout:    timeout,
		result:     make(chan Choice, 1),
	}
}

// ID returns the session identifier used to route platform events back in.
func (s *ChoiceSession) ID() string { return s.id }

// Candidates returns the channel names offered to the user.
func (s *ChoiceSession) Candidates() []string { return s.candidates }

// Select delivers a user selection. Returns false when the name is not a
// candidate or the session already reached a terminal state.
func (s *ChoiceSession) Select(name string) bool {
	valid := false
	for _, c := range s.candidates {
		if c == name {
			valid = true
			break
		}
	}
	if !valid {
		return false
	}
	if !s.resolved.CompareAndSwap(false, true) {
		return false
	}
	s.result <- Choice{State: ChoiceSelected, Channel: name}
	return true
}

// Cancel delivers an explicit cancel. Returns false when the session already
// reached a terminal state.
func (s *ChoiceSession) Cancel() bool {
	if !s.resolved.CompareAndSwap(false, true) {
		return false
	}
	s.result <- Choice{State: ChoiceCancelled}
	return true
}

// Wait blocks until a selection or cancel arrives, the timeout fires, or the
// context ends. Context cancellation reads as a cancel outcome.
func (s *ChoiceSession) Wait(ctx context.Context) Choice {
	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case choice := <-s.result:
		return choice
	case <-timer.C:
		if s.resolved.CompareAndSwap(false, true) {
			return Choice{State: ChoiceTimedOut}
		}
		// A choice event won the race just before the timer fired.
		return <-s.result
	case <-ctx.Done():
		if s.resolved.CompareAndSwap(false, true) {
			return Choice{State: ChoiceCancelled}
		}
		return <-s.result
	}
}

// SessionRegistry routes platform component events to pending sessions.
// It is the one piece of shared mutable state in the flow, owned by the
// gateway and mutated only through Put, Take-style lookups and Remove.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*ChoiceSession
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*ChoiceSession)}
}

// Put registers a pending session.
func (r *SessionRegistry) Put(s *ChoiceSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// Get returns the pending session for an id, if any.
func (r *SessionRegistry) Get(id string) (*ChoiceSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove tears a session out of the registry once it is terminal.
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
