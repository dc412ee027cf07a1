// Package escalate surfaces reported operational errors to the operator,
// one at a time, oldest first. The surfaced error behaves like a blocking
// modal: a poll racing in never replaces it, and only the two explicit
// actions (ignore, resolve) clear it.
package escalate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"escape-ops-console/internal/gameapi"
)

// State of the engine.
type State int

const (
	// Idle: nothing surfaced, the next non-empty poll escalates.
	Idle State = iota
	// Displaying: one error is in front of the operator.
	Displaying
	// Resolving: the resolve call is in flight.
	Resolving
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Displaying:
		return "displaying"
	case Resolving:
		return "resolving"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrNothingDisplayed is returned when an action arrives with no error on
// screen.
var ErrNothingDisplayed = errors.New("no error is currently displayed")

// Resolver posts the resolve action to the backend.
type Resolver interface {
	ResolveError(ctx context.Context, errorID int64) error
}

// Journal records the resolution for the audit trail. May be nil.
type Journal interface {
	Record(ctx context.Context, action, subject, detail string) error
}

// Engine is the error escalation state machine.
type Engine struct {
	resolver Resolver
	journal  Journal
	notify   func(gameapi.ErrorRecord)

	mu           sync.Mutex
	state        State
	current      gameapi.ErrorRecord
	lastNotified int64
}

// NewEngine creates an engine. notify, when non-nil, is invoked once per
// newly escalated error (it feeds the staff push channel).
func NewEngine(resolver Resolver, journal Journal, notify func(gameapi.ErrorRecord)) *Engine {
	return &Engine{resolver: resolver, journal: journal, notify: notify}
}

// Observe feeds a poll result into the engine. While an error is
// displayed or being resolved the poll is ignored: the operator's modal
// is never swapped out from under them. Ignored errors resurface here on
// the next poll because the backend still reports them unsolved.
func (e *Engine) Observe(unresolved []gameapi.ErrorRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Idle || len(unresolved) == 0 {
		return
	}

	e.current = unresolved[0]
	e.state = Displaying

	if e.notify != nil && e.current.ErrorId != e.lastNotified {
		e.lastNotified = e.current.ErrorId
		e.notify(e.current)
	}
}

// Current returns the surfaced error, the engine state, and whether an
// error is surfaced at all.
func (e *Engine) Current() (gameapi.ErrorRecord, State, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current, e.state, e.state != Idle
}

// Ignore closes the display without touching backend state. The same
// error will come back on the next poll tick; this is a snooze, not a
// dismissal.
func (e *Engine) Ignore() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Displaying {
		return ErrNothingDisplayed
	}
	e.state = Idle
	e.current = gameapi.ErrorRecord{}
	return nil
}

// Resolve posts the resolution for the surfaced error. On success the
// engine returns to Idle; on failure the error stays displayed and the
// operator can retry.
func (e *Engine) Resolve(ctx context.Context) error {
	e.mu.Lock()
	if e.state != Displaying {
		e.mu.Unlock()
		return ErrNothingDisplayed
	}
	resolved := e.current
	e.state = Resolving
	e.mu.Unlock()

	err := e.resolver.ResolveError(ctx, resolved.ErrorId)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		log.Printf("failed to resolve error %d: %v", resolved.ErrorId, err)
		e.state = Displaying
		return err
	}

	e.state = Idle
	e.current = gameapi.ErrorRecord{}

	if e.journal != nil {
		detail := fmt.Sprintf("%s (from %s)", resolved.Description, resolved.FromWhere)
		if jerr := e.journal.Record(ctx, "error_resolved", fmt.Sprintf("%d", resolved.ErrorId), detail); jerr != nil {
			log.Printf("failed to journal resolution of error %d: %v", resolved.ErrorId, jerr)
		}
	}
	return nil
}
