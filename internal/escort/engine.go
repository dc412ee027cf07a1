// Package escort prompts staff to walk the next queued group to a room
// that just became free. It is the sibling of the error escalation
// engine: the first entry of the queue-status poll becomes a blocking
// prompt with a single "guided" action.
package escort

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"escape-ops-console/internal/gameapi"
)

// ErrNothingPrompted is returned when the guided action arrives with no
// prompt on screen.
var ErrNothingPrompted = errors.New("no escort prompt is currently displayed")

// Guider posts the guided-status update to the backend.
type Guider interface {
	SetGuided(ctx context.Context, challengeID string) error
}

// Journal records the escort for the audit trail. May be nil.
type Journal interface {
	Record(ctx context.Context, action, subject, detail string) error
}

// Engine is the escort prompt state machine.
type Engine struct {
	guider  Guider
	journal Journal
	notify  func(gameapi.QueueEntry)

	mu           sync.Mutex
	prompting    bool
	inFlight     bool
	current      gameapi.QueueEntry
	lastNotified string
}

// NewEngine creates an engine. notify, when non-nil, fires once per newly
// prompted room.
func NewEngine(guider Guider, journal Journal, notify func(gameapi.QueueEntry)) *Engine {
	return &Engine{guider: guider, journal: journal, notify: notify}
}

// Observe feeds a queue-status poll result into the engine. An active
// prompt is never replaced by a newer poll.
func (e *Engine) Observe(entries []gameapi.QueueEntry) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.prompting || len(entries) == 0 {
		return
	}

	e.current = entries[0]
	e.prompting = true

	if e.notify != nil && e.current.ChallengeId != e.lastNotified {
		e.lastNotified = e.current.ChallengeId
		e.notify(e.current)
	}
}

// Current returns the active prompt, if any.
func (e *Engine) Current() (gameapi.QueueEntry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current, e.prompting
}

// Guided reports that staff walked the group to its room. On success the
// prompt closes; on failure it stays up so the action can be retried.
func (e *Engine) Guided(ctx context.Context) error {
	e.mu.Lock()
	if !e.prompting || e.inFlight {
		e.mu.Unlock()
		return ErrNothingPrompted
	}
	guided := e.current
	e.inFlight = true
	e.mu.Unlock()

	err := e.guider.SetGuided(ctx, guided.ChallengeId)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight = false
	if err != nil {
		log.Printf("failed to mark challenge %s guided: %v", guided.ChallengeId, err)
		return err
	}

	e.prompting = false
	e.current = gameapi.QueueEntry{}

	if e.journal != nil {
		detail := fmt.Sprintf("group %s to room %s (queue %s)", guided.GroupName, guided.RoomID, guided.QueueNumber)
		if jerr := e.journal.Record(ctx, "group_guided", guided.ChallengeId, detail); jerr != nil {
			log.Printf("failed to journal escort of challenge %s: %v", guided.ChallengeId, jerr)
		}
	}
	return nil
}
