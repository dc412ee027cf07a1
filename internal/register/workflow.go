// Package register runs the challenger-group registration workflow,
// including the duplicate-name confirmation round trip.
package register

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"escape-ops-console/internal/gameapi"
)

// Phase of the workflow.
type Phase int

const (
	// Editing: the form is open for input.
	Editing Phase = iota
	// Submitting: a registration call is in flight.
	Submitting
	// DuplicateConfirm: the backend flagged a name collision and the
	// operator must decide whether it is a legitimate repeat player.
	DuplicateConfirm
)

func (p Phase) String() string {
	switch p {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case DuplicateConfirm:
		return "duplicate_confirm"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Outcome of one submit or confirm call.
type Outcome int

const (
	// Registered: the backend accepted the group.
	Registered Outcome = iota
	// Duplicate: the backend rejected the name as already taken; the
	// workflow is waiting for operator confirmation.
	Duplicate
	// Failed: any other rejection or a transport failure.
	Failed
)

// Limits on the numeric form fields.
const (
	MinPlayers    = 1
	MaxPlayers    = 8
	MinDifficulty = 1
	MaxDifficulty = 4
)

// bannerTTL is how long a result banner stays up before self-clearing.
const bannerTTL = 5 * time.Second

// ErrBusy is returned when a submit arrives while a previous call is
// still in flight or a duplicate confirmation is pending.
var ErrBusy = errors.New("a registration is already in progress")

// ErrNoPendingDuplicate is returned when confirm/decline arrives without
// a pending name collision.
var ErrNoPendingDuplicate = errors.New("no duplicate confirmation is pending")

// ValidationError reports the fields that blocked a submission. Nothing
// is sent to the backend while it is non-empty.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid registration form: %d field(s) rejected", len(e.Fields))
}

// Form is the operator's input. RoomID set targets a specific room;
// otherwise the backend auto-assigns using the queue number.
type Form struct {
	GroupName   string `json:"groupName"`
	PlayerCount int    `json:"playerCount"`
	Difficulty  int    `json:"difficulty"`
	QueueNumber string `json:"queueNumber"`
	RoomID      string `json:"roomId"`
}

// defaultForm is what the form resets to after a successful registration.
func defaultForm() Form {
	return Form{PlayerCount: MinPlayers, Difficulty: MinDifficulty}
}

// Validate checks the form locally. All fields are required and the
// numeric fields must sit inside their inclusive ranges.
func (f Form) Validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(f.GroupName) == "" {
		fields["groupName"] = "group name is required"
	}
	if f.PlayerCount < MinPlayers || f.PlayerCount > MaxPlayers {
		fields["playerCount"] = fmt.Sprintf("player count must be between %d and %d", MinPlayers, MaxPlayers)
	}
	if f.Difficulty < MinDifficulty || f.Difficulty > MaxDifficulty {
		fields["difficulty"] = fmt.Sprintf("difficulty must be between %d and %d", MinDifficulty, MaxDifficulty)
	}
	if f.RoomID == "" && strings.TrimSpace(f.QueueNumber) == "" {
		fields["queueNumber"] = "queue number is required for auto-assignment"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Banner is a transient result message.
type Banner struct {
	Kind    string `json:"kind"` // "success" or "error"
	Message string `json:"message"`
	until   time.Time
}

// Registrar submits registrations to the backend.
type Registrar interface {
	Register(ctx context.Context, req gameapi.RegistrationRequest) error
}

// Journal records accepted registrations. May be nil.
type Journal interface {
	Record(ctx context.Context, action, subject, detail string) error
}

// Workflow is the registration state machine.
type Workflow struct {
	registrar Registrar
	journal   Journal
	// dupMarker is the substring of the backend failure message that
	// identifies a name collision.
	dupMarker string
	now       func() time.Time

	mu      sync.Mutex
	phase   Phase
	form    Form
	pending gameapi.RegistrationRequest
	banner  *Banner
}

// NewWorkflow creates a workflow in the Editing phase with default form
// values.
func NewWorkflow(registrar Registrar, journal Journal, dupMarker string) *Workflow {
	return &Workflow{
		registrar: registrar,
		journal:   journal,
		dupMarker: dupMarker,
		now:       time.Now,
		form:      defaultForm(),
	}
}

// Submit validates and sends a fresh registration with dupCheck=false.
// A duplicate-marked rejection parks the workflow in DuplicateConfirm
// with every field intact; any other rejection surfaces an error banner
// and leaves the form editable, fields untouched.
func (w *Workflow) Submit(ctx context.Context, form Form) (Outcome, error) {
	if err := form.Validate(); err != nil {
		return Failed, err
	}

	w.mu.Lock()
	if w.phase != Editing {
		w.mu.Unlock()
		return Failed, ErrBusy
	}
	w.phase = Submitting
	w.form = form
	req := gameapi.RegistrationRequest{
		GroupName:   form.GroupName,
		PlayerCount: form.PlayerCount,
		Difficulty:  form.Difficulty,
		QueueNumber: form.QueueNumber,
		RoomID:      form.RoomID,
		DupCheck:    false,
	}
	w.pending = req
	w.mu.Unlock()

	return w.finish(ctx, w.registrar.Register(ctx, req))
}

// Confirm resubmits the exact pending payload with dupCheck=true. The
// backend treats that as an explicit override of the duplicate rule.
func (w *Workflow) Confirm(ctx context.Context) (Outcome, error) {
	w.mu.Lock()
	if w.phase != DuplicateConfirm {
		w.mu.Unlock()
		return Failed, ErrNoPendingDuplicate
	}
	w.phase = Submitting
	w.pending.DupCheck = true
	req := w.pending
	w.mu.Unlock()

	return w.finish(ctx, w.registrar.Register(ctx, req))
}

// Decline closes the confirmation dialog and returns to editing. Form
// fields are left exactly as submitted so the operator can adjust the
// name.
func (w *Workflow) Decline() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != DuplicateConfirm {
		return ErrNoPendingDuplicate
	}
	w.phase = Editing
	return nil
}

// finish classifies the backend's answer and applies the transition.
func (w *Workflow) finish(ctx context.Context, err error) (Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err == nil {
		registered := w.pending
		w.phase = Editing
		w.form = defaultForm()
		w.pending = gameapi.RegistrationRequest{}
		w.setBanner("success", fmt.Sprintf("group %q registered", registered.GroupName))

		if w.journal != nil {
			detail := fmt.Sprintf("players=%d difficulty=%d queue=%s", registered.PlayerCount, registered.Difficulty, registered.QueueNumber)
			if jerr := w.journal.Record(ctx, "group_registered", registered.GroupName, detail); jerr != nil {
				log.Printf("failed to journal registration of %q: %v", registered.GroupName, jerr)
			}
		}
		return Registered, nil
	}

	var apiErr *gameapi.APIError
	if errors.As(err, &apiErr) {
		// Duplicate-name conflicts are only distinguishable by the
		// marker substring in the free-text message.
		if !w.pending.DupCheck && strings.Contains(apiErr.Message, w.dupMarker) {
			w.phase = DuplicateConfirm
			return Duplicate, nil
		}
		w.phase = Editing
		w.setBanner("error", apiErr.Message)
		return Failed, err
	}

	// Transport failure: generic banner, fields kept.
	log.Printf("registration request failed: %v", err)
	w.phase = Editing
	w.setBanner("error", "an unexpected error occurred")
	return Failed, err
}

// setBanner installs a banner that Snapshot expires after bannerTTL.
// Caller holds the lock.
func (w *Workflow) setBanner(kind, message string) {
	w.banner = &Banner{Kind: kind, Message: message, until: w.now().Add(bannerTTL)}
}

// Snapshot is the observable workflow state.
type Snapshot struct {
	Phase   string  `json:"phase"`
	Form    Form    `json:"form"`
	Pending *Form   `json:"pendingDuplicate,omitempty"`
	Banner  *Banner `json:"banner,omitempty"`
}

// Snapshot returns the current state. Expired banners are cleared here,
// which keeps the self-clearing behavior without a background timer.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.banner != nil && !w.now().Before(w.banner.until) {
		w.banner = nil
	}

	snap := Snapshot{
		Phase:  w.phase.String(),
		Form:   w.form,
		Banner: w.banner,
	}
	if w.phase == DuplicateConfirm {
		pending := Form{
			GroupName:   w.pending.GroupName,
			PlayerCount: w.pending.PlayerCount,
			Difficulty:  w.pending.Difficulty,
			QueueNumber: w.pending.QueueNumber,
			RoomID:      w.pending.RoomID,
		}
		snap.Pending = &pending
	}
	return snap
}
