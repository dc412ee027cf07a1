// Package lifecycle tracks post-game group state: certificate issuance
// and snack hand-out, with the guarded reissue path.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"escape-ops-console/internal/gameapi"
)

// Action errors surfaced to the API layer.
var (
	ErrUnknownGroup = errors.New("group is not in the latest snapshot")
	ErrNotCleared   = errors.New("group has not cleared its challenge yet")
	ErrSnackNotOwed = errors.New("group has no snack to collect")
)

// ackTTL is how long the per-action checkmark stays visible.
const ackTTL = time.Second

// SnackEligible reports whether the hand-out action is enabled: only the
// specific owed-item codes 3..5 can be acted on. -1 (collected), 0
// (nothing owed) and plain owed-counts stay disabled.
func SnackEligible(g gameapi.Group) bool {
	return g.SnackState == 3 || g.SnackState == 4 || g.SnackState == 5
}

// SnackOwed reports whether the group still has any outstanding snack
// obligation; it drives the sort priority, not the button.
func SnackOwed(g gameapi.Group) bool {
	return g.SnackState != gameapi.SnackCollected && g.SnackState != gameapi.SnackNone
}

// CertificateOwed reports whether the group cleared but has not collected
// its certificate.
func CertificateOwed(g gameapi.Group) bool {
	return g.WasCleared == gameapi.ClearedUncollected
}

// Sorted returns a new slice ordered by hand-out priority: groups owed a
// certificate first, then groups owed a snack, everything else in its
// original order. The input is never mutated.
func Sorted(groups []gameapi.Group) []gameapi.Group {
	out := make([]gameapi.Group, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool {
		if CertificateOwed(out[i]) != CertificateOwed(out[j]) {
			return CertificateOwed(out[i])
		}
		if SnackOwed(out[i]) != SnackOwed(out[j]) {
			return SnackOwed(out[i])
		}
		return false
	})
	return out
}

// Issuer is the backend surface the panel acts through.
type Issuer interface {
	IssueCertificate(ctx context.Context, groupID string, reissue bool) (string, error)
	GiveSnack(ctx context.Context, groupID string) error
}

// Journal records hand-outs. May be nil.
type Journal interface {
	Record(ctx context.Context, action, subject, detail string) error
}

// GroupView is one row of the panel as served to the UI.
type GroupView struct {
	gameapi.Group
	OptionsEnabled bool `json:"optionsEnabled"`
	SnackEnabled   bool `json:"snackEnabled"`
	CertificateAck bool `json:"certificateAck"`
	SnackAck       bool `json:"snackAck"`
}

// Panel holds the latest group snapshot and runs the two one-shot
// actions.
type Panel struct {
	issuer  Issuer
	journal Journal
	// refresh forces the owning poller to refetch immediately after a
	// successful action. May be nil in tests.
	refresh func()
	now     func() time.Time

	mu     sync.Mutex
	groups []gameapi.Group
	acks   map[string]ack
}

type ack struct {
	certificateUntil time.Time
	snackUntil       time.Time
}

// NewPanel creates a panel.
func NewPanel(issuer Issuer, journal Journal, refresh func()) *Panel {
	return &Panel{
		issuer:  issuer,
		journal: journal,
		refresh: refresh,
		now:     time.Now,
		acks:    make(map[string]ack),
	}
}

// Replace installs a fresh group snapshot wholesale.
func (p *Panel) Replace(groups []gameapi.Group) {
	p.mu.Lock()
	p.groups = groups
	p.mu.Unlock()
}

// Snapshot returns the sorted panel rows with gating and ack flags
// applied. Expired acks are dropped on the way out.
func (p *Panel) Snapshot() []GroupView {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	views := make([]GroupView, 0, len(p.groups))
	for _, g := range Sorted(p.groups) {
		a := p.acks[g.GroupId]
		views = append(views, GroupView{
			Group:          g,
			OptionsEnabled: g.WasCleared != gameapi.NotCleared,
			SnackEnabled:   SnackEligible(g),
			CertificateAck: a.certificateUntil.After(now),
			SnackAck:       a.snackUntil.After(now),
		})
	}
	return views
}

// PrintCertificate issues (or reissues) the certificate for a group and
// returns the backend's PDF filename. A group that already collected its
// certificate goes through the reissue endpoint; the backend records
// first and duplicate issuance differently, so the split matters.
func (p *Panel) PrintCertificate(ctx context.Context, groupID string) (string, error) {
	g, err := p.lookup(groupID)
	if err != nil {
		return "", err
	}
	if g.WasCleared == gameapi.NotCleared {
		return "", ErrNotCleared
	}
	reissue := g.WasCleared != gameapi.ClearedUncollected

	filename, err := p.issuer.IssueCertificate(ctx, groupID, reissue)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	a := p.acks[groupID]
	a.certificateUntil = p.now().Add(ackTTL)
	p.acks[groupID] = a
	p.mu.Unlock()

	if p.journal != nil {
		action := "certificate_issued"
		if reissue {
			action = "certificate_reissued"
		}
		if jerr := p.journal.Record(ctx, action, groupID, fmt.Sprintf("group %s, file %s", g.Name, filename)); jerr != nil {
			log.Printf("failed to journal certificate for group %s: %v", groupID, jerr)
		}
	}
	if p.refresh != nil {
		p.refresh()
	}
	return filename, nil
}

// GiveSnack records the snack hand-out for a group. Only the owed-item
// codes 3..5 pass the gate.
func (p *Panel) GiveSnack(ctx context.Context, groupID string) error {
	g, err := p.lookup(groupID)
	if err != nil {
		return err
	}
	if !SnackEligible(g) {
		return ErrSnackNotOwed
	}

	if err := p.issuer.GiveSnack(ctx, groupID); err != nil {
		return err
	}

	p.mu.Lock()
	a := p.acks[groupID]
	a.snackUntil = p.now().Add(ackTTL)
	p.acks[groupID] = a
	p.mu.Unlock()

	if p.journal != nil {
		if jerr := p.journal.Record(ctx, "snack_given", groupID, fmt.Sprintf("group %s, item code %d", g.Name, g.SnackState)); jerr != nil {
			log.Printf("failed to journal snack for group %s: %v", groupID, jerr)
		}
	}
	if p.refresh != nil {
		p.refresh()
	}
	return nil
}

func (p *Panel) lookup(groupID string) (gameapi.Group, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, g := range p.groups {
		if g.GroupId == groupID {
			return g, nil
		}
	}
	return gameapi.Group{}, ErrUnknownGroup
}
