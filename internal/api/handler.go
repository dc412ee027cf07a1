package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"escape-ops-console/internal/escalate"
	"escape-ops-console/internal/escort"
	"escape-ops-console/internal/gameapi"
	"escape-ops-console/internal/journal"
	"escape-ops-console/internal/lifecycle"
	"escape-ops-console/internal/rankings"
	"escape-ops-console/internal/register"
	"escape-ops-console/internal/roomview"
)

// Handler holds shared dependencies for the console API handlers.
type Handler struct {
	client       *gameapi.Client
	board        *roomview.View
	alerts       *escalate.Engine
	escort       *escort.Engine
	registration *register.Workflow
	groups       *lifecycle.Panel
	rankings     *rankings.Rotator
	journal      journal.Store
	webpush      *webpush.Options
}

// NewHandler creates a console API handler.
func NewHandler(
	client *gameapi.Client,
	board *roomview.View,
	alerts *escalate.Engine,
	escortEngine *escort.Engine,
	registration *register.Workflow,
	groups *lifecycle.Panel,
	rotator *rankings.Rotator,
	journalStore journal.Store,
	webpushOptions *webpush.Options,
) *Handler {
	return &Handler{
		client:       client,
		board:        board,
		alerts:       alerts,
		escort:       escortEngine,
		registration: registration,
		groups:       groups,
		rankings:     rotator,
		journal:      journalStore,
		webpush:      webpushOptions,
	}
}
