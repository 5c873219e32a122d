package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/zecrev/codez/db"
	"github.com/zecrev/codez/notifications"
	"github.com/zecrev/codez/session"
	"github.com/zecrev/codez/synth"
	"github.com/zecrev/codez/visualedit"
)

// Handlers holds references to the application components
type Handlers struct {
	session *session.Controller
	store   *db.HistoryStore
	synth   *synth.Client
	notifs  *notifications.Service
	bridge  *visualedit.Hub
}

// NewHandlers creates a new Handlers instance
func NewHandlers(ctrl *session.Controller, store *db.HistoryStore, client *synth.Client, notifs *notifications.Service, bridge *visualedit.Hub) *Handlers {
	return &Handlers{
		session: ctrl,
		store:   store,
		synth:   client,
		notifs:  notifs,
		bridge:  bridge,
	}
}

// respondSessionError maps controller errors onto HTTP status codes
func respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrBusy):
		RespondConflict(c, "Another action is already in progress")
	case errors.Is(err, session.ErrEmptyInput),
		errors.Is(err, session.ErrNoConversation),
		errors.Is(err, session.ErrNoPrompt),
		errors.Is(err, session.ErrNoDocument):
		RespondBadRequest(c, err.Error())
	case errors.Is(err, visualedit.ErrElementNotFound):
		RespondNotFound(c, "Element not found")
	case errors.Is(err, synth.ErrNotConfigured):
		RespondServiceUnavailable(c, "AI model is not configured")
	default:
		RespondInternalError(c, err.Error())
	}
}
