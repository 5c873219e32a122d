package session

import "errors"

var (
	// ErrBusy is returned when another action already owns the session slot
	ErrBusy = errors.New("another action is already in progress")

	// ErrEmptyInput is returned when a required text input is blank
	ErrEmptyInput = errors.New("input must not be empty")

	// ErrNoConversation is returned for chat/theme requests before any
	// generation has established a conversation
	ErrNoConversation = errors.New("no active conversation")

	// ErrNoPrompt is returned by Regenerate when no prompt has been entered
	ErrNoPrompt = errors.New("no prompt to regenerate from")

	// ErrNoDocument is returned by operations that require generated code
	ErrNoDocument = errors.New("no document to operate on")
)
