package match

import (
	"errors"
	"fmt"

	"github.com/hyperjump/resumatch/internal/flow"
)

// Kind classifies an ActionError.
type Kind string

const (
	KindInput  Kind = "input"
	KindRemote Kind = "remote"
	KindRender Kind = "render"
)

// Action names.
const (
	ActionUpdate   = "update"
	ActionSuggest  = "suggest"
	ActionGenerate = "generate"
)

// ErrRateLimited is returned when a session exceeds its remote-call budget.
var ErrRateLimited = errors.New("too many requests, please wait a moment")

// MissingInputError reports the first required input that is absent.
type MissingInputError struct {
	Warning flow.Warning
}

func (e *MissingInputError) Error() string {
	return e.Warning.Message()
}

// ActionError is the failure of one user action. Retryable tells the UI
// whether to offer repeating it.
type ActionError struct {
	Action    string
	Kind      Kind
	Retryable bool
	Err       error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Action, e.Kind, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// Message is the text shown to the user.
func (e *ActionError) Message() string {
	switch e.Kind {
	case KindInput:
		return e.Err.Error()
	case KindRemote:
		return "The language model request failed: " + e.Err.Error()
	case KindRender:
		return "Could not create the PDF: " + e.Err.Error()
	}
	return e.Err.Error()
}
