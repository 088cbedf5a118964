// Package flow defines the session state machine: which user actions are
// allowed in which state, and which input is missing when they are not.
package flow

import (
	"errors"
	"fmt"
)

// State is the position of a session in the match workflow.
type State int

const (
	// Idle waits for the credential, the document and the job description.
	Idle State = iota
	// Ready has all inputs and a computed score.
	Ready
	// SuggestionRequested has advice from the model on display.
	SuggestionRequested
	// GenerationRequested has a generated résumé and its rendered document.
	GenerationRequested
)

var stateNames = map[State]string{
	Idle:                "idle",
	Ready:               "ready",
	SuggestionRequested: "suggestion_requested",
	GenerationRequested: "generation_requested",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ParseState is the inverse of State.String.
func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return Idle, fmt.Errorf("unknown state %q", name)
}

// Event is a discrete user action.
type Event int

const (
	InputsChanged Event = iota
	AnalyzeRequested
	ProfileSubmitted
	Reset
)

func (e Event) String() string {
	switch e {
	case InputsChanged:
		return "inputs_changed"
	case AnalyzeRequested:
		return "analyze_requested"
	case ProfileSubmitted:
		return "profile_submitted"
	case Reset:
		return "reset"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// ErrInvalidTransition is returned when an event is not allowed in the current state.
var ErrInvalidTransition = errors.New("invalid transition")

// Inputs records which required inputs a session has.
type Inputs struct {
	HasDocument       bool
	HasJobDescription bool
	HasCredential     bool
}

// Complete reports whether every required input is present.
func (in Inputs) Complete() bool {
	return in.HasDocument && in.HasJobDescription && in.HasCredential
}

// Warning names the first missing input.
type Warning int

const (
	WarningNone Warning = iota
	WarningNoDocument
	WarningNoJobDescription
	WarningNoCredential
)

// Message is the text shown to the user.
func (w Warning) Message() string {
	switch w {
	case WarningNoDocument:
		return "Please upload your resume."
	case WarningNoJobDescription:
		return "Please paste a job description."
	case WarningNoCredential:
		return "Please enter your API key."
	}
	return ""
}

// Missing returns the warning for the first unmet precondition, checked in the
// order document, job description, credential. At most one warning is ever returned.
func Missing(in Inputs) Warning {
	switch {
	case !in.HasDocument:
		return WarningNoDocument
	case !in.HasJobDescription:
		return WarningNoJobDescription
	case !in.HasCredential:
		return WarningNoCredential
	}
	return WarningNone
}

// Transition returns the state reached by applying event in state s.
//
//	InputsChanged     any                      -> Ready if inputs complete, else Idle
//	AnalyzeRequested  Ready, Suggestion, Gen.  -> SuggestionRequested
//	ProfileSubmitted  Ready, Suggestion, Gen.  -> GenerationRequested
//	Reset             any                      -> Idle
//
// Analyze and profile events from Idle, or with incomplete inputs, fail with
// ErrInvalidTransition.
func Transition(s State, e Event, in Inputs) (State, error) {
	switch e {
	case InputsChanged:
		if in.Complete() {
			return Ready, nil
		}
		return Idle, nil
	case Reset:
		return Idle, nil
	case AnalyzeRequested, ProfileSubmitted:
		if s == Idle || !in.Complete() {
			if w := Missing(in); w != WarningNone {
				return s, fmt.Errorf("%w: %s from %s: %s", ErrInvalidTransition, e, s, w.Message())
			}
			return s, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, e, s)
		}
		if _, ok := stateNames[s]; !ok {
			return s, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, e, s)
		}
		if e == AnalyzeRequested {
			return SuggestionRequested, nil
		}
		return GenerationRequested, nil
	}
	return s, fmt.Errorf("%w: unknown event %s", ErrInvalidTransition, e)
}
