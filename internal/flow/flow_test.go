package flow

import (
	"errors"
	"testing"
)

var complete = Inputs{HasDocument: true, HasJobDescription: true, HasCredential: true}

func TestMissing_priority(t *testing.T) {
	cases := []struct {
		in   Inputs
		want Warning
	}{
		{Inputs{}, WarningNoDocument},
		{Inputs{HasJobDescription: true, HasCredential: true}, WarningNoDocument},
		{Inputs{HasDocument: true}, WarningNoJobDescription},
		{Inputs{HasDocument: true, HasCredential: true}, WarningNoJobDescription},
		{Inputs{HasDocument: true, HasJobDescription: true}, WarningNoCredential},
		{complete, WarningNone},
	}
	for _, c := range cases {
		if got := Missing(c.in); got != c.want {
			t.Errorf("Missing(%+v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestWarning_Message(t *testing.T) {
	if WarningNoDocument.Message() != "Please upload your resume." {
		t.Errorf("got %q", WarningNoDocument.Message())
	}
	if WarningNoJobDescription.Message() != "Please paste a job description." {
		t.Errorf("got %q", WarningNoJobDescription.Message())
	}
	if WarningNoCredential.Message() != "Please enter your API key." {
		t.Errorf("got %q", WarningNoCredential.Message())
	}
	if WarningNone.Message() != "" {
		t.Error("WarningNone should have no message")
	}
}

func TestTransition_inputsChanged(t *testing.T) {
	for _, s := range []State{Idle, Ready, SuggestionRequested, GenerationRequested} {
		got, err := Transition(s, InputsChanged, complete)
		if err != nil || got != Ready {
			t.Errorf("%s + complete inputs = %s, %v", s, got, err)
		}
		got, err = Transition(s, InputsChanged, Inputs{HasDocument: true})
		if err != nil || got != Idle {
			t.Errorf("%s + partial inputs = %s, %v", s, got, err)
		}
	}
}

func TestTransition_actions(t *testing.T) {
	got, err := Transition(Ready, AnalyzeRequested, complete)
	if err != nil || got != SuggestionRequested {
		t.Fatalf("Ready + analyze = %s, %v", got, err)
	}
	got, err = Transition(got, ProfileSubmitted, complete)
	if err != nil || got != GenerationRequested {
		t.Fatalf("Suggestion + profile = %s, %v", got, err)
	}
	got, err = Transition(got, AnalyzeRequested, complete)
	if err != nil || got != SuggestionRequested {
		t.Fatalf("Generation + analyze = %s, %v", got, err)
	}
	got, err = Transition(got, Reset, complete)
	if err != nil || got != Idle {
		t.Fatalf("reset = %s, %v", got, err)
	}
}

func TestTransition_invalid(t *testing.T) {
	if _, err := Transition(Idle, AnalyzeRequested, complete); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("analyze from Idle: err = %v", err)
	}
	s, err := Transition(Ready, ProfileSubmitted, Inputs{HasDocument: true, HasJobDescription: true})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("profile without credential: err = %v", err)
	}
	if s != Ready {
		t.Errorf("failed transition should keep state, got %s", s)
	}
	if _, err := Transition(Ready, Event(42), complete); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("unknown event: err = %v", err)
	}
}

func TestParseState(t *testing.T) {
	for _, s := range []State{Idle, Ready, SuggestionRequested, GenerationRequested} {
		got, err := ParseState(s.String())
		if err != nil || got != s {
			t.Errorf("ParseState(%q) = %s, %v", s.String(), got, err)
		}
	}
	if _, err := ParseState("done"); err == nil {
		t.Error("expected error for unknown state")
	}
}
