// Package session holds the per-browser state of one résumé matching session.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/hyperjump/resumatch/internal/flow"
	"github.com/hyperjump/resumatch/internal/keyword"
	"github.com/hyperjump/resumatch/internal/prompt"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Notice is a message carried to the next page render (post/redirect/get).
type Notice struct {
	Level     string `json:"level"` // info, warning, error
	Message   string `json:"message"`
	Action    string `json:"action,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// Session is the state of one user session. APIKey is never serialized.
type Session struct {
	ID              string            `json:"id"`
	APIKey          string            `json:"-"`
	ResumeFileName  string            `json:"resume_file_name,omitempty"`
	ResumeText      string            `json:"resume_text,omitempty"`
	JobDescription  string            `json:"job_description,omitempty"`
	Score           *float64          `json:"score,omitempty"`
	Coverage        *keyword.Coverage `json:"coverage,omitempty"`
	Profile         prompt.Profile    `json:"profile"`
	Suggestions     string            `json:"suggestions,omitempty"`
	GeneratedResume string            `json:"generated_resume,omitempty"`
	DocumentPath    string            `json:"document_path,omitempty"`
	State           flow.State        `json:"state"`
	Notices         []Notice          `json:"notices,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Inputs reports which required inputs are present.
func (s *Session) Inputs() flow.Inputs {
	return flow.Inputs{
		HasDocument:       s.ResumeFileName != "",
		HasJobDescription: s.JobDescription != "",
		HasCredential:     s.APIKey != "",
	}
}

// AddNotice queues a message for the next render.
func (s *Session) AddNotice(n Notice) {
	s.Notices = append(s.Notices, n)
}

// TakeNotices returns and clears queued notices.
func (s *Session) TakeNotices() []Notice {
	n := s.Notices
	s.Notices = nil
	return n
}

// Clear drops every input and artifact, keeping the ID and creation time.
func (s *Session) Clear() {
	*s = Session{ID: s.ID, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt, State: flow.Idle}
}

// Store persists sessions for the lifetime of the process.
type Store interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	Close() error
}
