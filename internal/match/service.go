package match

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/resumatch/internal/extract"
	"github.com/hyperjump/resumatch/internal/flow"
	"github.com/hyperjump/resumatch/internal/keyword"
	"github.com/hyperjump/resumatch/internal/llm"
	"github.com/hyperjump/resumatch/internal/prompt"
	"github.com/hyperjump/resumatch/internal/render"
	"github.com/hyperjump/resumatch/internal/session"
	"github.com/hyperjump/resumatch/pkg/utils"
)

// ProviderFactory builds an LLM provider from the session's API key.
type ProviderFactory func(cfg llm.Config, apiKey string) (llm.Provider, error)

// Config holds the service settings.
type Config struct {
	LLM                llm.Config
	Timeout            time.Duration
	RateLimitPerMinute int
	OutputDir          string
}

// Deps are the components the service drives.
type Deps struct {
	Extractor   *extract.Extractor
	Scorer      *Scorer
	Coverage    *keyword.Matcher // optional
	Prompts     *prompt.Set
	Renderer    *render.Renderer
	NewProvider ProviderFactory // defaults to llm.New
}

// Document is an uploaded résumé.
type Document struct {
	Name    string
	Content []byte
}

// Inputs are the sidebar values of one submission. Nil fields are unchanged.
type Inputs struct {
	APIKey         *string
	JobDescription *string
	Document       *Document
}

// Service runs session actions. Callers hold Lock for a session across
// loading it, running the action and saving it; different sessions proceed
// in parallel.
type Service struct {
	deps    Deps
	cfg     Config
	logger  *zap.Logger
	locks   *keyedMutex
	limiter *sessionLimiter
}

// NewService creates a Service.
func NewService(deps Deps, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.NewProvider == nil {
		deps.NewProvider = llm.New
	}
	if deps.Extractor == nil {
		deps.Extractor = extract.NewExtractor()
	}
	return &Service{
		deps:    deps,
		cfg:     cfg,
		logger:  logger,
		locks:   newKeyedMutex(),
		limiter: newSessionLimiter(cfg.RateLimitPerMinute),
	}
}

// Lock blocks until no other caller holds the session id and returns the
// unlock function.
func (s *Service) Lock(id string) func() {
	return s.locks.Lock(id)
}

// UpdateInputs applies new sidebar values, re-extracts the document when one
// was uploaded, and recomputes the score once all inputs are present. A new
// document or job description drops suggestions and the generated résumé and
// returns the session to Ready.
// Extraction failures degrade to empty text and are only logged.
func (s *Service) UpdateInputs(ctx context.Context, sess *session.Session, in Inputs) error {
	changed := false
	if in.APIKey != nil {
		sess.APIKey = strings.TrimSpace(*in.APIKey)
	}
	if in.JobDescription != nil {
		jd := strings.TrimSpace(*in.JobDescription)
		if jd != sess.JobDescription {
			sess.JobDescription = jd
			changed = true
		}
	}
	if in.Document != nil && in.Document.Name != "" {
		sess.ResumeFileName = in.Document.Name
		sess.ResumeText = s.extract(sess.ID, in.Document)
		changed = true
	}
	if changed {
		sess.Suggestions = ""
		sess.GeneratedResume = ""
		sess.DocumentPath = ""
	}

	// A new credential alone keeps the state and its artifacts.
	if !changed && sess.State != flow.Idle && sess.Inputs().Complete() {
		if sess.Score == nil {
			s.rescore(ctx, sess)
		}
		return nil
	}

	next, err := flow.Transition(sess.State, flow.InputsChanged, sess.Inputs())
	if err != nil {
		return &ActionError{Action: ActionUpdate, Kind: KindInput, Err: err}
	}
	sess.State = next
	if next != flow.Ready {
		sess.Score, sess.Coverage = nil, nil
		return nil
	}
	if changed || sess.Score == nil {
		s.rescore(ctx, sess)
	}
	return nil
}

func (s *Service) extract(id string, doc *Document) string {
	text, err := s.deps.Extractor.ExtractBytes(doc.Content, filepath.Ext(doc.Name))
	if err != nil {
		s.logger.Warn("text extraction failed, continuing with empty text",
			zap.String("session", shortID(id)), zap.String("file", doc.Name), zap.Error(err))
		return ""
	}
	return text
}

func (s *Service) rescore(ctx context.Context, sess *session.Session) {
	sess.Score, sess.Coverage = nil, nil
	score, err := s.deps.Scorer.Score(ctx, sess.ResumeText, sess.JobDescription)
	switch {
	case errors.Is(err, ErrEmptyText):
		sess.AddNotice(session.Notice{Level: "info", Message: "No text could be read from the resume, so no match score is available."})
		return
	case err != nil:
		s.logger.Error("scoring failed", zap.String("session", shortID(sess.ID)), zap.Error(err))
		sess.AddNotice(session.Notice{Level: "info", Message: "The match score could not be computed."})
		return
	}
	sess.Score = &score
	if s.deps.Coverage != nil {
		sess.Coverage = s.deps.Coverage.Coverage(sess.ResumeText, sess.JobDescription)
	}
	s.logger.Info("resume scored", zap.String("session", shortID(sess.ID)), zap.Float64("score", score))
}

// Suggest asks the model for improvement suggestions.
func (s *Service) Suggest(ctx context.Context, sess *session.Session) error {
	next, err := s.begin(ActionSuggest, flow.AnalyzeRequested, sess)
	if err != nil {
		return err
	}
	p, err := s.deps.Prompts.Advice(sess.ResumeText, sess.JobDescription)
	if err != nil {
		return &ActionError{Action: ActionSuggest, Kind: KindInput, Err: err}
	}
	out, err := s.complete(ctx, ActionSuggest, sess, p)
	if err != nil {
		return err
	}
	sess.Suggestions = out
	sess.State = next
	return nil
}

// Generate asks the model for a tailored résumé and renders it to a PDF in
// the output directory. When rendering fails the generated text is kept and
// no document is offered.
func (s *Service) Generate(ctx context.Context, sess *session.Session, profile prompt.Profile) error {
	next, err := s.begin(ActionGenerate, flow.ProfileSubmitted, sess)
	if err != nil {
		return err
	}
	sess.Profile = trimProfile(profile)
	p, err := s.deps.Prompts.Resume(sess.Profile, sess.JobDescription)
	if err != nil {
		return &ActionError{Action: ActionGenerate, Kind: KindInput, Err: err}
	}
	out, err := s.complete(ctx, ActionGenerate, sess, p)
	if err != nil {
		return err
	}
	sess.GeneratedResume = out
	sess.DocumentPath = ""
	sess.State = next

	path := filepath.Join(s.cfg.OutputDir, "resume-"+uuid.NewString()+".pdf")
	if err := s.deps.Renderer.RenderFile(out, path); err != nil {
		s.logger.Warn("rendering failed", zap.String("session", shortID(sess.ID)), zap.Error(err))
		return &ActionError{Action: ActionGenerate, Kind: KindRender, Err: err}
	}
	sess.DocumentPath = path
	s.logger.Info("resume rendered", zap.String("session", shortID(sess.ID)), zap.String("path", path))
	return nil
}

// Reset clears the session back to Idle.
func (s *Service) Reset(sess *session.Session) {
	sess.Clear()
}

// begin checks inputs and the state machine before a remote action.
func (s *Service) begin(action string, ev flow.Event, sess *session.Session) (flow.State, error) {
	in := sess.Inputs()
	if w := flow.Missing(in); w != flow.WarningNone {
		return sess.State, &ActionError{Action: action, Kind: KindInput, Err: &MissingInputError{Warning: w}}
	}
	next, err := flow.Transition(sess.State, ev, in)
	if err != nil {
		return sess.State, &ActionError{Action: action, Kind: KindInput, Err: err}
	}
	return next, nil
}

// complete performs the single remote call of an action.
func (s *Service) complete(ctx context.Context, action string, sess *session.Session, p string) (string, error) {
	if !s.limiter.Allow(sess.ID) {
		return "", &ActionError{Action: action, Kind: KindRemote, Retryable: true, Err: ErrRateLimited}
	}
	provider, err := s.deps.NewProvider(s.cfg.LLM, sess.APIKey)
	if err != nil {
		return "", &ActionError{Action: action, Kind: KindRemote, Err: err}
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	log := s.logger.With(zap.String("session", shortID(sess.ID)), zap.String("action", action), zap.String("provider", provider.Name()))
	log.Debug("sending prompt", zap.String("prompt", utils.Truncate(p, 200)))
	start := time.Now()
	out, err := provider.Complete(ctx, p)
	if err != nil {
		log.Warn("remote call failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return "", &ActionError{Action: action, Kind: KindRemote, Retryable: llm.IsRetryable(err), Err: err}
	}
	log.Info("remote call completed", zap.Duration("elapsed", time.Since(start)), zap.Int("chars", len(out)))
	return out, nil
}

func trimProfile(p prompt.Profile) prompt.Profile {
	return prompt.Profile{
		Name:     strings.TrimSpace(p.Name),
		Email:    strings.TrimSpace(p.Email),
		Phone:    strings.TrimSpace(p.Phone),
		Location: strings.TrimSpace(p.Location),
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// String describes the service configuration for startup logs.
func (c Config) String() string {
	return fmt.Sprintf("provider=%s model=%s timeout=%s rate=%d/min", c.LLM.Provider, c.LLM.Model, c.Timeout, c.RateLimitPerMinute)
}
