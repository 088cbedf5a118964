// Package prompt builds the text sent to the language model for advice and
// résumé generation. Templates use text/template and can be overridden from a
// directory at runtime.
package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"text/template"

	"go.uber.org/zap"
)

// Template names; an override file is <name>.tmpl.
const (
	Advice = "advice"
	Resume = "resume"
)

// FileExt is the extension of override files.
const FileExt = ".tmpl"

// Profile holds the candidate details interpolated into the résumé prompt.
type Profile struct {
	Name     string
	Email    string
	Phone    string
	Location string
}

// AdviceData is the input of the advice template.
type AdviceData struct {
	Resume         string
	JobDescription string
}

// ResumeData is the input of the résumé template.
type ResumeData struct {
	Profile        Profile
	JobDescription string
}

// Set holds the active templates. It is safe for concurrent use; Reload swaps
// a template under a lock while renders in flight keep the old one.
type Set struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
	dir       string
	logger    *zap.Logger
}

// NewSet returns a Set with the built-in templates. When dir is non-empty,
// existing override files in it are loaded; a file that fails to parse is
// reported as an error.
func NewSet(dir string, logger *zap.Logger) (*Set, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Set{templates: make(map[string]*template.Template), dir: dir, logger: logger}
	for name, text := range map[string]string{Advice: defaultAdvice, Resume: defaultResume} {
		t, err := parse(name, text)
		if err != nil {
			return nil, err
		}
		s.templates[name] = t
	}
	if dir == "" {
		return s, nil
	}
	for _, name := range []string{Advice, Resume} {
		path := filepath.Join(dir, name+FileExt)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := s.Reload(path); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func parse(name, text string) (*template.Template, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}
	return t, nil
}

// Dir returns the override directory, or "" when none is configured.
func (s *Set) Dir() string {
	return s.dir
}

// Reload re-reads one override file. Unknown file names are ignored. On parse
// error the previous template stays active.
func (s *Set) Reload(path string) error {
	name, ok := templateName(path)
	if !ok {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	t, err := parse(name, string(data))
	if err != nil {
		s.logger.Warn("keeping previous prompt template", zap.String("path", path), zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.templates[name] = t
	s.mu.Unlock()
	s.logger.Info("prompt template loaded", zap.String("name", name), zap.String("path", path))
	return nil
}

// Restore reverts the template behind path to its built-in default. It is the
// watcher's remove callback.
func (s *Set) Restore(path string) {
	name, ok := templateName(path)
	if !ok {
		return
	}
	text := defaultAdvice
	if name == Resume {
		text = defaultResume
	}
	t, err := parse(name, text)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.templates[name] = t
	s.mu.Unlock()
	s.logger.Info("prompt template restored to default", zap.String("name", name))
}

func templateName(path string) (string, bool) {
	base := filepath.Base(path)
	switch base {
	case Advice + FileExt:
		return Advice, true
	case Resume + FileExt:
		return Resume, true
	}
	return "", false
}

func (s *Set) execute(name string, data any) (string, error) {
	s.mu.RLock()
	t := s.templates[name]
	s.mu.RUnlock()
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", name, err)
	}
	return buf.String(), nil
}

// Advice builds the improvement-suggestions prompt.
func (s *Set) Advice(resume, jobDescription string) (string, error) {
	return s.execute(Advice, AdviceData{Resume: resume, JobDescription: jobDescription})
}

// Resume builds the tailored-résumé prompt.
func (s *Set) Resume(p Profile, jobDescription string) (string, error) {
	return s.execute(Resume, ResumeData{Profile: p, JobDescription: jobDescription})
}
