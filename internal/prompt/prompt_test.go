package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSet_AdviceDefault(t *testing.T) {
	s, err := NewSet("", nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Advice("Built APIs", "API development")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Resume:\nBuilt APIs\n",
		"Job Description:\nAPI development\n",
		"- Missing keywords/skills",
		"- Gaps in experience",
		"- Formatting issues",
		"- Overall enhancements",
		"Return suggestions as bullet points.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("advice prompt missing %q:\n%s", want, got)
		}
	}
}

func TestSet_ResumeDefault(t *testing.T) {
	s, err := NewSet("", nil)
	if err != nil {
		t.Fatal(err)
	}
	p := Profile{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-0100", Location: "Berlin"}
	got, err := s.Resume(p, "Senior Go engineer")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"PROFILE SUMMARY", "WORK EXPERIENCE", "EDUCATION", "KEY SKILLS", "PROJECTS", "CERTIFICATIONS", "PERSONAL DETAILS",
		"Name: Jane Doe\n", "Email: jane@example.com\n", "Phone: 555-0100\n", "Location: Berlin\n",
		"tailored for the following job description:\nSenior Go engineer\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("resume prompt missing %q", want)
		}
	}
}

func TestSet_overrideDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "advice.tmpl"), []byte("ADVICE {{.JobDescription}}"), 0600); err != nil {
		t.Fatal(err)
	}
	s, err := NewSet(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := s.Advice("r", "jd")
	if got != "ADVICE jd" {
		t.Errorf("got %q", got)
	}
	// resume has no override and keeps the default
	if r, _ := s.Resume(Profile{}, "jd"); !strings.Contains(r, "PROFILE SUMMARY") {
		t.Error("resume template should be the default")
	}
}

func TestSet_ReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "advice.tmpl")
	if err := os.WriteFile(path, []byte("v1 {{.Resume}}"), 0600); err != nil {
		t.Fatal(err)
	}
	s, err := NewSet(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("broken {{.Resume"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(path); err == nil {
		t.Error("expected parse error")
	}
	if got, _ := s.Advice("x", "y"); got != "v1 x" {
		t.Errorf("previous template should stay active, got %q", got)
	}

	s.Restore(path)
	if got, _ := s.Advice("x", "y"); !strings.Contains(got, "Below is a resume") {
		t.Errorf("Restore should bring back the default, got %q", got)
	}
}

func TestSet_ReloadIgnoresUnknownFiles(t *testing.T) {
	s, err := NewSet("", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Reload("/nowhere/other.tmpl"); err != nil {
		t.Errorf("unknown template file should be ignored: %v", err)
	}
}

func TestNewSet_badOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "resume.tmpl"), []byte("{{if}}"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSet(dir, nil); err == nil {
		t.Error("expected error for unparsable override")
	}
}

func TestSet_missingField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "advice.tmpl")
	if err := os.WriteFile(path, []byte("{{.Nope}}"), 0600); err != nil {
		t.Fatal(err)
	}
	s, err := NewSet(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Advice("r", "j"); err == nil {
		t.Error("expected execution error for unknown field")
	}
}
