package server

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/hyperjump/resumatch/internal/flow"
	"github.com/hyperjump/resumatch/internal/keyword"
	"github.com/hyperjump/resumatch/internal/prompt"
	"github.com/hyperjump/resumatch/internal/session"
)

//go:embed templates/index.html
var templateFS embed.FS

func parsePage() (*template.Template, error) {
	return template.New("index.html").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/index.html")
}

// pageView is the data behind one render of the page.
type pageView struct {
	Accept          string
	HasAPIKey       bool
	FileName        string
	JobDescription  string
	Notices         []session.Notice
	Warning         string
	Ready           bool
	HasScore        bool
	Score           float64
	Coverage        *keyword.Coverage
	Suggestions     template.HTML
	Profile         prompt.Profile
	GeneratedResume string
	CanDownload     bool
}

func (s *Server) newPageView(sess *session.Session, notices []session.Notice) pageView {
	v := pageView{
		Accept:          strings.Join(s.config.Upload.Extensions, ","),
		HasAPIKey:       sess.APIKey != "",
		FileName:        sess.ResumeFileName,
		JobDescription:  sess.JobDescription,
		Notices:         notices,
		Warning:         flow.Missing(sess.Inputs()).Message(),
		Ready:           sess.State != flow.Idle,
		Coverage:        sess.Coverage,
		Profile:         sess.Profile,
		GeneratedResume: sess.GeneratedResume,
		CanDownload:     sess.DocumentPath != "",
	}
	if sess.Score != nil {
		v.HasScore = true
		v.Score = *sess.Score
	}
	if sess.Suggestions != "" {
		v.Suggestions = s.markdownHTML(sess.Suggestions)
	}
	return v
}

// markdownHTML converts model output to HTML. Raw HTML in the source is
// escaped by goldmark's default renderer.
func (s *Server) markdownHTML(src string) template.HTML {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(buf.String())
}
