package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/resumatch/internal/keyword"
	"github.com/hyperjump/resumatch/internal/match"
	"github.com/hyperjump/resumatch/internal/prompt"
	"github.com/hyperjump/resumatch/internal/render"
	"github.com/hyperjump/resumatch/internal/session"
	"github.com/hyperjump/resumatch/pkg/utils"
)

// DownloadName is the file name offered for the rendered résumé.
const DownloadName = "AI_Resume.pdf"

// multipartMemory is the in-memory part of a parsed upload; the rest spills to disk.
const multipartMemory = 8 << 20

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, unlock, err := s.lockSession(w, r)
	if err != nil {
		s.logger.Error("load session failed", zap.Error(err))
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	defer unlock()
	notices := sess.TakeNotices()
	if len(notices) > 0 {
		if err := s.deps.Store.Save(r.Context(), sess); err != nil {
			s.logger.Warn("clear notices failed", zap.Error(err))
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, s.newPageView(sess, notices)); err != nil {
		s.logger.Error("render page failed", zap.Error(err))
	}
}

func (s *Server) handleInputs(w http.ResponseWriter, r *http.Request) {
	var notice *session.Notice
	var in match.Inputs
	parsed := true

	r.Body = http.MaxBytesReader(w, r.Body, s.config.Upload.MaxBytes()+multipartMemory)
	if err := parseForm(r); err != nil {
		var tooLarge *http.MaxBytesError
		msg := "The form could not be read."
		if errors.As(err, &tooLarge) {
			msg = fmt.Sprintf("The file is too large (limit %d MB).", s.config.Upload.MaxSizeMB)
		}
		s.logger.Warn("parse inputs failed", zap.Error(err))
		notice = &session.Notice{Level: "error", Message: msg}
		parsed = false
	} else {
		if key := r.PostFormValue("api_key"); key != "" {
			in.APIKey = &key
		}
		if vals, ok := r.PostForm["job_description"]; ok && len(vals) > 0 {
			jd := vals[0]
			in.JobDescription = &jd
		}
		doc, err := s.readUpload(r, "resume")
		if err != nil {
			notice = &session.Notice{Level: "error", Message: "Upload rejected: " + err.Error() + "."}
		} else if doc != nil {
			in.Document = doc
		}
	}

	sess, unlock, err := s.lockSession(w, r)
	if err != nil {
		s.logger.Error("load session failed", zap.Error(err))
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	defer unlock()
	if notice != nil {
		sess.AddNotice(*notice)
	}
	if !parsed {
		s.saveAndRedirect(w, r, sess)
		return
	}
	s.noteError(sess, s.deps.Service.UpdateInputs(r.Context(), sess, in))
	s.saveAndRedirect(w, r, sess)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess, unlock, err := s.lockSession(w, r)
	if err != nil {
		s.logger.Error("load session failed", zap.Error(err))
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	defer unlock()
	s.noteError(sess, s.deps.Service.Suggest(r.Context(), sess))
	s.saveAndRedirect(w, r, sess)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess, unlock, err := s.lockSession(w, r)
	if err != nil {
		s.logger.Error("load session failed", zap.Error(err))
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	defer unlock()
	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form")
		return
	}
	profile := prompt.Profile{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Phone:    r.PostFormValue("phone"),
		Location: r.PostFormValue("location"),
	}
	s.noteError(sess, s.deps.Service.Generate(r.Context(), sess, profile))
	s.saveAndRedirect(w, r, sess)
}

// handleRetry repeats a failed remote action with the session's current inputs.
func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	sess, unlock, err := s.lockSession(w, r)
	if err != nil {
		s.logger.Error("load session failed", zap.Error(err))
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	defer unlock()
	switch action := r.PostFormValue("action"); action {
	case match.ActionSuggest:
		err = s.deps.Service.Suggest(r.Context(), sess)
	case match.ActionGenerate:
		err = s.deps.Service.Generate(r.Context(), sess, sess.Profile)
	default:
		s.respondError(w, http.StatusBadRequest, "unknown action")
		return
	}
	s.noteError(sess, err)
	s.saveAndRedirect(w, r, sess)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, unlock, err := s.lockSession(w, r)
	if err != nil {
		s.logger.Error("load session failed", zap.Error(err))
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	defer unlock()
	s.deps.Service.Reset(sess)
	s.saveAndRedirect(w, r, sess)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(w, r)
	if err != nil {
		s.logger.Error("load session failed", zap.Error(err))
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	if sess.DocumentPath == "" {
		http.NotFound(w, r)
		return
	}
	f, err := os.Open(sess.DocumentPath)
	if err != nil {
		s.logger.Warn("open rendered resume failed", zap.String("path", sess.DocumentPath), zap.Error(err))
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", DownloadName))
	http.ServeContent(w, r, DownloadName, info.ModTime(), f)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.deps.Store.Count(r.Context())
	if err != nil {
		s.logger.Error("health: count sessions failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"status":   "ok",
		"sessions": sessions,
	}
	if s.deps.Embedder != nil {
		resp["embedding_dimensions"] = s.deps.Embedder.Dimensions()
	}
	if used, err := utils.DiskUsageBytes(s.config.Render.OutputDir); err == nil {
		resp["output_bytes"] = used
	}
	s.respondJSON(w, http.StatusOK, resp)
}

type matchResponse struct {
	Score    float64           `json:"score"`
	Coverage *keyword.Coverage `json:"coverage,omitempty"`
}

// handleAPIMatch scores an uploaded résumé against a job description without a session.
func (s *Server) handleAPIMatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.Upload.MaxBytes()+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	jd := strings.TrimSpace(r.PostFormValue("job_description"))
	if jd == "" {
		s.respondError(w, http.StatusBadRequest, "job_description is required")
		return
	}
	doc, err := s.readUpload(r, "resume")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if doc == nil {
		s.respondError(w, http.StatusBadRequest, "resume is required")
		return
	}
	text, err := s.deps.Extractor.ExtractBytes(doc.Content, filepath.Ext(doc.Name))
	if err != nil {
		s.logger.Warn("api match: extraction failed", zap.String("file", doc.Name), zap.Error(err))
		s.respondError(w, http.StatusUnprocessableEntity, "could not read the resume")
		return
	}
	score, err := s.deps.Scorer.Score(r.Context(), text, jd)
	if err != nil {
		if errors.Is(err, match.ErrEmptyText) {
			s.respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("api match: scoring failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := matchResponse{Score: score}
	if s.deps.Coverage != nil {
		resp.Coverage = s.deps.Coverage.Coverage(text, jd)
	}
	s.respondJSON(w, http.StatusOK, resp)
}

type renderRequest struct {
	Text string `json:"text"`
}

// handleAPIRender renders posted text to a PDF.
func (s *Server) handleAPIRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.Upload.MaxBytes())
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	data, err := s.deps.Renderer.RenderBytes(req.Text)
	if err != nil {
		var uc *render.UnsupportedCharError
		if errors.As(err, &uc) {
			s.respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("api render failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", DownloadName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// readUpload returns the named file part, or nil when none was sent.
func (s *Server) readUpload(r *http.Request, field string) (*match.Document, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !s.config.Upload.Accepts(filepath.Ext(name)) {
		return nil, fmt.Errorf("only %s files are accepted", strings.Join(s.config.Upload.Extensions, ", "))
	}
	if header.Size > s.config.Upload.MaxBytes() {
		return nil, fmt.Errorf("the file is too large (limit %d MB)", s.config.Upload.MaxSizeMB)
	}
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return &match.Document{Name: name, Content: content}, nil
}

// parseForm accepts both multipart and urlencoded bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
