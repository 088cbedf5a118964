package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hyperjump/resumatch/internal/match"
	"github.com/hyperjump/resumatch/internal/session"
)

// loadSession returns the session named by the request cookie, creating a new
// one (and setting the cookie) when it is missing or expired.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	ctx := r.Context()
	if c, err := r.Cookie(s.config.Session.CookieName); err == nil && c.Value != "" {
		sess, err := s.deps.Store.Get(ctx, c.Value)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, session.ErrNotFound) {
			return nil, err
		}
	}
	sess, err := s.deps.Store.Create(ctx)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Session.CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

// lockSession loads the request's session while holding its lock in the
// service. The caller saves the session before calling unlock.
func (s *Server) lockSession(w http.ResponseWriter, r *http.Request) (*session.Session, func(), error) {
	unlock := func() {}
	if c, err := r.Cookie(s.config.Session.CookieName); err == nil && c.Value != "" {
		unlock = s.deps.Service.Lock(c.Value)
	}
	sess, err := s.loadSession(w, r)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return sess, unlock, nil
}

// saveAndRedirect persists the session and sends the browser back to the page.
func (s *Server) saveAndRedirect(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := s.deps.Store.Save(r.Context(), sess); err != nil {
		s.logger.Error("save session failed", zap.Error(err))
		http.Error(w, "session could not be saved", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// noteError turns an action failure into a notice for the next render.
func (s *Server) noteError(sess *session.Session, err error) {
	if err == nil {
		return
	}
	var ae *match.ActionError
	if errors.As(err, &ae) {
		level := "error"
		if ae.Kind == match.KindInput {
			level = "warning"
		}
		sess.AddNotice(session.Notice{
			Level:     level,
			Message:   ae.Message(),
			Action:    ae.Action,
			Retryable: ae.Retryable,
		})
		return
	}
	s.logger.Error("action failed", zap.Error(err))
	sess.AddNotice(session.Notice{Level: "error", Message: "Something went wrong, please try again."})
}
