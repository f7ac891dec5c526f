package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	r := &renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{"landing", "enroll"} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// render executes into a buffer first so a template error never leaves a
// half-written page.
func (r *renderer) render(w http.ResponseWriter, page string, data interface{}) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, err := buf.WriteTo(w)
	return err
}

type landingPage struct {
	Title string
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	if err := s.pages.render(w, "landing", landingPage{Title: "Student Enrollment Portal"}); err != nil {
		s.renderFailed(w, r, err)
	}
}

func (s *Server) handleEnrollPage(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Acquire(w, r)
	sess.EnsureColleges(r.Context())

	if err := s.pages.render(w, "enroll", buildEnrollPage(sess.View())); err != nil {
		s.renderFailed(w, r, err)
	}
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sess := s.sessions.Acquire(w, r)
	sess.Verify(r.Context(), r.PostForm.Get("studentId"))
	http.Redirect(w, r, "/enroll", http.StatusSeeOther)
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sess := s.sessions.Acquire(w, r)
	sess.EnsureColleges(r.Context())
	applyForm(sess, r.PostForm)

	switch r.PostForm.Get("action") {
	case "submit":
		sess.Submit(r.Context())
	case "back":
		sess.Back()
	}
	http.Redirect(w, r, "/enroll", http.StatusSeeOther)
}

func (s *Server) handleDismissModal(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.sessions.Lookup(r); ok {
		sess.DismissModal()
	}
	http.Redirect(w, r, "/enroll", http.StatusSeeOther)
}

func (s *Server) renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("page render failed", map[string]interface{}{
		"path":  r.URL.Path,
		"error": err.Error(),
	})
	http.Error(w, "Something went wrong.", http.StatusInternalServerError)
}
