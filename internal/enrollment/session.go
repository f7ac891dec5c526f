package enrollment

import (
	"context"
	"sync"

	"student-enrollment/internal/models"
)

// View is a snapshot of a session for rendering.
type View struct {
	Wizard   Wizard
	Colleges []models.CollegeOption
	Modal    *Modal
	Toasts   []string
}

// Session owns one browser's wizard. The mutex is held across a verify
// lookup. A submit releases it for the write, while the wizard sits in
// StatusLoading and rejects every other transition, so the page can render
// the loading state.
type Session struct {
	ID string

	mu             sync.Mutex
	wizard         Wizard
	presenter      Presenter
	colleges       []models.CollegeOption
	collegesLoaded bool

	service *Service
	loader  *ReferenceLoader
}

func NewSession(id string, service *Service, loader *ReferenceLoader) *Session {
	return &Session{
		ID:      id,
		wizard:  NewWizard(),
		service: service,
		loader:  loader,
	}
}

// EnsureColleges loads the college list on first use. A failed load leaves
// a toast and is retried on the next call.
func (s *Session) EnsureColleges(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collegesLoaded {
		return
	}
	colleges, err := s.loader.Load(ctx)
	if err != nil {
		s.presenter.Toast(MsgCollegesFailure)
		return
	}
	s.colleges = colleges
	s.collegesLoaded = true
	s.wizard = s.wizard.RefreshCourses(colleges)
}

// Change applies one field edit.
func (s *Session) Change(f models.FieldID, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.wizard.ApplyChange(f, value, s.colleges)
	s.wizard = next
	return ok
}

// Verify records id as typed and runs the verification step for it.
func (s *Session) Verify(ctx context.Context, id string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wizard.Step != StepVerification {
		return rejectedOutcome("verification is not the current step")
	}
	s.wizard, _ = s.wizard.ApplyChange(models.FieldStudentID, id, s.colleges)
	next, eff := s.wizard.BeginVerify(id)
	s.wizard = next
	if eff.Lookup == "" {
		return invalidOutcome(s.wizard.Errors)
	}

	out := s.service.Verify(ctx, eff.Lookup)
	next, eff = s.wizard.ResolveVerify(out)
	s.wizard = next
	s.presenter.Show(eff.Modal)
	return out
}

// Submit validates and writes the draft.
func (s *Session) Submit(ctx context.Context) Outcome {
	record, early, ok := s.beginSubmit()
	if !ok {
		return early
	}

	out := s.service.Submit(ctx, record)

	s.mu.Lock()
	defer s.mu.Unlock()
	next, eff := s.wizard.ResolveSubmit(out)
	s.wizard = next
	s.presenter.Show(eff.Modal)
	return out
}

// beginSubmit moves the wizard to loading and returns the record to write.
// When ok is false the returned outcome is final.
func (s *Session) beginSubmit() (models.StudentRecord, Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wizard.Step != StepDetails || s.wizard.Status != StatusIdle {
		return models.StudentRecord{}, rejectedOutcome("submit requires the details step with no submission in flight"), false
	}
	next, eff := s.wizard.BeginSubmit()
	s.wizard = next
	if eff.Write == nil {
		s.presenter.Show(eff.Modal)
		return models.StudentRecord{}, invalidOutcome(s.wizard.Errors), false
	}
	return *eff.Write, Outcome{}, true
}

// Back returns to the verification step.
func (s *Session) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard = s.wizard.Back()
}

// DismissModal clears the active modal.
func (s *Session) DismissModal() {
	s.presenter.Dismiss()
}

// View returns the current state and hands out pending toasts.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		Wizard:   s.wizard.clone(),
		Colleges: append([]models.CollegeOption(nil), s.colleges...),
		Modal:    s.presenter.Active(),
		Toasts:   s.presenter.DrainToasts(),
	}
}

// Draft returns a copy of the record being edited.
func (s *Session) Draft() models.StudentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wizard.Draft
}
