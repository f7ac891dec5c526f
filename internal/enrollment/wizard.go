package enrollment

import (
	"strings"

	"student-enrollment/internal/models"
)

// Step is the wizard page.
type Step int

const (
	StepVerification Step = iota + 1
	StepDetails
)

func (s Step) String() string {
	switch s {
	case StepVerification:
		return "verification"
	case StepDetails:
		return "details"
	}
	return "unknown"
}

// Number is the 1-based position shown in the progress tracker.
func (s Step) Number() int { return int(s) }

// SubmissionStatus tracks an in-flight write.
type SubmissionStatus int

const (
	StatusIdle SubmissionStatus = iota
	StatusLoading
)

func (s SubmissionStatus) String() string {
	if s == StatusLoading {
		return "loading"
	}
	return "idle"
}

// Effect is what the caller must do after a transition.
type Effect struct {
	// Modal replaces the active modal when non-nil.
	Modal *Modal
	// Lookup asks the caller to check the store for this student ID.
	Lookup string
	// Write asks the caller to persist this record.
	Write *models.StudentRecord
	// Reset reports that the draft was cleared.
	Reset bool
}

// Wizard is the two-step enrollment state. Transitions are value methods:
// they return the next state and leave the receiver untouched.
type Wizard struct {
	Step    Step
	Status  SubmissionStatus
	Draft   models.StudentRecord
	Errors  FieldErrors
	Courses []string
}

// NewWizard returns the initial state: Verification, idle, empty draft.
func NewWizard() Wizard {
	return Wizard{
		Step:   StepVerification,
		Status: StatusIdle,
		Draft:  models.NewStudentRecord(),
		Errors: FieldErrors{},
	}
}

func (w Wizard) clone() Wizard {
	next := w
	next.Errors = make(FieldErrors, len(w.Errors))
	for f, msg := range w.Errors {
		next.Errors[f] = msg
	}
	if w.Courses != nil {
		next.Courses = append([]string(nil), w.Courses...)
	}
	return next
}

// Editable reports whether f accepts input in the current state.
func (w Wizard) Editable(f models.FieldID) bool {
	if w.Status == StatusLoading {
		return false
	}
	if w.Step == StepVerification {
		return f == models.FieldStudentID
	}
	switch f {
	case models.FieldStudentID:
		return false
	case models.FieldCourse:
		return w.Draft.College != ""
	case models.FieldReferenceUserName:
		return w.Draft.Reference.ReferrerEditable()
	case models.FieldReferenceConsultancyName:
		return w.Draft.Reference.ConsultancyEditable()
	}
	return true
}

// ApplyChange records one field edit and clears that field's error. Edits to
// fields that are not editable are ignored and reported as false.
func (w Wizard) ApplyChange(f models.FieldID, value string, colleges []models.CollegeOption) (Wizard, bool) {
	if !w.Editable(f) {
		return w, false
	}

	next := w.clone()
	switch f {
	case models.FieldCollege:
		next.Draft.College = value
		next.Draft.Course = ""
		next.Courses = models.CoursesFor(colleges, value)
	case models.FieldCourse:
		if value != "" && !contains(next.Courses, value) {
			return w, false
		}
		next.Draft.Course = value
	default:
		if !next.Draft.SetValue(f, value) {
			return w, false
		}
	}

	delete(next.Errors, f)
	return next, true
}

// RefreshCourses recomputes the course list after the college list arrives.
func (w Wizard) RefreshCourses(colleges []models.CollegeOption) Wizard {
	next := w.clone()
	next.Courses = models.CoursesFor(colleges, next.Draft.College)
	return next
}

// BeginVerify applies the numeric guard to id. On success the effect asks
// for a store lookup; on failure the inline error replaces all others.
func (w Wizard) BeginVerify(id string) (Wizard, Effect) {
	if w.Step != StepVerification || w.Status != StatusIdle {
		return w, Effect{}
	}

	next := w.clone()
	id = strings.TrimSpace(id)
	if !ValidStudentID(id) {
		next.Errors = FieldErrors{models.FieldStudentID: MsgVerifyGuard}
		return next, Effect{}
	}

	next.Draft.StudentID = id
	delete(next.Errors, models.FieldStudentID)
	return next, Effect{Lookup: id}
}

// ResolveVerify applies the lookup result.
func (w Wizard) ResolveVerify(out Outcome) (Wizard, Effect) {
	if w.Step != StepVerification {
		return w, Effect{}
	}

	switch out.Kind {
	case KindOK:
		next := w.clone()
		next.Step = StepDetails
		return next, Effect{}
	case KindConflict:
		return w, Effect{Modal: conflictModal(out.ExistingName)}
	case KindInvalid:
		next := w.clone()
		for f, msg := range out.Errors {
			next.Errors[f] = msg
		}
		return next, Effect{}
	default:
		return w, Effect{Modal: failureModal()}
	}
}

// Back returns to Verification keeping the draft.
func (w Wizard) Back() Wizard {
	if w.Step != StepDetails || w.Status != StatusIdle {
		return w
	}
	next := w.clone()
	next.Step = StepVerification
	return next
}

// BeginSubmit validates the draft. Errors keep the wizard in Details with the
// validation modal; a clean draft moves to loading and the effect carries
// the record to write.
func (w Wizard) BeginSubmit() (Wizard, Effect) {
	if w.Step != StepDetails || w.Status != StatusIdle {
		return w, Effect{}
	}

	next := w.clone()
	if errs := Validate(&next.Draft); len(errs) > 0 {
		next.Errors = errs
		return next, Effect{Modal: validationModal()}
	}

	next.Status = StatusLoading
	record := next.Draft
	return next, Effect{Write: &record}
}

// ResolveSubmit applies the write result. Success resets to a fresh wizard;
// any failure returns to idle with the draft untouched.
func (w Wizard) ResolveSubmit(out Outcome) (Wizard, Effect) {
	if w.Status != StatusLoading {
		return w, Effect{}
	}

	switch out.Kind {
	case KindOK:
		return NewWizard(), Effect{Modal: successModal(w.Draft.CandidateName), Reset: true}
	case KindInvalid:
		next := w.clone()
		next.Status = StatusIdle
		next.Errors = out.Errors
		return next, Effect{Modal: validationModal()}
	default:
		next := w.clone()
		next.Status = StatusIdle
		return next, Effect{Modal: failureModal()}
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
