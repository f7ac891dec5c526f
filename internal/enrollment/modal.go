package enrollment

import "sync"

const (
	TitleValidation = "Validation"
	TitleError      = "Error"

	MsgAlreadyExists   = "Student ID already exists."
	MsgCorrectErrors   = "Please correct the errors."
	MsgEnrolled        = "Student successfully enrolled!"
	MsgSomethingWrong  = "Something went wrong."
	MsgCollegesFailure = "Failed to load colleges."
)

// Modal is a blocking message with a single dismiss action.
type Modal struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func conflictModal(existingName string) *Modal {
	return &Modal{Title: existingName, Body: MsgAlreadyExists}
}

func validationModal() *Modal {
	return &Modal{Title: TitleValidation, Body: MsgCorrectErrors}
}

func successModal(candidateName string) *Modal {
	return &Modal{Title: candidateName, Body: MsgEnrolled}
}

func failureModal() *Modal {
	return &Modal{Title: TitleError, Body: MsgSomethingWrong}
}

// Presenter holds at most one active modal; Show replaces it. Toasts are
// non-blocking and handed out once.
type Presenter struct {
	mu     sync.Mutex
	active *Modal
	toasts []string
}

func (p *Presenter) Show(m *Modal) {
	if m == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	copied := *m
	p.active = &copied
}

func (p *Presenter) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = nil
}

// Active returns a copy of the current modal, or nil.
func (p *Presenter) Active() *Modal {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return nil
	}
	copied := *p.active
	return &copied
}

func (p *Presenter) Toast(msg string) {
	if msg == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toasts = append(p.toasts, msg)
}

// DrainToasts returns pending toasts and forgets them.
func (p *Presenter) DrainToasts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.toasts
	p.toasts = nil
	return out
}
