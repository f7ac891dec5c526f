package enrollment

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "student-enrollment/internal/common/errors"
	"student-enrollment/internal/common/logger"
	"student-enrollment/internal/common/metrics"
	"student-enrollment/internal/common/observability"
	"student-enrollment/internal/models"
	"student-enrollment/internal/store"
)

// Hook runs after a record has been written. Hook failures are logged and
// never change the outcome of the enrollment.
type Hook interface {
	Name() string
	OnEnrolled(ctx context.Context, rec models.StudentRecord) error
}

// Options configures a Service.
type Options struct {
	StudentCollection string
	StoreTimeout      time.Duration
	HookTimeout       time.Duration
	CreatedBy         string
	InitialStatus     string
}

// Service performs the store-backed steps of an enrollment.
//
// Uniqueness of the student ID is checked by Verify and not re-checked by
// Submit, so two sessions that both verified the same ID both write and the
// later write wins. Stores are not asked for an atomic create.
type Service struct {
	store  store.Store
	opts   Options
	hooks  []Hook
	obs    *observability.Observability
	logger logger.Logger

	hooksWG sync.WaitGroup
}

func NewService(s store.Store, opts Options, hooks []Hook, obs *observability.Observability, log logger.Logger) *Service {
	if opts.HookTimeout <= 0 {
		opts.HookTimeout = 30 * time.Second
	}
	return &Service{
		store:  s,
		opts:   opts,
		hooks:  hooks,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"component": "enrollment-service"}),
	}
}

// Verify checks whether studentID is free.
func (s *Service) Verify(ctx context.Context, studentID string) Outcome {
	if !ValidStudentID(studentID) {
		out := invalidOutcome(FieldErrors{models.FieldStudentID: MsgVerifyGuard})
		s.obs.RecordVerification(ctx, out.Kind.String())
		return out
	}

	out := s.lookup(ctx, studentID)
	s.obs.RecordVerification(ctx, out.Kind.String())
	s.logger.Info("verification completed", map[string]interface{}{
		"studentId": studentID,
		"outcome":   out.Kind.String(),
	})
	return out
}

func (s *Service) lookup(ctx context.Context, studentID string) Outcome {
	ctx, cancel := withTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	doc, err := s.store.Get(ctx, s.opts.StudentCollection, studentID)
	if errors.Is(err, store.ErrNotFound) {
		return okOutcome()
	}
	if err != nil {
		reason := apperrors.NewStudentLookupFailedError(studentID, err)
		s.logger.Error("student lookup failed", map[string]interface{}{
			"studentId": studentID,
			"errorCode": string(reason.Code),
			"error":     err.Error(),
		})
		return storeFailureOutcome(reason)
	}

	var existing models.StudentRecord
	if err := doc.Decode(&existing); err != nil {
		s.logger.Warn("existing student document is not decodable", map[string]interface{}{
			"studentId": studentID,
			"error":     err.Error(),
		})
	}
	return conflictOutcome(studentID, existing.CandidateName)
}

// Submit validates rec, stamps the system fields with the store's clock and
// writes it under its student ID.
func (s *Service) Submit(ctx context.Context, rec models.StudentRecord) Outcome {
	start := time.Now()
	out := s.submit(ctx, rec)
	s.obs.RecordSubmission(ctx, out.Kind.String(), time.Since(start))
	return out
}

func (s *Service) submit(ctx context.Context, rec models.StudentRecord) Outcome {
	if errs := Validate(&rec); len(errs) > 0 {
		return invalidOutcome(errs)
	}

	ctx, cancel := withTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	now, err := s.store.ServerTime(ctx)
	if err != nil {
		return s.writeFailed(rec.StudentID, err)
	}
	rec.Stamp(s.opts.InitialStatus, s.opts.CreatedBy, now)

	doc, err := store.NewDocument(rec.StudentID, rec)
	if err != nil {
		return s.writeFailed(rec.StudentID, err)
	}
	if err := s.store.Set(ctx, s.opts.StudentCollection, rec.StudentID, doc); err != nil {
		return s.writeFailed(rec.StudentID, err)
	}

	s.logger.Info("student enrolled", map[string]interface{}{
		"studentId": rec.StudentID,
		"college":   rec.College,
		"course":    rec.Course,
		"reference": string(rec.Reference.Type()),
	})
	s.runHooks(ctx, rec)

	out := okOutcome()
	out.Record = &rec
	return out
}

// Enroll is Verify followed by Submit, used by API clients that have no
// wizard session. The two steps are not atomic.
func (s *Service) Enroll(ctx context.Context, rec models.StudentRecord) Outcome {
	if out := s.Verify(ctx, rec.StudentID); out.Kind != KindOK {
		return out
	}
	return s.Submit(ctx, rec)
}

func (s *Service) writeFailed(studentID string, err error) Outcome {
	reason := apperrors.NewStudentWriteFailedError(studentID, err)
	s.logger.Error("student write failed", map[string]interface{}{
		"studentId": studentID,
		"errorCode": string(reason.Code),
		"error":     err.Error(),
	})
	return storeFailureOutcome(reason)
}

// runHooks starts every hook in the background, detached from the request.
func (s *Service) runHooks(ctx context.Context, rec models.StudentRecord) {
	if len(s.hooks) == 0 {
		return
	}
	base := context.WithoutCancel(ctx)

	for _, h := range s.hooks {
		s.hooksWG.Add(1)
		go func(h Hook) {
			defer s.hooksWG.Done()

			hctx, cancel := context.WithTimeout(base, s.opts.HookTimeout)
			defer cancel()

			if err := h.OnEnrolled(hctx, rec); err != nil {
				metrics.HookFailuresTotal.WithLabelValues(h.Name()).Inc()
				s.logger.Warn("post-enrollment hook failed", map[string]interface{}{
					"hook":      h.Name(),
					"studentId": rec.StudentID,
					"error":     err.Error(),
				})
			}
		}(h)
	}
}

// Wait blocks until every started hook has returned.
func (s *Service) Wait() {
	s.hooksWG.Wait()
}
