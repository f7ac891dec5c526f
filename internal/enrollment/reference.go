package enrollment

import (
	"context"
	"sort"
	"time"

	apperrors "student-enrollment/internal/common/errors"
	"student-enrollment/internal/common/logger"
	"student-enrollment/internal/common/observability"
	"student-enrollment/internal/common/validation"
	"student-enrollment/internal/models"
	"student-enrollment/internal/store"
)

// ReferenceLoader reads the college collection.
type ReferenceLoader struct {
	store      store.Store
	collection string
	timeout    time.Duration
	obs        *observability.Observability
	logger     logger.Logger
}

func NewReferenceLoader(s store.Store, collection string, timeout time.Duration, obs *observability.Observability, log logger.Logger) *ReferenceLoader {
	return &ReferenceLoader{
		store:      s,
		collection: collection,
		timeout:    timeout,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"component": "reference-loader"}),
	}
}

// Load lists every college ordered by name. Documents that fail the college
// schema are skipped; a missing course list reads as empty.
func (l *ReferenceLoader) Load(ctx context.Context) ([]models.CollegeOption, error) {
	ctx, cancel := withTimeout(ctx, l.timeout)
	defer cancel()

	docs, err := l.store.List(ctx, l.collection)
	if err != nil {
		l.obs.RecordReferenceLoad(ctx, "failed")
		l.logger.Error("failed to load colleges", map[string]interface{}{
			"collection": l.collection,
			"error":      err.Error(),
		})
		return nil, apperrors.NewReferenceDataLoadFailedError(l.collection, err)
	}

	colleges := make([]models.CollegeOption, 0, len(docs))
	for _, doc := range docs {
		res, err := validation.CollegeSchema.ValidateBytes(doc.Data)
		if err != nil {
			l.logger.Warn("skipping unreadable college document", map[string]interface{}{
				"id":    doc.ID,
				"error": err.Error(),
			})
			continue
		}
		if !res.Valid {
			l.logger.Warn("skipping malformed college document", map[string]interface{}{
				"id":     doc.ID,
				"errors": res.Errors,
			})
			continue
		}

		var c models.CollegeOption
		if err := doc.Decode(&c); err != nil {
			l.logger.Warn("skipping undecodable college document", map[string]interface{}{
				"id":    doc.ID,
				"error": err.Error(),
			})
			continue
		}
		c.ID = doc.ID
		if c.Courses == nil {
			c.Courses = []string{}
		}
		colleges = append(colleges, c)
	}
	sort.SliceStable(colleges, func(i, j int) bool { return colleges[i].Name < colleges[j].Name })

	l.obs.RecordReferenceLoad(ctx, "ok")
	l.logger.Debug("colleges loaded", map[string]interface{}{
		"count":   len(colleges),
		"skipped": len(docs) - len(colleges),
	})
	return colleges, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
