// Package crm pushes each enrollment into Zoho CRM as a lead so the
// admissions team can follow it up.
package crm

import (
	"context"
	"fmt"

	apperrors "student-enrollment/internal/common/errors"
	"student-enrollment/internal/common/logger"
	"student-enrollment/internal/common/zoho"
	"student-enrollment/internal/models"
)

const HookName = "zoho-lead"

const leadStatus = "Enquiry"

// LeadWriter is the part of the Zoho client used by LeadSync.
type LeadWriter interface {
	UpsertLead(ctx context.Context, lead *zoho.Lead) (string, error)
}

type LeadSync struct {
	client LeadWriter
	logger logger.Logger
}

func NewLeadSync(client LeadWriter, log logger.Logger) *LeadSync {
	return &LeadSync{
		client: client,
		logger: log.WithFields(map[string]interface{}{"hook": HookName}),
	}
}

func (s *LeadSync) Name() string { return HookName }

func (s *LeadSync) OnEnrolled(ctx context.Context, rec models.StudentRecord) error {
	lead := LeadFromRecord(rec)

	id, err := s.client.UpsertLead(ctx, lead)
	if err != nil {
		return apperrors.NewExternalServiceError("zoho", err).
			WithMetadata("studentId", rec.StudentID)
	}

	s.logger.Info("lead synced", map[string]interface{}{
		"studentId": rec.StudentID,
		"leadId":    id,
	})
	return nil
}

// LeadFromRecord maps an enrollment onto a lead. The reference type becomes
// the lead source.
func LeadFromRecord(rec models.StudentRecord) *zoho.Lead {
	source := string(rec.Reference.Type())
	if source == "" {
		source = "Web Enrollment"
	}

	return &zoho.Lead{
		LastName:    rec.CandidateName,
		Email:       rec.CandidateEmail,
		Mobile:      rec.CandidateNumber,
		Source:      source,
		Status:      leadStatus,
		Description: fmt.Sprintf("%s / %s", rec.College, rec.Course),
		StudentID:   rec.StudentID,
		College:     rec.College,
		Course:      rec.Course,
		Referrer:    rec.Reference.Referrer(),
		Consultancy: rec.Reference.Consultancy(),
		State:       rec.State,
		City:        rec.District,
		ZipCode:     rec.Pincode,
	}
}
