// Package workflow starts the enquiry follow-up process in Camunda for each
// new enrollment.
package workflow

import (
	"context"
	"time"

	"student-enrollment/internal/common/logger"
	"student-enrollment/internal/models"
)

const HookName = "camunda-followup"

// ProcessStarter is the part of the Camunda client used to start processes.
type ProcessStarter interface {
	StartProcess(ctx context.Context, processID string, variables interface{}) (int64, error)
}

// Variables is the payload handed to the follow-up process.
type Variables struct {
	StudentID         string `json:"studentId"`
	CandidateName     string `json:"candidateName"`
	CandidateNumber   string `json:"candidateNumber"`
	CandidateEmail    string `json:"candidateEmail"`
	College           string `json:"college"`
	Course            string `json:"course"`
	ReferenceType     string `json:"referenceType"`
	ReferenceName     string `json:"referenceName,omitempty"`
	ConsultancyName   string `json:"consultancyName,omitempty"`
	ApplicationStatus string `json:"applicationStatus"`
	CreatedAt         string `json:"createdAt,omitempty"`
}

type Followup struct {
	starter   ProcessStarter
	processID string
	logger    logger.Logger
}

func NewFollowup(starter ProcessStarter, processID string, log logger.Logger) *Followup {
	return &Followup{
		starter:   starter,
		processID: processID,
		logger:    log.WithFields(map[string]interface{}{"hook": HookName, "processId": processID}),
	}
}

func (f *Followup) Name() string { return HookName }

func (f *Followup) OnEnrolled(ctx context.Context, rec models.StudentRecord) error {
	key, err := f.starter.StartProcess(ctx, f.processID, VariablesFromRecord(rec))
	if err != nil {
		return err
	}

	f.logger.Info("follow-up process started", map[string]interface{}{
		"studentId":          rec.StudentID,
		"processInstanceKey": key,
	})
	return nil
}

func VariablesFromRecord(rec models.StudentRecord) Variables {
	v := Variables{
		StudentID:         rec.StudentID,
		CandidateName:     rec.CandidateName,
		CandidateNumber:   rec.CandidateNumber,
		CandidateEmail:    rec.CandidateEmail,
		College:           rec.College,
		Course:            rec.Course,
		ReferenceType:     string(rec.Reference.Type()),
		ReferenceName:     rec.Reference.Referrer(),
		ConsultancyName:   rec.Reference.Consultancy(),
		ApplicationStatus: rec.ApplicationStatus,
	}
	if !rec.CreatedAt.IsZero() {
		v.CreatedAt = rec.CreatedAt.UTC().Format(time.RFC3339)
	}
	return v
}
