package enrollment

import (
	"strings"

	apperrors "student-enrollment/internal/common/errors"
	"student-enrollment/internal/models"
)

// Kind classifies the result of a verify or submit call.
type Kind int

const (
	KindOK Kind = iota
	KindInvalid
	KindConflict
	KindStoreFailure
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindInvalid:
		return "invalid"
	case KindConflict:
		return "conflict"
	case KindStoreFailure:
		return "store_failure"
	}
	return "unknown"
}

// Outcome is the typed result of a store-backed enrollment step.
type Outcome struct {
	Kind Kind
	// Reason is set for every kind except KindOK.
	Reason *apperrors.StandardError
	// Errors is set for KindInvalid.
	Errors FieldErrors
	// ExistingName is the stored candidate name for KindConflict.
	ExistingName string
	// Record is the stored document for a successful submit.
	Record *models.StudentRecord
}

func okOutcome() Outcome {
	return Outcome{Kind: KindOK}
}

func invalidOutcome(errs FieldErrors) Outcome {
	return Outcome{
		Kind:   KindInvalid,
		Reason: apperrors.NewStudentValidationFailedError(errorSummary(errs)),
		Errors: errs,
	}
}

func conflictOutcome(studentID, existingName string) Outcome {
	return Outcome{
		Kind:         KindConflict,
		Reason:       apperrors.NewDuplicateStudentIDError(studentID),
		ExistingName: existingName,
	}
}

// rejectedOutcome reports a request the current wizard state does not accept.
func rejectedOutcome(details string) Outcome {
	return Outcome{Kind: KindInvalid, Reason: apperrors.NewInvalidRequestError(details), Errors: FieldErrors{}}
}

func storeFailureOutcome(reason *apperrors.StandardError) Outcome {
	return Outcome{Kind: KindStoreFailure, Reason: reason}
}

func errorSummary(errs FieldErrors) string {
	names := make([]string, 0, len(errs))
	for _, f := range errs.Fields() {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}
