package enrollment

import (
	"regexp"
	"sort"

	"student-enrollment/internal/models"
)

const (
	MsgRequired    = "This field is required."
	MsgStudentID   = "Student ID should contain only numbers."
	MsgPhone       = "Enter a valid 10-digit number."
	MsgAadhaar     = "Enter a valid 12-digit Aadhaar number."
	MsgPincode     = "Enter a valid 6-digit pincode."
	MsgVerifyGuard = "Please enter a valid numeric Student ID."
)

var (
	digitsRegex  = regexp.MustCompile(`^\d+$`)
	phoneRegex   = regexp.MustCompile(`^\d{10}$`)
	aadhaarRegex = regexp.MustCompile(`^\d{12}$`)
	pincodeRegex = regexp.MustCompile(`^\d{6}$`)
)

// RequiredFields must be non-empty for a record to be accepted.
var RequiredFields = []models.FieldID{
	models.FieldStudentID,
	models.FieldCandidateName,
	models.FieldCandidateNumber,
	models.FieldCollege,
	models.FieldCourse,
	models.FieldWhatsappNumber,
	models.FieldDOB,
	models.FieldGender,
	models.FieldFatherName,
	models.FieldParentNumber,
	models.FieldAdhaarNumber,
	models.FieldCandidateEmail,
	models.FieldReferenceUserType,
	models.FieldAddress,
	models.FieldMotherName,
	models.FieldMotherNumber,
	models.FieldReligion,
	models.FieldState,
	models.FieldDistrict,
	models.FieldPincode,
}

type formatRule struct {
	pattern *regexp.Regexp
	message string
}

// formatRules apply only to non-empty values and replace the required message.
var formatRules = map[models.FieldID]formatRule{
	models.FieldStudentID:       {digitsRegex, MsgStudentID},
	models.FieldCandidateNumber: {phoneRegex, MsgPhone},
	models.FieldParentNumber:    {phoneRegex, MsgPhone},
	models.FieldWhatsappNumber:  {phoneRegex, MsgPhone},
	models.FieldMotherNumber:    {phoneRegex, MsgPhone},
	models.FieldAdhaarNumber:    {aadhaarRegex, MsgAadhaar},
	models.FieldPincode:         {pincodeRegex, MsgPincode},
}

// FieldErrors maps a field to its message. Empty means valid.
type FieldErrors map[models.FieldID]string

// Fields returns the fields with errors in declaration order.
func (fe FieldErrors) Fields() []models.FieldID {
	out := make([]models.FieldID, 0, len(fe))
	for f := range fe {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Message returns the error for f, or "".
func (fe FieldErrors) Message(f models.FieldID) string {
	return fe[f]
}

// ByName re-keys the errors by wire name for JSON responses.
func (fe FieldErrors) ByName() map[string]string {
	out := make(map[string]string, len(fe))
	for f, msg := range fe {
		out[f.String()] = msg
	}
	return out
}

// Validate checks the required list and the digit formats. A value is
// checked exactly as entered; whitespace counts as content.
func Validate(rec *models.StudentRecord) FieldErrors {
	errs := FieldErrors{}

	for _, f := range RequiredFields {
		if rec.Value(f) == "" {
			errs[f] = MsgRequired
		}
	}

	for f, rule := range formatRules {
		v := rec.Value(f)
		if v != "" && !rule.pattern.MatchString(v) {
			errs[f] = rule.message
		}
	}

	return errs
}

// ValidStudentID is the verification-step guard: non-empty and all digits.
func ValidStudentID(id string) bool {
	return digitsRegex.MatchString(id)
}
