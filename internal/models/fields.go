package models

// FieldID identifies one editable field of a StudentRecord.
type FieldID int

const (
	FieldStudentID FieldID = iota
	FieldCandidateName
	FieldCandidateNumber
	FieldCandidateEmail
	FieldCollege
	FieldCourse
	FieldWhatsappNumber
	FieldDOB
	FieldGender
	FieldFatherName
	FieldParentNumber
	FieldMotherName
	FieldMotherNumber
	FieldAlternativeNumber
	FieldAdhaarNumber
	FieldAddress
	FieldReligion
	FieldState
	FieldDistrict
	FieldPincode
	FieldPlusTwoRegNumber
	FieldStream
	FieldPlusTwoSchoolName
	FieldPlusTwoSchoolPlace
	FieldLastQualification
	FieldLastQualificationMarks
	FieldTotalAmountPaid
	FieldPaymentRemark
	FieldReferenceUserType
	FieldReferenceUserName
	FieldReferenceConsultancyName

	fieldCount
)

var fieldNames = [fieldCount]string{
	FieldStudentID:                "studentId",
	FieldCandidateName:            "candidateName",
	FieldCandidateNumber:          "candidateNumber",
	FieldCandidateEmail:           "candidateEmail",
	FieldCollege:                  "college",
	FieldCourse:                   "course",
	FieldWhatsappNumber:           "whatsappNumber",
	FieldDOB:                      "dob",
	FieldGender:                   "gender",
	FieldFatherName:               "fatherName",
	FieldParentNumber:             "parentNumber",
	FieldMotherName:               "motherName",
	FieldMotherNumber:             "motherNumber",
	FieldAlternativeNumber:        "alternativeNumber",
	FieldAdhaarNumber:             "adhaarNumber",
	FieldAddress:                  "address",
	FieldReligion:                 "religion",
	FieldState:                    "state",
	FieldDistrict:                 "district",
	FieldPincode:                  "pincode",
	FieldPlusTwoRegNumber:         "plusTwoRegNumber",
	FieldStream:                   "stream",
	FieldPlusTwoSchoolName:        "plusTwoSchoolName",
	FieldPlusTwoSchoolPlace:       "plusTwoSchoolPlace",
	FieldLastQualification:        "lastQualification",
	FieldLastQualificationMarks:   "lastQualificationMarks",
	FieldTotalAmountPaid:          "totalAmountPaid",
	FieldPaymentRemark:            "paymentRemark",
	FieldReferenceUserType:        "reference.userType",
	FieldReferenceUserName:        "reference.userName",
	FieldReferenceConsultancyName: "reference.consultancyName",
}

var fieldsByName = func() map[string]FieldID {
	m := make(map[string]FieldID, fieldCount)
	for id, name := range fieldNames {
		m[name] = FieldID(id)
	}
	return m
}()

// String returns the wire name, e.g. "candidateName" or "reference.userType".
func (f FieldID) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// MarshalText lets FieldID key JSON objects by wire name.
func (f FieldID) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// ParseFieldID resolves a wire name.
func ParseFieldID(name string) (FieldID, bool) {
	id, ok := fieldsByName[name]
	return id, ok
}

// AllFields returns every field in declaration order.
func AllFields() []FieldID {
	out := make([]FieldID, fieldCount)
	for i := range out {
		out[i] = FieldID(i)
	}
	return out
}

// Value reads a field of the record.
func (s *StudentRecord) Value(f FieldID) string {
	switch f {
	case FieldStudentID:
		return s.StudentID
	case FieldCandidateName:
		return s.CandidateName
	case FieldCandidateNumber:
		return s.CandidateNumber
	case FieldCandidateEmail:
		return s.CandidateEmail
	case FieldCollege:
		return s.College
	case FieldCourse:
		return s.Course
	case FieldWhatsappNumber:
		return s.WhatsappNumber
	case FieldDOB:
		return s.DOB
	case FieldGender:
		return s.Gender
	case FieldFatherName:
		return s.FatherName
	case FieldParentNumber:
		return s.ParentNumber
	case FieldMotherName:
		return s.MotherName
	case FieldMotherNumber:
		return s.MotherNumber
	case FieldAlternativeNumber:
		return s.AlternativeNumber
	case FieldAdhaarNumber:
		return s.AdhaarNumber
	case FieldAddress:
		return s.Address
	case FieldReligion:
		return s.Religion
	case FieldState:
		return s.State
	case FieldDistrict:
		return s.District
	case FieldPincode:
		return s.Pincode
	case FieldPlusTwoRegNumber:
		return s.PlusTwoRegNumber
	case FieldStream:
		return s.Stream
	case FieldPlusTwoSchoolName:
		return s.PlusTwoSchoolName
	case FieldPlusTwoSchoolPlace:
		return s.PlusTwoSchoolPlace
	case FieldLastQualification:
		return s.LastQualification
	case FieldLastQualificationMarks:
		return s.LastQualificationMarks
	case FieldTotalAmountPaid:
		return s.TotalAmountPaid
	case FieldPaymentRemark:
		return s.PaymentRemark
	case FieldReferenceUserType:
		return string(s.Reference.Type())
	case FieldReferenceUserName:
		return s.Reference.Referrer()
	case FieldReferenceConsultancyName:
		return s.Reference.Consultancy()
	}
	return ""
}

// SetValue writes a field without side effects. Reference fields go through
// the Reference accessors, so an edit the current type forbids is dropped and
// SetValue reports false.
func (s *StudentRecord) SetValue(f FieldID, v string) bool {
	switch f {
	case FieldStudentID:
		s.StudentID = v
	case FieldCandidateName:
		s.CandidateName = v
	case FieldCandidateNumber:
		s.CandidateNumber = v
	case FieldCandidateEmail:
		s.CandidateEmail = v
	case FieldCollege:
		s.College = v
	case FieldCourse:
		s.Course = v
	case FieldWhatsappNumber:
		s.WhatsappNumber = v
	case FieldDOB:
		s.DOB = v
	case FieldGender:
		s.Gender = v
	case FieldFatherName:
		s.FatherName = v
	case FieldParentNumber:
		s.ParentNumber = v
	case FieldMotherName:
		s.MotherName = v
	case FieldMotherNumber:
		s.MotherNumber = v
	case FieldAlternativeNumber:
		s.AlternativeNumber = v
	case FieldAdhaarNumber:
		s.AdhaarNumber = v
	case FieldAddress:
		s.Address = v
	case FieldReligion:
		s.Religion = v
	case FieldState:
		s.State = v
	case FieldDistrict:
		s.District = v
	case FieldPincode:
		s.Pincode = v
	case FieldPlusTwoRegNumber:
		s.PlusTwoRegNumber = v
	case FieldStream:
		s.Stream = v
	case FieldPlusTwoSchoolName:
		s.PlusTwoSchoolName = v
	case FieldPlusTwoSchoolPlace:
		s.PlusTwoSchoolPlace = v
	case FieldLastQualification:
		s.LastQualification = v
	case FieldLastQualificationMarks:
		s.LastQualificationMarks = v
	case FieldTotalAmountPaid:
		s.TotalAmountPaid = v
	case FieldPaymentRemark:
		s.PaymentRemark = v
	case FieldReferenceUserType:
		t, ok := ParseReferenceType(v)
		if !ok {
			return false
		}
		s.Reference.SelectType(t)
	case FieldReferenceUserName:
		return s.Reference.SetReferrer(v)
	case FieldReferenceConsultancyName:
		return s.Reference.SetConsultancy(v)
	default:
		return false
	}
	return true
}
