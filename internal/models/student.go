package models

import (
	"strings"
	"time"
)

// StudentRecord is the document stored under its StudentID in the student
// collection. JSON names are shared with every other reader of that
// collection and must not change.
type StudentRecord struct {
	StudentID string `json:"studentId"`

	CandidateName   string `json:"candidateName"`
	CandidateNumber string `json:"candidateNumber"`
	CandidateEmail  string `json:"candidateEmail"`
	College         string `json:"college"`
	Course          string `json:"course"`
	WhatsappNumber  string `json:"whatsappNumber"`
	DOB             string `json:"dob"`
	Gender          string `json:"gender"`

	FatherName        string `json:"fatherName"`
	ParentNumber      string `json:"parentNumber"`
	MotherName        string `json:"motherName"`
	MotherNumber      string `json:"motherNumber"`
	AlternativeNumber string `json:"alternativeNumber"`
	AdhaarNumber      string `json:"adhaarNumber"`

	Address  string `json:"address"`
	Religion string `json:"religion"`
	State    string `json:"state"`
	District string `json:"district"`
	Pincode  string `json:"pincode"`

	PlusTwoRegNumber       string `json:"plusTwoRegNumber"`
	Stream                 string `json:"stream"`
	PlusTwoSchoolName      string `json:"plusTwoSchoolName"`
	PlusTwoSchoolPlace     string `json:"plusTwoSchoolPlace"`
	LastQualification      string `json:"lastQualification"`
	LastQualificationMarks string `json:"lastQualificationMarks"`

	TotalAmountPaid string `json:"totalAmountPaid"`
	PaymentRemark   string `json:"paymentRemark"`

	Reference Reference `json:"reference"`

	ApplicationStatus string    `json:"applicationStatus"`
	CreatedAt         time.Time `json:"createdAt,omitzero"`
	CreatedBy         string    `json:"createdBy"`
}

// NewStudentRecord returns an empty draft.
func NewStudentRecord() StudentRecord {
	return StudentRecord{}
}

// Stamp sets the system fields written once at creation.
func (s *StudentRecord) Stamp(status, createdBy string, createdAt time.Time) {
	s.ApplicationStatus = status
	s.CreatedBy = createdBy
	s.CreatedAt = createdAt
}

// ReferenceType is how the student came to the institution.
type ReferenceType string

const (
	ReferenceNone        ReferenceType = ""
	ReferenceDirect      ReferenceType = "Direct"
	ReferenceAssociate   ReferenceType = "Associate"
	ReferenceConsultancy ReferenceType = "Consultancy"
)

// ReferenceTypes lists the selectable reference types in display order.
var ReferenceTypes = []ReferenceType{ReferenceDirect, ReferenceAssociate, ReferenceConsultancy}

// ParseReferenceType returns the matching type and whether it was known.
// The empty string maps to ReferenceNone.
func ParseReferenceType(s string) (ReferenceType, bool) {
	switch ReferenceType(strings.TrimSpace(s)) {
	case ReferenceNone:
		return ReferenceNone, true
	case ReferenceDirect:
		return ReferenceDirect, true
	case ReferenceAssociate:
		return ReferenceAssociate, true
	case ReferenceConsultancy:
		return ReferenceConsultancy, true
	}
	return ReferenceNone, false
}

// Reference is the nested referral block of a StudentRecord.
type Reference struct {
	UserType        ReferenceType `json:"userType"`
	UserName        string        `json:"userName"`
	ConsultancyName string        `json:"consultancyName"`
}

// Type returns the selected reference type.
func (r Reference) Type() ReferenceType { return r.UserType }

// Referrer returns the referrer name.
func (r Reference) Referrer() string { return r.UserName }

// Consultancy returns the consultancy name.
func (r Reference) Consultancy() string { return r.ConsultancyName }

// SelectType changes the reference type and applies its defaults:
// Associate fills the consultancy name, Direct fills the referrer name and
// clears the consultancy name, Consultancy leaves both untouched.
func (r *Reference) SelectType(t ReferenceType) {
	r.UserType = t
	switch t {
	case ReferenceAssociate:
		r.ConsultancyName = string(ReferenceAssociate)
	case ReferenceDirect:
		r.UserName = string(ReferenceDirect)
		r.ConsultancyName = ""
	}
}

// ReferrerEditable reports whether the referrer name accepts input.
func (r Reference) ReferrerEditable() bool {
	return r.UserType != ReferenceDirect
}

// ConsultancyEditable reports whether the consultancy name accepts input.
func (r Reference) ConsultancyEditable() bool {
	return r.UserType == ReferenceConsultancy
}

// SetReferrer updates the referrer name when editable.
func (r *Reference) SetReferrer(name string) bool {
	if !r.ReferrerEditable() {
		return false
	}
	r.UserName = name
	return true
}

// SetConsultancy updates the consultancy name when editable.
func (r *Reference) SetConsultancy(name string) bool {
	if !r.ConsultancyEditable() {
		return false
	}
	r.ConsultancyName = name
	return true
}

// Normalized replays r through SelectType and the setters, so the names
// obey the same defaults and locks as an interactive edit. An unknown type
// yields an empty Reference.
func (r Reference) Normalized() Reference {
	var out Reference
	t, ok := ParseReferenceType(string(r.UserType))
	if !ok {
		return out
	}
	out.SelectType(t)
	out.SetReferrer(r.UserName)
	out.SetConsultancy(r.ConsultancyName)
	return out
}
