package web

import (
	"net/url"

	"student-enrollment/internal/enrollment"
	"student-enrollment/internal/models"
)

const (
	kindText     = "text"
	kindEmail    = "email"
	kindTel      = "tel"
	kindDate     = "date"
	kindSelect   = "select"
	kindTextarea = "textarea"
)

type fieldSpec struct {
	id          models.FieldID
	label       string
	kind        string
	placeholder string
	options     func(enrollment.View) []string
}

type sectionSpec struct {
	title  string
	fields []fieldSpec
}

func fixedOptions(opts []string) func(enrollment.View) []string {
	return func(enrollment.View) []string { return opts }
}

func collegeOptions(v enrollment.View) []string {
	names := make([]string, 0, len(v.Colleges))
	for _, c := range v.Colleges {
		names = append(names, c.Name)
	}
	return names
}

func courseOptions(v enrollment.View) []string {
	return v.Wizard.Courses
}

var studentIDSpec = fieldSpec{
	id:          models.FieldStudentID,
	label:       "Student ID",
	kind:        kindText,
	placeholder: "Enter 10th Register Number",
}

var detailSections = []sectionSpec{
	{
		title: "Candidate Information",
		fields: []fieldSpec{
			{id: models.FieldCandidateName, label: "Full Name", kind: kindText},
			{id: models.FieldCandidateNumber, label: "Contact Number", kind: kindTel},
			{id: models.FieldCandidateEmail, label: "Email", kind: kindEmail},
			{id: models.FieldCollege, label: "College", kind: kindSelect, options: collegeOptions},
			{id: models.FieldCourse, label: "Course", kind: kindSelect, options: courseOptions},
			{id: models.FieldWhatsappNumber, label: "WhatsApp Number", kind: kindTel},
			{id: models.FieldDOB, label: "Date of Birth", kind: kindDate},
			{id: models.FieldGender, label: "Gender", kind: kindSelect, options: fixedOptions(models.GenderOptions)},
		},
	},
	{
		title: "Personal Details",
		fields: []fieldSpec{
			{id: models.FieldAdhaarNumber, label: "Aadhaar Number", kind: kindText},
			{id: models.FieldReligion, label: "Religion", kind: kindSelect, options: fixedOptions(models.ReligionOptions)},
			{id: models.FieldFatherName, label: "Father's Name", kind: kindText},
			{id: models.FieldParentNumber, label: "Parent's Number", kind: kindTel},
			{id: models.FieldMotherName, label: "Mother's Name", kind: kindText},
			{id: models.FieldMotherNumber, label: "Mother's Number", kind: kindTel},
			{id: models.FieldAlternativeNumber, label: "Alternative Number", kind: kindTel},
			{id: models.FieldState, label: "State", kind: kindText},
			{id: models.FieldDistrict, label: "District", kind: kindText},
			{id: models.FieldPincode, label: "Pincode", kind: kindText},
			{id: models.FieldAddress, label: "Address", kind: kindTextarea},
		},
	},
	{
		title: "Academic Details",
		fields: []fieldSpec{
			{id: models.FieldPlusTwoRegNumber, label: "Plus Two Register Number", kind: kindText},
			{id: models.FieldStream, label: "Stream", kind: kindText},
			{id: models.FieldPlusTwoSchoolName, label: "School Name", kind: kindText},
			{id: models.FieldPlusTwoSchoolPlace, label: "School Place", kind: kindText},
			{id: models.FieldLastQualification, label: "Last Qualification", kind: kindSelect, options: fixedOptions(models.LastQualificationOptions)},
			{id: models.FieldLastQualificationMarks, label: "Mark Percentage", kind: kindText},
		},
	},
	{
		title: "Reference Information",
		fields: []fieldSpec{
			{id: models.FieldReferenceUserType, label: "Reference Type", kind: kindSelect, options: fixedOptions(models.ReferenceTypeOptions())},
			{id: models.FieldReferenceUserName, label: "Reference Name", kind: kindText},
			{id: models.FieldReferenceConsultancyName, label: "Consultancy Name", kind: kindText},
		},
	},
	{
		title: "Payment Information",
		fields: []fieldSpec{
			{id: models.FieldTotalAmountPaid, label: "Total Amount Paid", kind: kindText},
			{id: models.FieldPaymentRemark, label: "Payment Remarks", kind: kindTextarea},
		},
	},
}

var requiredSet = func() map[models.FieldID]bool {
	m := make(map[models.FieldID]bool, len(enrollment.RequiredFields))
	for _, f := range enrollment.RequiredFields {
		m[f] = true
	}
	return m
}()

type optionView struct {
	Value    string
	Selected bool
}

type fieldView struct {
	Name        string
	Label       string
	Kind        string
	Placeholder string
	Value       string
	Error       string
	Options     []optionView
	Required    bool
	Disabled    bool
}

type sectionView struct {
	Title  string
	Fields []fieldView
}

type stepView struct {
	Number int
	Label  string
	Active bool
	Done   bool
}

type enrollPage struct {
	Title        string
	Subtitle     string
	Steps        []stepView
	Verification bool
	StudentID    fieldView
	Sections     []sectionView
	Loading      bool
	Modal        *enrollment.Modal
	Toasts       []string
}

const (
	subtitleVerification = "Verify student ID to begin enrollment"
	subtitleDetails      = "Complete all required student information"
)

func buildField(fs fieldSpec, v enrollment.View) fieldView {
	draft := v.Wizard.Draft
	fv := fieldView{
		Name:        fs.id.String(),
		Label:       fs.label,
		Kind:        fs.kind,
		Placeholder: fs.placeholder,
		Value:       draft.Value(fs.id),
		Error:       v.Wizard.Errors.Message(fs.id),
		Required:    requiredSet[fs.id],
		Disabled:    !v.Wizard.Editable(fs.id),
	}
	if fs.options != nil {
		for _, o := range fs.options(v) {
			fv.Options = append(fv.Options, optionView{Value: o, Selected: o == fv.Value})
		}
	}
	return fv
}

func buildEnrollPage(v enrollment.View) enrollPage {
	step := v.Wizard.Step
	page := enrollPage{
		Title:        "Student Enrollment",
		Verification: step == enrollment.StepVerification,
		Loading:      v.Wizard.Status == enrollment.StatusLoading,
		Modal:        v.Modal,
		Toasts:       v.Toasts,
		Steps: []stepView{
			{Number: 1, Label: "Verification", Active: step == enrollment.StepVerification, Done: step > enrollment.StepVerification},
			{Number: 2, Label: "Details", Active: step == enrollment.StepDetails},
		},
	}

	if page.Verification {
		page.Subtitle = subtitleVerification
		page.StudentID = buildField(studentIDSpec, v)
		return page
	}

	page.Subtitle = subtitleDetails
	for _, sec := range detailSections {
		sv := sectionView{Title: sec.title}
		for _, f := range sec.fields {
			sv.Fields = append(sv.Fields, buildField(f, v))
		}
		page.Sections = append(page.Sections, sv)
	}
	return page
}

// formOrder applies the reference type before the names it defaults and
// the college before its course.
var formOrder = func() []models.FieldID {
	order := []models.FieldID{models.FieldReferenceUserType, models.FieldCollege}
	for _, f := range models.AllFields() {
		switch f {
		case models.FieldStudentID, models.FieldReferenceUserType, models.FieldCollege:
			continue
		}
		order = append(order, f)
	}
	return order
}()

// applyForm feeds posted detail fields into the session. Fields that were
// not posted (disabled inputs) or match the draft as it stood before this
// post are left alone. A select auto-submit posts the whole form, so the
// stale course sent along with a new college must not undo the reset.
func applyForm(s *enrollment.Session, form url.Values) {
	before := s.Draft()
	for _, f := range formOrder {
		vals, ok := form[f.String()]
		if !ok || len(vals) == 0 {
			continue
		}
		if vals[0] == before.Value(f) {
			continue
		}
		if cur := s.Draft(); vals[0] == cur.Value(f) {
			continue
		}
		s.Change(f, vals[0])
	}
}
