package enrollment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "student-enrollment/internal/common/errors"
	"student-enrollment/internal/models"
)

var testColleges = []models.CollegeOption{
	{ID: "c1", Name: "City College", Courses: []string{"BCom", "BBA"}},
	{ID: "c2", Name: "Hill College", Courses: []string{"BSc Nursing"}},
	{ID: "c3", Name: "Lake College", Courses: []string{}},
}

func detailsWizard(t *testing.T) Wizard {
	t.Helper()
	w, eff := NewWizard().BeginVerify("20240017")
	require.Equal(t, "20240017", eff.Lookup)
	w, _ = w.ResolveVerify(okOutcome())
	require.Equal(t, StepDetails, w.Step)
	return w
}

func filledWizard(t *testing.T) Wizard {
	t.Helper()
	w := detailsWizard(t)
	rec := validRecord()
	rec.StudentID = w.Draft.StudentID
	w.Draft = rec
	w.Courses = models.CoursesFor(testColleges, rec.College)
	return w
}

// ==========================
// Verification
// ==========================

func TestBeginVerify_Guard(t *testing.T) {
	for _, id := range []string{"", "   ", "12a", "-1", "1.5"} {
		t.Run(id, func(t *testing.T) {
			w := NewWizard()
			w.Errors[models.FieldCandidateName] = MsgRequired

			next, eff := w.BeginVerify(id)
			assert.Empty(t, eff.Lookup)
			assert.Nil(t, eff.Modal)
			assert.Equal(t, StepVerification, next.Step)
			assert.Equal(t, FieldErrors{models.FieldStudentID: MsgVerifyGuard}, next.Errors)
		})
	}
}

func TestBeginVerify_TrimsAndRequestsLookup(t *testing.T) {
	next, eff := NewWizard().BeginVerify("  0042 ")
	assert.Equal(t, "0042", eff.Lookup)
	assert.Equal(t, "0042", next.Draft.StudentID)
	assert.Equal(t, StepVerification, next.Step)
}

func TestResolveVerify(t *testing.T) {
	w, _ := NewWizard().BeginVerify("1001")

	t.Run("absent moves to details", func(t *testing.T) {
		next, eff := w.ResolveVerify(okOutcome())
		assert.Equal(t, StepDetails, next.Step)
		assert.Nil(t, eff.Modal)
	})

	t.Run("existing shows conflict with stored name", func(t *testing.T) {
		next, eff := w.ResolveVerify(conflictOutcome("1001", "Binu Thomas"))
		assert.Equal(t, StepVerification, next.Step)
		require.NotNil(t, eff.Modal)
		assert.Equal(t, Modal{Title: "Binu Thomas", Body: MsgAlreadyExists}, *eff.Modal)
	})

	t.Run("store failure shows generic error", func(t *testing.T) {
		next, eff := w.ResolveVerify(storeFailureOutcome(apperrors.NewStudentLookupFailedError("1001", assert.AnError)))
		assert.Equal(t, StepVerification, next.Step)
		require.NotNil(t, eff.Modal)
		assert.Equal(t, Modal{Title: TitleError, Body: MsgSomethingWrong}, *eff.Modal)
	})
}

// ==========================
// Field changes
// ==========================

func TestApplyChange_ClearsFieldError(t *testing.T) {
	w := detailsWizard(t)
	w.Errors = FieldErrors{models.FieldCandidateName: MsgRequired, models.FieldPincode: MsgPincode}

	next, ok := w.ApplyChange(models.FieldCandidateName, "Asha", testColleges)
	require.True(t, ok)
	assert.Equal(t, "Asha", next.Draft.CandidateName)
	assert.NotContains(t, next.Errors, models.FieldCandidateName)
	assert.Contains(t, next.Errors, models.FieldPincode)
	assert.Contains(t, w.Errors, models.FieldCandidateName, "receiver must not change")
}

func TestApplyChange_College(t *testing.T) {
	w := detailsWizard(t)

	assert.False(t, w.Editable(models.FieldCourse))
	_, ok := w.ApplyChange(models.FieldCourse, "BCom", testColleges)
	assert.False(t, ok, "course is locked until a college is chosen")

	w, ok = w.ApplyChange(models.FieldCollege, "City College", testColleges)
	require.True(t, ok)
	assert.Equal(t, []string{"BCom", "BBA"}, w.Courses)

	w, ok = w.ApplyChange(models.FieldCourse, "BBA", testColleges)
	require.True(t, ok)
	assert.Equal(t, "BBA", w.Draft.Course)

	_, ok = w.ApplyChange(models.FieldCourse, "BSc Nursing", testColleges)
	assert.False(t, ok, "course must belong to the chosen college")

	w, ok = w.ApplyChange(models.FieldCollege, "Hill College", testColleges)
	require.True(t, ok)
	assert.Equal(t, "", w.Draft.Course)
	assert.Equal(t, []string{"BSc Nursing"}, w.Courses)

	w, _ = w.ApplyChange(models.FieldCollege, "Lake College", testColleges)
	assert.Empty(t, w.Courses)

	w, _ = w.ApplyChange(models.FieldCollege, "", testColleges)
	assert.Nil(t, w.Courses)
	assert.False(t, w.Editable(models.FieldCourse))
}

func TestApplyChange_ReferenceType(t *testing.T) {
	tests := []struct {
		name            string
		userType        string
		wantUserName    string
		wantConsultancy string
		userNameEdit    bool
		consultancyEdit bool
	}{
		{"associate", "Associate", "Priya", "Associate", true, false},
		{"direct", "Direct", "Direct", "", false, false},
		{"consultancy", "Consultancy", "Priya", "Acme", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := detailsWizard(t)
			w, _ = w.ApplyChange(models.FieldReferenceUserType, "Consultancy", testColleges)
			w, _ = w.ApplyChange(models.FieldReferenceUserName, "Priya", testColleges)
			w, _ = w.ApplyChange(models.FieldReferenceConsultancyName, "Acme", testColleges)

			w, ok := w.ApplyChange(models.FieldReferenceUserType, tt.userType, testColleges)
			require.True(t, ok)
			assert.Equal(t, tt.wantUserName, w.Draft.Reference.Referrer())
			assert.Equal(t, tt.wantConsultancy, w.Draft.Reference.Consultancy())
			assert.Equal(t, tt.userNameEdit, w.Editable(models.FieldReferenceUserName))
			assert.Equal(t, tt.consultancyEdit, w.Editable(models.FieldReferenceConsultancyName))
		})
	}
}

func TestApplyChange_LockedFields(t *testing.T) {
	w := detailsWizard(t)
	w, _ = w.ApplyChange(models.FieldReferenceUserType, "Direct", testColleges)

	_, ok := w.ApplyChange(models.FieldReferenceUserName, "Someone", testColleges)
	assert.False(t, ok)
	_, ok = w.ApplyChange(models.FieldReferenceConsultancyName, "Acme", testColleges)
	assert.False(t, ok)
	_, ok = w.ApplyChange(models.FieldStudentID, "999", testColleges)
	assert.False(t, ok, "student id is fixed once verified")
	_, ok = w.ApplyChange(models.FieldReferenceUserType, "Freelance", testColleges)
	assert.False(t, ok)

	v := NewWizard()
	_, ok = v.ApplyChange(models.FieldCandidateName, "Asha", testColleges)
	assert.False(t, ok, "only the student id is editable during verification")
}

// ==========================
// Back / Submit
// ==========================

func TestBack_KeepsDraft(t *testing.T) {
	w := detailsWizard(t)
	w, _ = w.ApplyChange(models.FieldCandidateName, "Asha", testColleges)

	back := w.Back()
	assert.Equal(t, StepVerification, back.Step)
	assert.Equal(t, "Asha", back.Draft.CandidateName)

	assert.Equal(t, back, back.Back(), "back from verification is a no-op")
}

func TestBeginSubmit_ValidationErrors(t *testing.T) {
	w := detailsWizard(t)

	next, eff := w.BeginSubmit()
	assert.Equal(t, StepDetails, next.Step)
	assert.Equal(t, StatusIdle, next.Status)
	assert.Nil(t, eff.Write)
	require.NotNil(t, eff.Modal)
	assert.Equal(t, Modal{Title: TitleValidation, Body: MsgCorrectErrors}, *eff.Modal)
	assert.Equal(t, MsgRequired, next.Errors[models.FieldCandidateName])
	assert.NotContains(t, next.Errors, models.FieldStudentID)
}

func TestBeginSubmit_Clean(t *testing.T) {
	w := filledWizard(t)

	next, eff := w.BeginSubmit()
	assert.Equal(t, StatusLoading, next.Status)
	require.NotNil(t, eff.Write)
	assert.Equal(t, w.Draft, *eff.Write)
	assert.Nil(t, eff.Modal)

	again, eff := next.BeginSubmit()
	assert.Nil(t, eff.Write, "no second submit while loading")
	assert.Equal(t, StatusLoading, again.Status)

	assert.Equal(t, StepDetails, next.Back().Step, "back is ignored while loading")
	assert.False(t, next.Editable(models.FieldCandidateName))
}

func TestBeginSubmit_OnlyFromDetails(t *testing.T) {
	w := NewWizard()
	next, eff := w.BeginSubmit()
	assert.Equal(t, w, next)
	assert.Equal(t, Effect{}, eff)
}

func TestResolveSubmit_SuccessResets(t *testing.T) {
	w, _ := filledWizard(t).BeginSubmit()

	next, eff := w.ResolveSubmit(okOutcome())
	assert.Equal(t, NewWizard(), next)
	assert.True(t, eff.Reset)
	require.NotNil(t, eff.Modal)
	assert.Equal(t, Modal{Title: "Asha Nair", Body: MsgEnrolled}, *eff.Modal)
	assert.Equal(t, models.NewStudentRecord(), next.Draft)
}

func TestResolveSubmit_FailureKeepsDraft(t *testing.T) {
	filled := filledWizard(t)
	w, _ := filled.BeginSubmit()

	next, eff := w.ResolveSubmit(storeFailureOutcome(apperrors.NewStudentWriteFailedError("20240017", assert.AnError)))
	assert.Equal(t, StepDetails, next.Step)
	assert.Equal(t, StatusIdle, next.Status)
	assert.Equal(t, filled.Draft, next.Draft)
	assert.False(t, eff.Reset)
	require.NotNil(t, eff.Modal)
	assert.Equal(t, Modal{Title: TitleError, Body: MsgSomethingWrong}, *eff.Modal)
}

func TestResolveSubmit_IgnoredWhenIdle(t *testing.T) {
	w := filledWizard(t)
	next, eff := w.ResolveSubmit(okOutcome())
	assert.Equal(t, w, next)
	assert.Equal(t, Effect{}, eff)
}
