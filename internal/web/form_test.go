package web

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-enrollment/internal/common/logger"
	"student-enrollment/internal/common/observability"
	"student-enrollment/internal/enrollment"
	"student-enrollment/internal/models"
	"student-enrollment/internal/store"
)

var formColleges = []models.CollegeOption{
	{ID: "c1", Name: "City College", Courses: []string{"BCom", "BBA"}},
	{ID: "c2", Name: "Hill College", Courses: []string{"BSc Nursing"}},
}

func detailsSession(t *testing.T) *enrollment.Session {
	t.Helper()
	return detailsSessionWith(t, formColleges)
}

func detailsSessionWith(t *testing.T, colleges []models.CollegeOption) *enrollment.Session {
	t.Helper()
	log := logger.NewTestLogger(t)
	obs := observability.NewNoop()
	st := store.NewMemoryStore()
	for _, c := range colleges {
		doc, err := store.NewDocument(c.ID, map[string]interface{}{"name": c.Name, "courses": c.Courses})
		require.NoError(t, err)
		require.NoError(t, st.Set(context.Background(), testColleges, c.ID, doc))
	}

	svc := enrollment.NewService(st, enrollment.Options{StudentCollection: testStudents, StoreTimeout: time.Second}, nil, obs, log)
	loader := enrollment.NewReferenceLoader(st, testColleges, time.Second, obs, log)
	sess := enrollment.NewSession("s1", svc, loader)
	sess.EnsureColleges(context.Background())

	out := sess.Verify(context.Background(), "1001")
	require.Equal(t, enrollment.KindOK, out.Kind)
	return sess
}

func findField(page enrollPage, name string) (fieldView, bool) {
	for _, sec := range page.Sections {
		for _, f := range sec.Fields {
			if f.Name == name {
				return f, true
			}
		}
	}
	return fieldView{}, false
}

func TestBuildEnrollPage_Verification(t *testing.T) {
	w := enrollment.NewWizard()
	w.Draft.StudentID = "12a"
	w.Errors = enrollment.FieldErrors{models.FieldStudentID: enrollment.MsgVerifyGuard}

	page := buildEnrollPage(enrollment.View{Wizard: w})

	assert.True(t, page.Verification)
	assert.Equal(t, subtitleVerification, page.Subtitle)
	assert.Empty(t, page.Sections)
	assert.Equal(t, "studentId", page.StudentID.Name)
	assert.Equal(t, "12a", page.StudentID.Value)
	assert.Equal(t, enrollment.MsgVerifyGuard, page.StudentID.Error)
	assert.False(t, page.StudentID.Disabled)

	require.Len(t, page.Steps, 2)
	assert.True(t, page.Steps[0].Active)
	assert.False(t, page.Steps[1].Active)
}

func TestBuildEnrollPage_Details(t *testing.T) {
	w := enrollment.NewWizard()
	w.Step = enrollment.StepDetails
	w.Draft.College = "City College"
	w.Draft.Course = "BBA"
	w.Draft.Reference.SelectType(models.ReferenceDirect)
	w.Courses = []string{"BCom", "BBA"}
	w.Errors = enrollment.FieldErrors{models.FieldPincode: enrollment.MsgPincode}

	page := buildEnrollPage(enrollment.View{Wizard: w, Colleges: formColleges, Toasts: []string{enrollment.MsgCollegesFailure}})

	assert.False(t, page.Verification)
	assert.Equal(t, subtitleDetails, page.Subtitle)
	assert.True(t, page.Steps[0].Done)
	assert.True(t, page.Steps[1].Active)
	assert.Equal(t, []string{enrollment.MsgCollegesFailure}, page.Toasts)

	titles := make([]string, 0, len(page.Sections))
	for _, sec := range page.Sections {
		titles = append(titles, sec.Title)
	}
	assert.Equal(t, []string{"Candidate Information", "Personal Details", "Academic Details", "Reference Information", "Payment Information"}, titles)

	college, ok := findField(page, "college")
	require.True(t, ok)
	assert.Equal(t, []optionView{{Value: "City College", Selected: true}, {Value: "Hill College"}}, college.Options)
	assert.True(t, college.Required)

	course, _ := findField(page, "course")
	assert.Equal(t, []optionView{{Value: "BCom"}, {Value: "BBA", Selected: true}}, course.Options)
	assert.False(t, course.Disabled)

	pincode, _ := findField(page, "pincode")
	assert.Equal(t, enrollment.MsgPincode, pincode.Error)

	stream, _ := findField(page, "stream")
	assert.False(t, stream.Required)

	referrer, _ := findField(page, "reference.userName")
	assert.True(t, referrer.Disabled)
}

func TestBuildEnrollPage_LoadingDisablesFields(t *testing.T) {
	w := enrollment.NewWizard()
	w.Step = enrollment.StepDetails
	w.Status = enrollment.StatusLoading

	page := buildEnrollPage(enrollment.View{Wizard: w})

	assert.True(t, page.Loading)
	for _, sec := range page.Sections {
		for _, f := range sec.Fields {
			assert.True(t, f.Disabled, f.Name)
		}
	}
}

func TestFormOrder(t *testing.T) {
	require.GreaterOrEqual(t, len(formOrder), 2)
	assert.Equal(t, models.FieldReferenceUserType, formOrder[0])
	assert.Equal(t, models.FieldCollege, formOrder[1])
	assert.NotContains(t, formOrder, models.FieldStudentID)
	assert.Len(t, formOrder, len(models.AllFields())-1)
}

func TestApplyForm_CourseAfterCollege(t *testing.T) {
	sess := detailsSession(t)

	applyForm(sess, url.Values{
		"course":  {"BBA"},
		"college": {"City College"},
	})

	draft := sess.Draft()
	assert.Equal(t, "City College", draft.College)
	assert.Equal(t, "BBA", draft.Course)
}

func TestApplyForm_UnchangedCollegeKeepsCourse(t *testing.T) {
	sess := detailsSession(t)
	applyForm(sess, url.Values{"college": {"City College"}, "course": {"BCom"}})

	applyForm(sess, url.Values{"college": {"City College"}, "candidateName": {"Asha Nair"}})

	draft := sess.Draft()
	assert.Equal(t, "BCom", draft.Course)
	assert.Equal(t, "Asha Nair", draft.CandidateName)
}

func TestApplyForm_CollegeChangeDropsPostedCourse(t *testing.T) {
	sess := detailsSessionWith(t, []models.CollegeOption{
		{ID: "c1", Name: "City College", Courses: []string{"BCom", "BBA"}},
		{ID: "c3", Name: "Lake College", Courses: []string{"BCom"}},
	})
	applyForm(sess, url.Values{"college": {"City College"}, "course": {"BCom"}})
	require.Equal(t, "BCom", sess.Draft().Course)

	// The auto-submitted form still carries the old course.
	applyForm(sess, url.Values{"college": {"Lake College"}, "course": {"BCom"}})

	draft := sess.Draft()
	assert.Equal(t, "Lake College", draft.College)
	assert.Empty(t, draft.Course)
	assert.Equal(t, []string{"BCom"}, sess.View().Wizard.Courses)

	applyForm(sess, url.Values{"college": {"Lake College"}, "course": {"BCom"}})
	assert.Equal(t, "BCom", sess.Draft().Course)
}

func TestApplyForm_ReferenceTypeFirst(t *testing.T) {
	sess := detailsSession(t)

	applyForm(sess, url.Values{
		"reference.userName":        {"Meera"},
		"reference.consultancyName": {"Acme"},
		"reference.userType":        {"Consultancy"},
	})
	draft := sess.Draft()
	assert.Equal(t, models.ReferenceType("Consultancy"), draft.Reference.Type())
	assert.Equal(t, "Meera", draft.Reference.Referrer())
	assert.Equal(t, "Acme", draft.Reference.Consultancy())

	applyForm(sess, url.Values{
		"reference.userType": {"Direct"},
		"reference.userName": {"Someone else"},
	})
	draft = sess.Draft()
	assert.Equal(t, "Direct", draft.Reference.Referrer())
	assert.Empty(t, draft.Reference.Consultancy())
}

func TestApplyForm_IgnoresStudentID(t *testing.T) {
	sess := detailsSession(t)

	applyForm(sess, url.Values{"studentId": {"9999"}})

	assert.Equal(t, "1001", sess.Draft().StudentID)
}
