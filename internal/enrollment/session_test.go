package enrollment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-enrollment/internal/models"
)

func newTestSession(t *testing.T, st *stubStore) *Session {
	t.Helper()
	return NewSession("test-session", newTestService(t, st), newTestLoader(t, st))
}

func seedColleges(t *testing.T, st *stubStore) {
	t.Helper()
	putRaw(t, st, testColls, "c1", `{"name":"City College","courses":["BCom","BBA"]}`)
	putRaw(t, st, testColls, "c2", `{"name":"Hill College","courses":["BSc Nursing"]}`)
}

func fillDetails(t *testing.T, s *Session, rec models.StudentRecord) {
	t.Helper()
	s.Change(models.FieldReferenceUserType, string(rec.Reference.Type()))
	s.Change(models.FieldCollege, rec.College)
	for _, f := range models.AllFields() {
		switch f {
		case models.FieldStudentID, models.FieldCollege, models.FieldReferenceUserType,
			models.FieldReferenceUserName, models.FieldReferenceConsultancyName:
			continue
		}
		if v := rec.Value(f); v != "" {
			require.True(t, s.Change(f, v), "change %s", f)
		}
	}
}

func TestSession_HappyPath(t *testing.T) {
	st := newStubStore()
	seedColleges(t, st)
	s := newTestSession(t, st)
	ctx := context.Background()

	s.EnsureColleges(ctx)
	view := s.View()
	require.Len(t, view.Colleges, 2)
	assert.Empty(t, view.Toasts)

	out := s.Verify(ctx, "20240017")
	require.Equal(t, KindOK, out.Kind)
	assert.Equal(t, StepDetails, s.View().Wizard.Step)
	assert.Nil(t, s.View().Modal)

	fillDetails(t, s, validRecord())
	assert.Equal(t, []string{"BCom", "BBA"}, s.View().Wizard.Courses)

	out = s.Submit(ctx)
	require.Equal(t, KindOK, out.Kind)

	view = s.View()
	assert.Equal(t, StepVerification, view.Wizard.Step)
	assert.Equal(t, models.NewStudentRecord(), view.Wizard.Draft)
	require.NotNil(t, view.Modal)
	assert.Equal(t, Modal{Title: "Asha Nair", Body: MsgEnrolled}, *view.Modal)

	_, err := st.Get(ctx, testStudents, "20240017")
	assert.NoError(t, err)

	s.DismissModal()
	assert.Nil(t, s.View().Modal)
}

func TestSession_VerifyConflict(t *testing.T) {
	st := newStubStore()
	existing := validRecord()
	existing.CandidateName = "Binu Thomas"
	putStudent(t, st, existing)
	s := newTestSession(t, st)

	out := s.Verify(context.Background(), existing.StudentID)
	assert.Equal(t, KindConflict, out.Kind)

	view := s.View()
	assert.Equal(t, StepVerification, view.Wizard.Step)
	require.NotNil(t, view.Modal)
	assert.Equal(t, Modal{Title: "Binu Thomas", Body: MsgAlreadyExists}, *view.Modal)
}

func TestSession_VerifyGuardKeepsTypedID(t *testing.T) {
	s := newTestSession(t, newStubStore())

	out := s.Verify(context.Background(), "12a")
	assert.Equal(t, KindInvalid, out.Kind)

	view := s.View()
	assert.Equal(t, "12a", view.Wizard.Draft.StudentID)
	assert.Equal(t, MsgVerifyGuard, view.Wizard.Errors[models.FieldStudentID])
	assert.Nil(t, view.Modal)
}

func TestSession_SubmitValidation(t *testing.T) {
	s := newTestSession(t, newStubStore())
	require.Equal(t, KindOK, s.Verify(context.Background(), "1001").Kind)

	out := s.Submit(context.Background())
	assert.Equal(t, KindInvalid, out.Kind)

	view := s.View()
	assert.Equal(t, StepDetails, view.Wizard.Step)
	assert.Equal(t, MsgRequired, view.Wizard.Errors[models.FieldCandidateName])
	require.NotNil(t, view.Modal)
	assert.Equal(t, Modal{Title: TitleValidation, Body: MsgCorrectErrors}, *view.Modal)
}

func TestSession_SubmitFailureKeepsDraft(t *testing.T) {
	st := newStubStore()
	seedColleges(t, st)
	s := newTestSession(t, st)
	s.EnsureColleges(context.Background())
	require.Equal(t, KindOK, s.Verify(context.Background(), "20240017").Kind)
	fillDetails(t, s, validRecord())

	st.setErr = errors.New("quota exceeded")
	out := s.Submit(context.Background())
	assert.Equal(t, KindStoreFailure, out.Kind)

	view := s.View()
	assert.Equal(t, StepDetails, view.Wizard.Step)
	assert.Equal(t, StatusIdle, view.Wizard.Status)
	assert.Equal(t, "Asha Nair", view.Wizard.Draft.CandidateName)
	require.NotNil(t, view.Modal)
	assert.Equal(t, Modal{Title: TitleError, Body: MsgSomethingWrong}, *view.Modal)
}

func TestSession_LoadingVisibleDuringWrite(t *testing.T) {
	st := newStubStore()
	seedColleges(t, st)
	s := newTestSession(t, st)
	ctx := context.Background()
	s.EnsureColleges(ctx)
	require.Equal(t, KindOK, s.Verify(ctx, "20240017").Kind)
	fillDetails(t, s, validRecord())

	st.entered = make(chan struct{})
	st.release = make(chan struct{})
	done := make(chan Outcome, 1)
	go func() { done <- s.Submit(ctx) }()
	<-st.entered

	s.EnsureColleges(ctx)
	view := s.View()
	assert.Equal(t, StatusLoading, view.Wizard.Status)
	assert.False(t, s.Change(models.FieldCandidateName, "Someone Else"))
	assert.Equal(t, KindInvalid, s.Submit(ctx).Kind)
	s.Back()
	assert.Equal(t, StepDetails, s.View().Wizard.Step)

	close(st.release)
	out := <-done
	require.Equal(t, KindOK, out.Kind)

	view = s.View()
	assert.Equal(t, StatusIdle, view.Wizard.Status)
	assert.Equal(t, StepVerification, view.Wizard.Step)
	require.NotNil(t, view.Modal)
	assert.Equal(t, "Asha Nair", view.Modal.Title)
}

func TestSession_OutOfStepCalls(t *testing.T) {
	s := newTestSession(t, newStubStore())

	out := s.Submit(context.Background())
	assert.Equal(t, KindInvalid, out.Kind)
	require.NotNil(t, out.Reason)
	assert.Empty(t, out.Errors)

	require.Equal(t, KindOK, s.Verify(context.Background(), "1001").Kind)
	out = s.Verify(context.Background(), "1002")
	assert.Equal(t, KindInvalid, out.Kind)
	assert.Equal(t, "1001", s.View().Wizard.Draft.StudentID)

	s.Back()
	assert.Equal(t, StepVerification, s.View().Wizard.Step)
	assert.Equal(t, "1001", s.View().Wizard.Draft.StudentID)
}

func TestSession_CollegeLoadFailureRetries(t *testing.T) {
	st := newStubStore()
	seedColleges(t, st)
	st.listErr = errors.New("unavailable")
	s := newTestSession(t, st)

	s.EnsureColleges(context.Background())
	view := s.View()
	assert.Empty(t, view.Colleges)
	assert.Equal(t, []string{MsgCollegesFailure}, view.Toasts)
	assert.Empty(t, s.View().Toasts, "toasts are shown once")

	st.listErr = nil
	s.EnsureColleges(context.Background())
	assert.Len(t, s.View().Colleges, 2)
}
