package web

import (
	"encoding/json"
	"io"
	"net/http"

	apperrors "student-enrollment/internal/common/errors"
	"student-enrollment/internal/common/validation"
	"student-enrollment/internal/enrollment"
	"student-enrollment/internal/models"
)

const maxPayloadBytes = 1 << 20

type verifyRequest struct {
	StudentID string `json:"studentId"`
}

type outcomeResponse struct {
	Outcome string                `json:"outcome"`
	Record  *models.StudentRecord `json:"record,omitempty"`
}

type collegesResponse struct {
	Colleges []models.CollegeOption `json:"colleges"`
}

func (s *Server) handleListColleges(w http.ResponseWriter, r *http.Request) {
	colleges, err := s.loader.Load(r.Context())
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, collegesResponse{Colleges: colleges})
}

func (s *Server) handleAPIVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxPayloadBytes)).Decode(&req); err != nil {
		s.errors.HandleHTTPError(w, r, apperrors.NewInvalidRequestError("body must be a JSON object with studentId"))
		return
	}

	s.writeOutcome(w, r, s.service.Verify(r.Context(), req.StudentID), http.StatusOK)
}

func (s *Server) handleAPIEnroll(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		s.errors.HandleHTTPError(w, r, apperrors.NewInvalidRequestError("unreadable body"))
		return
	}

	res, err := validation.StudentPayloadSchema.ValidateBytes(body)
	if err != nil {
		s.errors.HandleHTTPError(w, r, apperrors.NewInvalidRequestError("body is not valid JSON"))
		return
	}
	if !res.Valid {
		fields := make(map[string]string, len(res.Errors))
		for _, e := range res.Errors {
			fields[e.Field] = e.Message
		}
		s.errors.HandleValidationError(w, r, apperrors.NewInvalidRequestError("payload does not match the student schema"), fields)
		return
	}

	var rec models.StudentRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		s.errors.HandleHTTPError(w, r, apperrors.NewInvalidRequestError(err.Error()))
		return
	}
	rec.Reference = rec.Reference.Normalized()

	s.writeOutcome(w, r, s.service.Enroll(r.Context(), rec), http.StatusCreated)
}

func (s *Server) writeOutcome(w http.ResponseWriter, r *http.Request, out enrollment.Outcome, okStatus int) {
	switch out.Kind {
	case enrollment.KindOK:
		writeJSON(w, okStatus, outcomeResponse{Outcome: out.Kind.String(), Record: out.Record})
	case enrollment.KindInvalid:
		s.errors.HandleValidationError(w, r, out.Reason, out.Errors.ByName())
	case enrollment.KindConflict:
		s.errors.HandleHTTPError(w, r, out.Reason.WithMetadata("existingName", out.ExistingName))
	default:
		s.errors.HandleHTTPError(w, r, out.Reason)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
