package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nptc-feedback/backend/internal/feedback"
	"github.com/nptc-feedback/backend/internal/server/util"
)

// FeedbackHandler exposes the submission workflow and the read-only roster
// and aggregate queries.
type FeedbackHandler struct {
	Feedback *feedback.Service
}

// Submit handles POST /api/feedback.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req feedback.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			util.WriteError(w, http.StatusBadRequest, "Request body is empty", "")
			return
		}
		util.WriteError(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}

	if err := h.Feedback.Submit(r.Context(), req); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "Feedback submitted successfully",
	})
}

// ListStudents handles GET /api/students.
func (h *FeedbackHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.Feedback.ListStudents(r.Context())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, students)
}

// DepartmentAggregate handles GET /api/feedback/{department}.
func (h *FeedbackHandler) DepartmentAggregate(w http.ResponseWriter, r *http.Request) {
	department := chi.URLParam(r, "department")

	rows, err := h.Feedback.DepartmentAggregate(r.Context(), department)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, rows)
}
