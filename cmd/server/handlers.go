package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/krishh26/locker-backend-sub000/internal/curriculum"
	"github.com/krishh26/locker-backend-sub000/internal/enrollment"
	"github.com/krishh26/locker-backend-sub000/internal/export"
	"github.com/krishh26/locker-backend-sub000/internal/extraction"
)

const (
	readyTimeout    = 3 * time.Second
	multipartMemory = 8 << 20
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// app holds the dependencies of the HTTP handlers.
type app struct {
	svc         *enrollment.Service
	extractor   extraction.Extractor
	ids         curriculum.IDGenerator
	defaultKind curriculum.Kind
	maxUpload   int64
	// checks are pinged concurrently by /readyz.
	checks map[string]func(context.Context) error
}

// newMux creates the HTTP router.
func newMux(a *app) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", a.handleReadyz)

	mux.HandleFunc("POST /api/v1/courses/generate", a.handleGenerate)
	mux.HandleFunc("POST /api/v1/courses", a.handleCreateCourse)
	mux.HandleFunc("GET /api/v1/courses/{id}", a.handleGetCourse)
	mux.HandleFunc("POST /api/v1/enrollments", a.handleEnroll)
	mux.HandleFunc("GET /api/v1/enrollments/{id}/units", a.handleUnitReports)
	mux.HandleFunc("POST /api/v1/assignments", a.handleRecordAssignment)
	mux.HandleFunc("GET /api/v1/learners/{id}/progress", a.handleProgress)
	mux.HandleFunc("GET /api/v1/learners/{id}/progress.xlsx", a.handleProgressExport)
	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (a *app) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for name, check := range a.checks {
		g.Go(func() error {
			if err := check(gctx); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Warn("readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

func (a *app) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "document too large")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart form with a file field is required")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	doc, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading file failed")
		return
	}

	kind := a.defaultKind
	if v := r.FormValue("kind"); v != "" {
		kind = curriculum.ParseKind(v)
	}

	table, err := a.extractor.Extract(r.Context(), doc)
	if err != nil {
		if errors.Is(err, extraction.ErrNoDocument) {
			writeError(w, http.StatusBadRequest, "file is empty")
			return
		}
		slog.Error("document conversion failed", "kind", kind, "bytes", len(doc), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to convert document")
		return
	}

	gen := curriculum.NewGenerator(curriculum.NewBuilder(kind, a.ids)).Generate(table)
	a.svc.RecordGeneration(r.Context(), kind, extraction.Fingerprint(doc), gen)
	writeJSON(w, http.StatusOK, gen)
}

// createCourseRequest carries units in either the legacy or the structured
// shape.
type createCourseRequest struct {
	ID    string            `json:"course_id"`
	Name  string            `json:"course_name"`
	Code  string            `json:"course_code"`
	Kind  string            `json:"course_core_type"`
	Units []json.RawMessage `json:"units"`
}

func (a *app) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "course_name is required")
		return
	}

	kind := a.defaultKind
	if req.Kind != "" {
		kind = curriculum.ParseKind(req.Kind)
	}
	units, err := curriculum.NewBuilder(kind, a.ids).DecodeUnits(req.Units)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	totals := curriculum.TotalsFromUnits(units)
	course, err := a.svc.SaveCourse(r.Context(), curriculum.Course{
		ID:                  req.ID,
		Name:                req.Name,
		Code:                req.Code,
		Kind:                kind,
		Level:               totals.Level,
		TotalCredits:        totals.TotalCredits,
		GuidedLearningHours: totals.GuidedLearningHours,
		Units:               units,
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

func (a *app) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := a.svc.Course(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (a *app) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var req enrollment.EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	e, err := a.svc.Enroll(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// assignmentRequest carries submitted units in either shape.
type assignmentRequest struct {
	LearnerID string            `json:"learner_id"`
	CourseID  string            `json:"course_id"`
	Units     []json.RawMessage `json:"units"`
}

func (a *app) handleRecordAssignment(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	kind := a.defaultKind
	if course, err := a.svc.Course(r.Context(), req.CourseID); err == nil {
		kind = course.Kind
	}
	units, err := curriculum.NewBuilder(kind, a.ids).DecodeUnits(req.Units)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := a.svc.RecordAssignment(r.Context(), enrollment.Assignment{
		LearnerID: req.LearnerID,
		CourseID:  req.CourseID,
		Units:     units,
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (a *app) handleUnitReports(w http.ResponseWriter, r *http.Request) {
	reports, err := a.svc.UnitReports(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (a *app) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.svc.Progress(r.Context(), r.PathValue("id")))
}

func (a *app) handleProgressExport(w http.ResponseWriter, r *http.Request) {
	learnerID := r.PathValue("id")
	rows := a.svc.Progress(r.Context(), learnerID)

	var buf bytes.Buffer
	if err := export.WriteProgress(&buf, rows); err != nil {
		slog.Error("progress export failed", "learner_id", learnerID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export progress")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="progress-%s.xlsx"`, learnerID))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// writeServiceError maps service errors to HTTP responses.
func (a *app) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case enrollment.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "invalid request",
			"fields": enrollment.FieldErrors(err),
		})
	case errors.Is(err, enrollment.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, enrollment.ErrAlreadyEnrolled):
		writeError(w, http.StatusConflict, enrollment.ErrAlreadyEnrolled.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}
