package enrollment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/krishh26/locker-backend-sub000/internal/completion"
	"github.com/krishh26/locker-backend-sub000/internal/curriculum"
)

// Service coordinates courses, enrollments and evidence submissions.
type Service struct {
	store  Store
	events EventLogger
	now    func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithEventLogger records service events to l.
func WithEventLogger(l EventLogger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.events = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a service backed by store.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		events: NopEventLogger{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveCourse stores a master course, assigning an id when it has none.
func (s *Service) SaveCourse(ctx context.Context, course curriculum.Course) (curriculum.Course, error) {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.Units == nil {
		course.Units = []curriculum.Unit{}
	}
	if err := s.store.SaveCourse(ctx, course); err != nil {
		return curriculum.Course{}, fmt.Errorf("saving course: %w", err)
	}

	s.logEvent(ctx, Event{
		SubjectID: course.ID,
		EventType: EventCourseSaved,
		Data: map[string]any{
			"kind":  string(course.Kind),
			"units": len(course.Units),
		},
	})
	return course, nil
}

// Course returns a master course.
func (s *Service) Course(ctx context.Context, id string) (curriculum.Course, error) {
	return s.store.GetCourse(ctx, id)
}

// RecordGeneration logs that a document was converted.
func (s *Service) RecordGeneration(ctx context.Context, kind curriculum.Kind, fingerprint string, gen curriculum.Generation) {
	s.logEvent(ctx, Event{
		SubjectID: fingerprint,
		EventType: EventCourseGenerated,
		Data: map[string]any{
			"kind":          string(kind),
			"units":         len(gen.Units),
			"warnings":      len(gen.Warnings),
			"total_credits": gen.TotalCredits,
		},
	})
}

// Enroll enrolls a learner on a course. The enrollment holds a snapshot of
// the course with all progress reset, so later edits to the master course
// or other enrollments do not affect it.
func (s *Service) Enroll(ctx context.Context, req EnrollRequest) (Enrollment, error) {
	if err := req.Validate(); err != nil {
		return Enrollment{}, fmt.Errorf("invalid enrollment: %w", err)
	}

	course, err := s.store.GetCourse(ctx, req.CourseID)
	if err != nil {
		return Enrollment{}, fmt.Errorf("loading course: %w", err)
	}

	e := Enrollment{
		LearnerID:  req.LearnerID,
		TrainerID:  req.TrainerID,
		IQAID:      req.IQAID,
		EmployerID: req.EmployerID,
		Course:     Snapshot(course),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		CreatedAt:  s.now(),
	}
	id, err := s.store.CreateEnrollment(ctx, e)
	if err != nil {
		return Enrollment{}, fmt.Errorf("creating enrollment: %w", err)
	}
	e.ID = id

	slog.Info("learner enrolled",
		"enrollment_id", id,
		"learner_id", e.LearnerID,
		"course_id", course.ID,
	)
	s.logEvent(ctx, Event{
		SubjectID: id,
		EventType: EventLearnerEnrolled,
		Data: map[string]any{
			"learner_id": e.LearnerID,
			"course_id":  course.ID,
			"sub_units":  completion.TotalSubUnits(e.Course.Units),
		},
	})
	return e, nil
}

// Enrollment returns an enrollment by id.
func (s *Service) Enrollment(ctx context.Context, id string) (Enrollment, error) {
	return s.store.GetEnrollment(ctx, id)
}

// RecordAssignment stores an evidence submission for a learner who is
// enrolled on the course.
func (s *Service) RecordAssignment(ctx context.Context, a Assignment) (Assignment, error) {
	if err := a.Validate(); err != nil {
		return Assignment{}, fmt.Errorf("invalid assignment: %w", err)
	}

	enrollments, err := s.store.ListEnrollments(ctx, a.LearnerID)
	if err != nil {
		return Assignment{}, fmt.Errorf("listing enrollments: %w", err)
	}
	if !enrolledOn(enrollments, a.CourseID) {
		return Assignment{}, fmt.Errorf("learner %s on course %s: %w", a.LearnerID, a.CourseID, ErrNotFound)
	}

	a.CreatedAt = s.now()
	id, err := s.store.AddAssignment(ctx, a)
	if err != nil {
		return Assignment{}, fmt.Errorf("recording assignment: %w", err)
	}
	a.ID = id

	s.logEvent(ctx, Event{
		SubjectID: id,
		EventType: EventEvidenceAdded,
		Data: map[string]any{
			"learner_id": a.LearnerID,
			"course_id":  a.CourseID,
			"units":      len(a.Units),
		},
	})
	return a, nil
}

// Progress rolls up every enrollment of a learner. It never fails: when
// enrollments or assignments cannot be loaded the error is logged and the
// result is empty.
func (s *Service) Progress(ctx context.Context, learnerID string) []LearnerProgress {
	enrollments, err := s.store.ListEnrollments(ctx, learnerID)
	if err != nil {
		slog.Error("listing enrollments for progress", "learner_id", learnerID, "error", err)
		return []LearnerProgress{}
	}

	out := make([]LearnerProgress, 0, len(enrollments))
	for _, e := range enrollments {
		units, submitted, err := s.currentUnits(ctx, e)
		if err != nil {
			slog.Error("loading assignments for progress", "learner_id", learnerID, "course_id", e.Course.ID, "error", err)
			return []LearnerProgress{}
		}

		p := completion.Rollup(units, submitted)
		out = append(out, LearnerProgress{
			EnrollmentID:       e.ID,
			LearnerID:          e.LearnerID,
			CourseID:           e.Course.ID,
			CourseName:         e.Course.Name,
			TotalSubUnits:      p.TotalSubUnits,
			NotStarted:         p.NotStarted,
			PartiallyCompleted: p.PartiallyCompleted,
			FullyCompleted:     p.FullyCompleted,
			PercentComplete:    completion.PercentComplete(p),
		})
	}
	return out
}

// UnitReport is the completion of one unit of an enrollment.
type UnitReport struct {
	UnitID   curriculum.ItemID       `json:"unit_id"`
	Title    string                  `json:"title"`
	Status   completion.UnitStatus   `json:"status"`
	Progress completion.UnitProgress `json:"progress"`
}

// UnitReports returns per-unit status and percentages for an enrollment,
// with the learner's submissions merged over the snapshot.
func (s *Service) UnitReports(ctx context.Context, enrollmentID string) ([]UnitReport, error) {
	e, err := s.store.GetEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("loading enrollment: %w", err)
	}

	units, _, err := s.currentUnits(ctx, e)
	if err != nil {
		return nil, err
	}

	reports := make([]UnitReport, 0, len(units))
	for _, u := range units {
		reports = append(reports, UnitReport{
			UnitID:   u.ID,
			Title:    u.Title,
			Status:   completion.Status(u),
			Progress: completion.Percent(u),
		})
	}
	return reports, nil
}

// currentUnits merges a learner's submissions over the enrollment
// snapshot. It also returns the submitted unit lists for rollup.
func (s *Service) currentUnits(ctx context.Context, e Enrollment) ([]curriculum.Unit, [][]curriculum.Unit, error) {
	assignments, err := s.store.ListAssignments(ctx, e.LearnerID, e.Course.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing assignments: %w", err)
	}
	submitted := make([][]curriculum.Unit, 0, len(assignments))
	for _, a := range assignments {
		submitted = append(submitted, a.Units)
	}
	return completion.MergeUnits(e.Course.Units, submitted...), submitted, nil
}

func (s *Service) logEvent(ctx context.Context, event Event) {
	if err := s.events.LogEvent(ctx, event); err != nil {
		slog.Warn("failed to log event", "type", event.EventType, "error", err)
	}
}

func enrolledOn(enrollments []Enrollment, courseID string) bool {
	for _, e := range enrollments {
		if e.Course.ID == courseID {
			return true
		}
	}
	return false
}

// IsValidation reports whether err came from request validation.
func IsValidation(err error) bool {
	return FieldErrors(err) != nil
}
