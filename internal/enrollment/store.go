package enrollment

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/krishh26/locker-backend-sub000/internal/curriculum"
)

// Store persists courses, enrollments and evidence submissions.
type Store interface {
	SaveCourse(ctx context.Context, course curriculum.Course) error
	GetCourse(ctx context.Context, id string) (curriculum.Course, error)
	CreateEnrollment(ctx context.Context, e Enrollment) (string, error)
	GetEnrollment(ctx context.Context, id string) (Enrollment, error)
	ListEnrollments(ctx context.Context, learnerID string) ([]Enrollment, error)
	AddAssignment(ctx context.Context, a Assignment) (string, error)
	ListAssignments(ctx context.Context, learnerID, courseID string) ([]Assignment, error)
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	courses     map[string]curriculum.Course
	enrollments map[string]Enrollment
	assignments []Assignment
	mu          sync.RWMutex
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		courses:     make(map[string]curriculum.Course),
		enrollments: make(map[string]Enrollment),
	}
}

func (s *MemoryStore) SaveCourse(_ context.Context, course curriculum.Course) error {
	if course.ID == "" {
		return fmt.Errorf("course_id is required")
	}
	course.Units = curriculum.CloneUnits(course.Units)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[course.ID] = course
	return nil
}

func (s *MemoryStore) GetCourse(_ context.Context, id string) (curriculum.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return curriculum.Course{}, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	c.Units = curriculum.CloneUnits(c.Units)
	return c, nil
}

func (s *MemoryStore) CreateEnrollment(_ context.Context, e Enrollment) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.enrollments {
		if existing.LearnerID == e.LearnerID && existing.Course.ID == e.Course.ID {
			return "", ErrAlreadyEnrolled
		}
	}

	e.ID = uuid.NewString()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.Course.Units = curriculum.CloneUnits(e.Course.Units)
	s.enrollments[e.ID] = e
	return e.ID, nil
}

func (s *MemoryStore) GetEnrollment(_ context.Context, id string) (Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.enrollments[id]
	if !ok {
		return Enrollment{}, fmt.Errorf("enrollment %s: %w", id, ErrNotFound)
	}
	e.Course.Units = curriculum.CloneUnits(e.Course.Units)
	return e, nil
}

func (s *MemoryStore) ListEnrollments(_ context.Context, learnerID string) ([]Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Enrollment{}
	for _, e := range s.enrollments {
		if e.LearnerID != learnerID {
			continue
		}
		e.Course.Units = curriculum.CloneUnits(e.Course.Units)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) AddAssignment(_ context.Context, a Assignment) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = uuid.NewString()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.Units = curriculum.CloneUnits(a.Units)
	s.assignments = append(s.assignments, a)
	return a.ID, nil
}

// ListAssignments returns a learner's submissions for a course in the
// order they were recorded.
func (s *MemoryStore) ListAssignments(_ context.Context, learnerID, courseID string) ([]Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Assignment{}
	for _, a := range s.assignments {
		if a.LearnerID == learnerID && a.CourseID == courseID {
			a.Units = curriculum.CloneUnits(a.Units)
			out = append(out, a)
		}
	}
	return out, nil
}
