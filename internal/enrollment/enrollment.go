// Package enrollment stores courses, learner enrollments and evidence
// submissions, and computes learner progress over them.
package enrollment

import (
	"errors"
	"time"

	"github.com/krishh26/locker-backend-sub000/internal/curriculum"
)

var (
	// ErrNotFound is returned when a course, enrollment or assignment does
	// not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyEnrolled is returned when a learner is already enrolled on
	// the course.
	ErrAlreadyEnrolled = errors.New("learner already enrolled on course")
)

// Enrollment is a learner's place on a course. Course holds the snapshot
// taken at enrollment time, not the master record.
type Enrollment struct {
	ID         string            `json:"id"`
	LearnerID  string            `json:"learner_id"`
	TrainerID  string            `json:"trainer_id,omitempty"`
	IQAID      string            `json:"iqa_id,omitempty"`
	EmployerID string            `json:"employer_id,omitempty"`
	Course     curriculum.Course `json:"course"`
	StartDate  *time.Time        `json:"start_date,omitempty"`
	EndDate    *time.Time        `json:"end_date,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Assignment is one evidence submission: the units a learner mapped
// evidence against, with their learner and trainer maps as submitted.
type Assignment struct {
	ID        string            `json:"id"`
	LearnerID string            `json:"learner_id" validate:"required"`
	CourseID  string            `json:"course_id" validate:"required"`
	Units     []curriculum.Unit `json:"units" validate:"required,min=1"`
	CreatedAt time.Time         `json:"created_at"`
}

// EnrollRequest asks for a learner to be enrolled on a course.
type EnrollRequest struct {
	LearnerID  string     `json:"learner_id" validate:"required,max=64"`
	CourseID   string     `json:"course_id" validate:"required,max=64"`
	TrainerID  string     `json:"trainer_id" validate:"omitempty,max=64"`
	IQAID      string     `json:"iqa_id" validate:"omitempty,max=64"`
	EmployerID string     `json:"employer_id" validate:"omitempty,max=64"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
}

// LearnerProgress is the rollup of one enrollment.
type LearnerProgress struct {
	EnrollmentID       string `json:"enrollment_id"`
	LearnerID          string `json:"learner_id"`
	CourseID           string `json:"course_id"`
	CourseName         string `json:"course_name"`
	TotalSubUnits      int    `json:"totalSubUnits"`
	NotStarted         int    `json:"notStarted"`
	PartiallyCompleted int    `json:"partiallyCompleted"`
	FullyCompleted     int    `json:"fullyCompleted"`
	PercentComplete    int    `json:"percentComplete"`
}
