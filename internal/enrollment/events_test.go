package enrollment_test

import (
	"testing"

	"github.com/krishh26/locker-backend-sub000/internal/enrollment"
)

func TestMemoryEventLogger_LogEvent(t *testing.T) {
	logger := enrollment.NewMemoryEventLogger()

	err := logger.LogEvent(t.Context(), enrollment.Event{
		SubjectID: "enr-1",
		EventType: enrollment.EventLearnerEnrolled,
		Data: map[string]any{
			"course_id": "C1",
		},
	})
	if err != nil {
		t.Fatalf("LogEvent() error = %v", err)
	}

	events := logger.Events()
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].EventType != enrollment.EventLearnerEnrolled {
		t.Errorf("EventType = %q, want learner_enrolled", events[0].EventType)
	}
	if events[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestMemoryEventLogger_RequiresType(t *testing.T) {
	logger := enrollment.NewMemoryEventLogger()

	if err := logger.LogEvent(t.Context(), enrollment.Event{SubjectID: "x"}); err == nil {
		t.Fatal("expected error for empty event type")
	}
	if len(logger.Events()) != 0 {
		t.Error("invalid event was stored")
	}
}

func TestPostgresEventLogger_LogEvent_NilPool(t *testing.T) {
	logger := enrollment.NewPostgresEventLogger(nil)

	err := logger.LogEvent(t.Context(), enrollment.Event{
		SubjectID: "enr-1",
		EventType: enrollment.EventCourseGenerated,
	})
	if err == nil {
		t.Fatal("expected error for nil pool")
	}
}

func TestNewPostgresStore_NilPool(t *testing.T) {
	if _, err := enrollment.NewPostgresStore(nil); err == nil {
		t.Fatal("expected error for nil pool")
	}
}
