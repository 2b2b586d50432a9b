package enrollment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/krishh26/locker-backend-sub000/internal/curriculum"
)

const (
	dbTimeout       = 5 * time.Second
	uniqueViolation = "23505"
)

// PostgresStore is a PostgreSQL-backed Store. Unit hierarchies are stored
// as jsonb inside their owning course, enrollment or assignment row.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed store. The schema must
// already exist; see database.EnsureSchema.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) SaveCourse(ctx context.Context, course curriculum.Course) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if course.ID == "" {
		return fmt.Errorf("course_id is required")
	}
	data, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("marshal course: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO courses (id, name, code, kind, data)
		 VALUES ($1, $2, $3, $4, $5::jsonb)
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name,
		     code = EXCLUDED.code,
		     kind = EXCLUDED.kind,
		     data = EXCLUDED.data,
		     updated_at = NOW()`,
		course.ID,
		course.Name,
		nullIfEmpty(course.Code),
		string(course.Kind),
		string(data),
	)
	if err != nil {
		return fmt.Errorf("save course: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetCourse(ctx context.Context, id string) (curriculum.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM courses WHERE id = $1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return curriculum.Course{}, fmt.Errorf("course %s: %w", id, ErrNotFound)
		}
		return curriculum.Course{}, fmt.Errorf("get course: %w", err)
	}

	var course curriculum.Course
	if err := json.Unmarshal(data, &course); err != nil {
		return curriculum.Course{}, fmt.Errorf("decode course: %w", err)
	}
	return course, nil
}

func (s *PostgresStore) CreateEnrollment(ctx context.Context, e Enrollment) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if e.LearnerID == "" {
		return "", fmt.Errorf("learner_id is required")
	}
	snapshot, err := json.Marshal(e.Course)
	if err != nil {
		return "", fmt.Errorf("marshal course snapshot: %w", err)
	}

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	id := uuid.NewString()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO enrollments (id, learner_id, course_id, trainer_id, iqa_id, employer_id, course, start_date, end_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, $10)`,
		id,
		e.LearnerID,
		e.Course.ID,
		nullIfEmpty(e.TrainerID),
		nullIfEmpty(e.IQAID),
		nullIfEmpty(e.EmployerID),
		string(snapshot),
		e.StartDate,
		e.EndDate,
		createdAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", ErrAlreadyEnrolled
		}
		return "", fmt.Errorf("create enrollment: %w", err)
	}
	return id, nil
}

const enrollmentColumns = `id, learner_id, trainer_id, iqa_id, employer_id, course, start_date, end_date, created_at`

func (s *PostgresStore) GetEnrollment(ctx context.Context, id string) (Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := s.pool.QueryRow(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id)
	e, err := scanEnrollment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Enrollment{}, fmt.Errorf("enrollment %s: %w", id, ErrNotFound)
		}
		return Enrollment{}, fmt.Errorf("get enrollment: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) ListEnrollments(ctx context.Context, learnerID string) ([]Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT `+enrollmentColumns+`
		 FROM enrollments
		 WHERE learner_id = $1
		 ORDER BY created_at ASC, id ASC`,
		learnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query enrollments: %w", err)
	}
	defer rows.Close()

	out := []Enrollment{}
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollments: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) AddAssignment(ctx context.Context, a Assignment) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	units, err := json.Marshal(a.Units)
	if err != nil {
		return "", fmt.Errorf("marshal assignment units: %w", err)
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	id := uuid.NewString()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO assignments (id, learner_id, course_id, units, created_at)
		 VALUES ($1, $2, $3, $4::jsonb, $5)`,
		id,
		a.LearnerID,
		a.CourseID,
		string(units),
		createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert assignment: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) ListAssignments(ctx context.Context, learnerID, courseID string) ([]Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT id, learner_id, course_id, units, created_at
		 FROM assignments
		 WHERE learner_id = $1 AND course_id = $2
		 ORDER BY created_at ASC, id ASC`,
		learnerID,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	out := []Assignment{}
	for rows.Next() {
		var a Assignment
		var units []byte
		if err := rows.Scan(&a.ID, &a.LearnerID, &a.CourseID, &units, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		if err := json.Unmarshal(units, &a.Units); err != nil {
			return nil, fmt.Errorf("decode assignment %s units: %w", a.ID, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return out, nil
}

func scanEnrollment(row pgx.Row) (Enrollment, error) {
	var e Enrollment
	var trainerID, iqaID, employerID *string
	var course []byte

	if err := row.Scan(
		&e.ID,
		&e.LearnerID,
		&trainerID,
		&iqaID,
		&employerID,
		&course,
		&e.StartDate,
		&e.EndDate,
		&e.CreatedAt,
	); err != nil {
		return Enrollment{}, err
	}

	if trainerID != nil {
		e.TrainerID = *trainerID
	}
	if iqaID != nil {
		e.IQAID = *iqaID
	}
	if employerID != nil {
		e.EmployerID = *employerID
	}
	if err := json.Unmarshal(course, &e.Course); err != nil {
		return Enrollment{}, fmt.Errorf("decode course snapshot: %w", err)
	}
	return e, nil
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
