package curriculum

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const courseSuffix = ".course.yaml"

// courseSeed is the on-disk shape of a seeded course. Units are stored in
// the legacy flat shape and converted on load.
type courseSeed struct {
	ID    string       `yaml:"course_id"`
	Name  string       `yaml:"course_name"`
	Code  string       `yaml:"course_code"`
	Kind  string       `yaml:"course_core_type"`
	Units []LegacyUnit `yaml:"units"`
}

// Loader loads and caches seeded courses from the filesystem.
type Loader struct {
	rootDir string
	ids     IDGenerator
	courses map[string]Course
	mu      sync.RWMutex
}

// NewLoader creates a loader and loads every *.course.yaml under rootDir.
func NewLoader(rootDir string, ids IDGenerator) (*Loader, error) {
	l := &Loader{
		rootDir: rootDir,
		ids:     ids,
		courses: make(map[string]Course),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading courses: %w", err)
	}

	slog.Info("course seeds loaded", "courses", len(l.courses))
	return l, nil
}

// GetCourse returns a seeded course by ID.
func (l *Loader) GetCourse(id string) (Course, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.courses[id]
	return c, ok
}

// AllCourses returns all seeded courses ordered by ID.
func (l *Loader) AllCourses() []Course {
	l.mu.RLock()
	defer l.mu.RUnlock()
	courses := make([]Course, 0, len(l.courses))
	for _, c := range l.courses {
		courses = append(courses, c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses
}

func (l *Loader) loadAll() error {
	return filepath.Walk(l.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, courseSuffix) {
			return nil
		}
		return l.loadCourse(path)
	})
}

func (l *Loader) loadCourse(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var seed courseSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		slog.Warn("skipping invalid course YAML", "path", path, "error", err)
		return nil
	}

	if seed.ID == "" {
		return nil // Not a course file
	}

	b := NewBuilder(ParseKind(seed.Kind), l.ids)
	course := Course{
		ID:    seed.ID,
		Name:  seed.Name,
		Code:  seed.Code,
		Kind:  b.Kind(),
		Units: make([]Unit, 0, len(seed.Units)),
	}
	for _, lu := range seed.Units {
		course.Units = append(course.Units, b.ConvertLegacy(lu))
	}
	t := TotalsFromUnits(course.Units)
	course.Level, course.TotalCredits, course.GuidedLearningHours = t.Level, t.TotalCredits, t.GuidedLearningHours

	l.mu.Lock()
	l.courses[course.ID] = course
	l.mu.Unlock()

	return nil
}

func (n *Numeric) UnmarshalYAML(value *yaml.Node) error {
	*n = Numeric(parseNumber(value.Value))
	return nil
}

func (f *Flag) UnmarshalYAML(value *yaml.Node) error {
	*f = Flag(strings.EqualFold(strings.TrimSpace(value.Value), "true"))
	return nil
}
