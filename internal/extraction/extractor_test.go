package extraction_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/krishh26/locker-backend-sub000/internal/extraction"
)

// scriptExtractor runs body as a shell script receiving the input and
// output paths as $1 and $2.
func scriptExtractor(t *testing.T, body string, timeout time.Duration) (*extraction.CommandExtractor, string) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "extract.sh")
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	work := filepath.Join(dir, "work")
	if err := os.Mkdir(work, 0o755); err != nil {
		t.Fatal(err)
	}
	return extraction.NewCommandExtractor(extraction.Config{
		Command: "sh",
		Script:  script,
		WorkDir: work,
		Timeout: timeout,
	}), work
}

func TestCommandExtractor_Extract(t *testing.T) {
	x, _ := scriptExtractor(t, `
test -s "$1" || exit 9
cat > "$2" <<'EOF'
{"table": [["Cover"], ["Title: Safety,Safety,U1", "Level:,3"]]}
EOF
`, 0)

	table, err := x.Extract(t.Context(), []byte("%PDF-1.7 fake"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := extraction.Table{{"Cover"}, {"Title: Safety,Safety,U1", "Level:,3"}}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("Extract() = %v, want %v", table, want)
	}
}

func TestCommandExtractor_Failures(t *testing.T) {
	tests := []struct {
		name      string
		script    string
		wantStage string
		wantExit  int
		wantInErr string
	}{
		{
			name:      "non-zero exit",
			script:    "echo 'no tables found' >&2\nexit 3\n",
			wantStage: extraction.StageRun,
			wantExit:  3,
			wantInErr: "no tables found",
		},
		{
			name:      "no output file",
			script:    "exit 0\n",
			wantStage: extraction.StageRead,
			wantExit:  -1,
		},
		{
			name:      "wrong shape",
			script:    `echo '{"table": "not a table"}' > "$2"` + "\n",
			wantStage: extraction.StageValidate,
			wantExit:  -1,
			wantInErr: "invalid output",
		},
		{
			name:      "not json",
			script:    `echo 'Cleaned table data' > "$2"` + "\n",
			wantStage: extraction.StageValidate,
			wantExit:  -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, _ := scriptExtractor(t, tt.script, 0)

			_, err := x.Extract(t.Context(), []byte("doc"))

			var ce *extraction.ConversionError
			if !errors.As(err, &ce) {
				t.Fatalf("Extract() error = %v, want *ConversionError", err)
			}
			if ce.Stage != tt.wantStage {
				t.Errorf("Stage = %q, want %q", ce.Stage, tt.wantStage)
			}
			if ce.ExitCode != tt.wantExit {
				t.Errorf("ExitCode = %d, want %d", ce.ExitCode, tt.wantExit)
			}
			if tt.wantInErr != "" && !strings.Contains(err.Error(), tt.wantInErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantInErr)
			}
		})
	}
}

func TestCommandExtractor_Timeout(t *testing.T) {
	x, _ := scriptExtractor(t, "exec sleep 5\n", 50*time.Millisecond)

	_, err := x.Extract(t.Context(), []byte("doc"))

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Extract() error = %v, want deadline exceeded", err)
	}
}

func TestCommandExtractor_RemovesWorkDir(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"success", `echo '{"table": []}' > "$2"` + "\n"},
		{"failure", "exit 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, work := scriptExtractor(t, tt.script, 0)

			_, _ = x.Extract(t.Context(), []byte("doc"))

			entries, err := os.ReadDir(work)
			if err != nil {
				t.Fatalf("ReadDir() error = %v", err)
			}
			if len(entries) != 0 {
				t.Errorf("work dir not cleaned up: %v", entries)
			}
		})
	}
}

func TestCommandExtractor_EmptyTable(t *testing.T) {
	x, _ := scriptExtractor(t, `echo '{"table": []}' > "$2"`+"\n", 0)

	table, err := x.Extract(t.Context(), []byte("doc"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if table == nil || len(table) != 0 {
		t.Errorf("Extract() = %v, want empty table", table)
	}
}

func TestCommandExtractor_EmptyDocument(t *testing.T) {
	x := extraction.NewCommandExtractor(extraction.Config{Command: "does-not-matter"})

	if _, err := x.Extract(t.Context(), nil); !errors.Is(err, extraction.ErrNoDocument) {
		t.Errorf("Extract(nil) error = %v, want ErrNoDocument", err)
	}
}

func TestCommandExtractor_MissingCommand(t *testing.T) {
	x := extraction.NewCommandExtractor(extraction.Config{
		Command: "locker-no-such-extractor",
		WorkDir: t.TempDir(),
	})

	_, err := x.Extract(t.Context(), []byte("doc"))

	var ce *extraction.ConversionError
	if !errors.As(err, &ce) || ce.Stage != extraction.StageRun || ce.ExitCode != -1 {
		t.Errorf("Extract() error = %v, want run-stage ConversionError", err)
	}
}
