// Package extraction turns uploaded curriculum documents into raw table
// sections by running an external extraction program.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoDocument is returned when the upload is empty.
var ErrNoDocument = errors.New("no document")

// Table is an extracted document: one section of raw text lines per unit
// page, preceded by the cover section.
type Table [][]string

// Extractor extracts table sections from a document.
type Extractor interface {
	Extract(ctx context.Context, document []byte) (Table, error)
}

// Conversion stages reported by ConversionError.
const (
	StageWrite    = "write"
	StageRun      = "run"
	StageRead     = "read"
	StageValidate = "validate"
	StageDecode   = "decode"
)

// ConversionError reports a failed extraction. ExitCode is -1 when the
// process did not exit normally or never ran.
type ConversionError struct {
	Stage    string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("conversion %s failed: %v", e.Stage, e.Err)
	if e.Stage == StageRun && e.ExitCode >= 0 {
		msg += fmt.Sprintf(" (exit %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += "; stderr=" + e.Stderr
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Config configures a CommandExtractor.
type Config struct {
	// Command is the program to run, e.g. "python3".
	Command string
	// Script is passed as the first argument when set.
	Script string
	// WorkDir is where per-run temp directories are created. Empty uses
	// the system temp dir.
	WorkDir string
	// Timeout bounds each run. Zero waits for the process to exit.
	Timeout time.Duration
}

const (
	maxStderr = 4 << 10
	waitDelay = 2 * time.Second
)

// CommandExtractor runs "<command> [script] <input> <output>" and reads the
// table the program writes to <output> as {"table": [[...]]}.
type CommandExtractor struct {
	cfg Config
}

// NewCommandExtractor creates an extractor for cfg.
func NewCommandExtractor(cfg Config) *CommandExtractor {
	return &CommandExtractor{cfg: cfg}
}

// Extract writes document to a private work directory, runs the program
// and decodes its output. The work directory is always removed.
func (x *CommandExtractor) Extract(ctx context.Context, document []byte) (Table, error) {
	if len(document) == 0 {
		return nil, ErrNoDocument
	}

	dir, err := os.MkdirTemp(x.cfg.WorkDir, "extract-*")
	if err != nil {
		return nil, &ConversionError{Stage: StageWrite, ExitCode: -1, Err: fmt.Errorf("create work dir: %w", err)}
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.pdf")
	output := filepath.Join(dir, "output.json")
	if err := os.WriteFile(input, document, 0o600); err != nil {
		return nil, &ConversionError{Stage: StageWrite, ExitCode: -1, Err: fmt.Errorf("write input: %w", err)}
	}

	if x.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, x.cfg.Timeout)
		defer cancel()
	}

	var args []string
	if x.cfg.Script != "" {
		args = append(args, x.cfg.Script)
	}
	args = append(args, input, output)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, x.cfg.Command, args...)
	cmd.Dir = dir
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	if err := cmd.Run(); err != nil {
		ce := &ConversionError{Stage: StageRun, ExitCode: -1, Stderr: tail(stderr.String()), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			ce.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			ce.Err = ctxErr
		}
		return nil, ce
	}

	data, err := os.ReadFile(output)
	if err != nil {
		return nil, &ConversionError{Stage: StageRead, ExitCode: -1, Stderr: tail(stderr.String()), Err: err}
	}
	table, err := decodeOutput(data)
	if err != nil {
		return nil, err
	}

	slog.Info("document extracted",
		"bytes", len(document),
		"sections", len(table),
		"duration", time.Since(start),
	)
	return table, nil
}

func decodeOutput(data []byte) (Table, error) {
	if err := validateOutput(data); err != nil {
		return nil, &ConversionError{Stage: StageValidate, ExitCode: -1, Err: err}
	}
	var out struct {
		Table Table `json:"table"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &ConversionError{Stage: StageDecode, ExitCode: -1, Err: err}
	}
	if out.Table == nil {
		out.Table = Table{}
	}
	return out.Table, nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		s = s[len(s)-maxStderr:]
	}
	return s
}
