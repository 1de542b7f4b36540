// SPDX-License-Identifier: MPL-2.0

package patch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

// ToolName is the external diff-application binary invoked to apply patches.
const ToolName = "patch"

type (
	// Runner executes the patch binary at path with args in dir and returns its
	// combined output and exit code. A non-nil error means the process could
	// not be run at all; a non-zero exit is reported through exitCode, not err.
	Runner func(ctx context.Context, path string, args []string, dir string) (output string, exitCode int, err error)

	// Tool is the external patch-application tool. The binary location is
	// resolved once and injected into callers rather than looked up globally,
	// so tests can substitute a fake binary or Runner.
	Tool struct {
		path string
		run  Runner
	}

	// ToolOption configures a Tool during construction.
	ToolOption func(*Tool)
)

// WithRunner replaces the subprocess runner, primarily for tests.
func WithRunner(r Runner) ToolOption {
	return func(t *Tool) {
		t.run = r
	}
}

// LookupTool resolves the patch binary on PATH. Absence of the tool is a fatal
// startup-time condition for anything that applies patches, so callers are
// expected to fail their run when this errors.
func LookupTool(opts ...ToolOption) (*Tool, error) {
	path, err := exec.LookPath(ToolName)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not on PATH", ErrToolNotFound, ToolName)
	}
	return NewTool(path, opts...), nil
}

// NewTool creates a Tool for an explicitly located patch binary.
func NewTool(path string, opts ...ToolOption) *Tool {
	t := &Tool{
		path: path,
		run:  execRunner,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Path returns the resolved location of the patch binary.
func (t *Tool) Path() string { return t.path }

// Run applies patchFile at the given strip level to the tree rooted at dir.
// The invocation uses silent mode (-s), skips hunks that are already applied
// (-N) so repeated application of the same patch is not user-visible noise,
// and strips level leading path components (-p).
func (t *Tool) Run(ctx context.Context, patchFile string, level int, dir string) (string, int, error) {
	args := []string{"-s", "-N", "-p", strconv.Itoa(level), "-i", patchFile}
	return t.run(ctx, t.path, args, dir)
}

// execRunner is the production Runner backed by os/exec.
func execRunner(ctx context.Context, path string, args []string, dir string) (string, int, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return combined.String(), exitErr.ExitCode(), nil
		}
		return combined.String(), -1, fmt.Errorf("failed to execute %s: %w", path, err)
	}
	return combined.String(), 0, nil
}
