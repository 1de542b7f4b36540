// SPDX-License-Identifier: MPL-2.0

package patch

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// recordingRunner captures the invocation and returns a scripted result.
type recordingRunner struct {
	path     string
	args     []string
	dir      string
	calls    int
	output   string
	exitCode int
	err      error
}

func (r *recordingRunner) run(_ context.Context, path string, args []string, dir string) (string, int, error) {
	r.calls++
	r.path = path
	r.args = args
	r.dir = dir
	return r.output, r.exitCode, r.err
}

func TestApply_InvokesToolWithStripLevelAndQuietMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	patchPath := writePatchFile(t, dir, "fix-build.patch", []byte("patch bytes"))
	resolver := dirMap{"foo": dir}

	runner := &recordingRunner{}
	tool := NewTool("/usr/bin/patch", WithRunner(runner.run))

	p, err := New(resolver, "foo", "fix-build.patch", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := p.Apply(context.Background(), tool, nil, "/tmp/src"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if runner.path != "/usr/bin/patch" {
		t.Errorf("tool path = %q, want /usr/bin/patch", runner.path)
	}
	if runner.dir != "/tmp/src" {
		t.Errorf("working dir = %q, want /tmp/src", runner.dir)
	}
	want := []string{"-s", "-N", "-p", "1", "-i", patchPath}
	if len(runner.args) != len(want) {
		t.Fatalf("args = %v, want %v", runner.args, want)
	}
	for i := range want {
		if runner.args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, runner.args[i], want[i])
		}
	}
}

func TestApply_RemoteFetchesOnceAndReleases(t *testing.T) {
	t.Parallel()

	staged := t.TempDir()
	path := writePatchFile(t, staged, "p.patch", []byte("remote patch"))
	fetcher := &fakeFetcher{path: path}

	runner := &recordingRunner{}
	tool := NewTool("/usr/bin/patch", WithRunner(runner.run))

	p, err := New(dirMap{}, "foo", "https://example.org/p.patch", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := p.Apply(context.Background(), tool, fetcher, "/tmp/src"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := fetcher.fetches.Load(); got != 1 {
		t.Errorf("fetch count = %d, want exactly 1", got)
	}
	if runner.calls != 1 {
		t.Errorf("tool invocations = %d, want 1", runner.calls)
	}
	if got := runner.args[3]; got != "0" {
		t.Errorf("strip level arg = %q, want %q", got, "0")
	}
	for i, h := range fetcher.handles {
		if !h.released.Load() {
			t.Errorf("staging handle %d not released after Apply", i)
		}
	}
}

func TestApply_RefreshesFingerprint(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePatchFile(t, dir, "fix.patch", []byte("original"))
	resolver := dirMap{"foo": dir}

	tool := NewTool("/usr/bin/patch", WithRunner((&recordingRunner{}).run))

	p, err := New(resolver, "foo", "fix.patch", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before, err := p.Fingerprint(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The file changes between fingerprinting and applying; the cached value
	// must track what Apply actually applied.
	writePatchFile(t, dir, "fix.patch", []byte("rewritten"))
	if err := p.Apply(context.Background(), tool, nil, dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after, err := p.Fingerprint(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after == before {
		t.Errorf("fingerprint not refreshed by Apply: still %q", after)
	}
	if want := wantFingerprint([]byte("rewritten")); after != want {
		t.Errorf("fingerprint after Apply = %q, want %q", after, want)
	}
}

func TestApply_ToolFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePatchFile(t, dir, "bad.patch", []byte("not a patch"))
	resolver := dirMap{"foo": dir}

	runner := &recordingRunner{output: "malformed patch at line 1", exitCode: 1}
	tool := NewTool("/usr/bin/patch", WithRunner(runner.run))

	p, err := New(resolver, "foo", "bad.patch", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = p.Apply(context.Background(), tool, nil, "/tmp/src")
	if !errors.Is(err, ErrPatchApply) {
		t.Fatalf("error = %v, want ErrPatchApply", err)
	}

	var applyErr *ApplyError
	if !errors.As(err, &applyErr) {
		t.Fatalf("error is not *ApplyError: %v", err)
	}
	if applyErr.Package != "foo" || applyErr.Specifier != "bad.patch" || applyErr.Level != 2 {
		t.Errorf("ApplyError context = (%q, %q, %d); want (foo, bad.patch, 2)",
			applyErr.Package, applyErr.Specifier, applyErr.Level)
	}
	if applyErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", applyErr.ExitCode)
	}
	if !strings.Contains(applyErr.Error(), "malformed patch") {
		t.Errorf("ApplyError message %q does not carry the tool output", applyErr.Error())
	}
}

func TestApply_ToolFailureReleasesRemoteStaging(t *testing.T) {
	t.Parallel()

	staged := t.TempDir()
	path := writePatchFile(t, staged, "p.patch", []byte("remote patch"))
	fetcher := &fakeFetcher{path: path}

	runner := &recordingRunner{exitCode: 1}
	tool := NewTool("/usr/bin/patch", WithRunner(runner.run))

	p, err := New(dirMap{}, "foo", "https://example.org/p.patch", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := p.Apply(context.Background(), tool, fetcher, "/tmp/src"); !errors.Is(err, ErrPatchApply) {
		t.Fatalf("error = %v, want ErrPatchApply", err)
	}
	for i, h := range fetcher.handles {
		if !h.released.Load() {
			t.Errorf("staging handle %d not released after failed Apply", i)
		}
	}
}

func TestApply_RunnerError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePatchFile(t, dir, "fix.patch", []byte("patch"))
	resolver := dirMap{"foo": dir}

	runner := &recordingRunner{err: errors.New("exec format error")}
	tool := NewTool("/nonexistent/patch", WithRunner(runner.run))

	p, err := New(resolver, "foo", "fix.patch", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = p.Apply(context.Background(), tool, nil, "/tmp/src")
	if err == nil {
		t.Fatal("expected error when the tool cannot be executed")
	}
	if errors.Is(err, ErrPatchApply) {
		t.Errorf("exec failure misclassified as ApplyError: %v", err)
	}
}

func TestLookupTool_NotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := LookupTool()
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("error = %v, want ErrToolNotFound", err)
	}
}
