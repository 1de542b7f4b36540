// SPDX-License-Identifier: MPL-2.0

package patch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type (
	// DirResolver maps a package name to its definition directory. The package
	// repository (internal/repo) is the production implementation; it is
	// assumed deterministic and side-effect free.
	DirResolver interface {
		ResolveDirectory(pkgName string) (string, error)
	}

	// Patch describes one patch to apply to one package's unpacked source
	// tree. A Patch is immutable after construction except for the lazily
	// computed fingerprint cache, which is guarded for concurrent use.
	Patch struct {
		pkgName   string
		specifier string
		level     int
		src       source

		mu          sync.Mutex
		fingerprint string
	}
)

// New validates and classifies a patch specifier, producing a Patch or failing.
//
// A negative level fails with InvalidPatchLevelError. Specifiers containing
// "://" are classified as remote; reachability is not checked until fetch time.
// Anything else is resolved relative to the owning package's definition
// directory and must exist as a regular file now — a missing local patch file
// is a package definition error, not a runtime condition, and fails with
// NoSuchPatchFileError.
func New(resolver DirResolver, pkgName, specifier string, level int) (*Patch, error) {
	if level < 0 {
		return nil, &InvalidPatchLevelError{Level: level}
	}

	p := &Patch{
		pkgName:   pkgName,
		specifier: specifier,
		level:     level,
	}

	if strings.Contains(specifier, "://") {
		p.src = remoteSource{url: specifier}
		return p, nil
	}

	dir, err := resolver.ResolveDirectory(pkgName)
	if err != nil {
		return nil, fmt.Errorf("resolving directory for package %s: %w", pkgName, err)
	}

	path := filepath.Join(dir, specifier)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, &NoSuchPatchFileError{Package: pkgName, Path: path}
	}

	p.src = localSource{path: path}
	return p, nil
}

// Package returns the owning package's name.
func (p *Patch) Package() string { return p.pkgName }

// Specifier returns the patch specifier exactly as declared.
func (p *Patch) Specifier() string { return p.specifier }

// Level returns the directory-strip level passed to the patch tool.
func (p *Patch) Level() int { return p.level }

// LocalPath returns the resolved absolute path and true for local patches,
// or "" and false for remote ones.
func (p *Patch) LocalPath() (string, bool) {
	if s, ok := p.src.(localSource); ok {
		return s.path, true
	}
	return "", false
}

// URL returns the remote URL and true for remote patches, or "" and false
// for local ones.
func (p *Patch) URL() (string, bool) {
	if s, ok := p.src.(remoteSource); ok {
		return s.url, true
	}
	return "", false
}

// Apply acquires the patch content and applies it with the external tool to
// the unpacked source tree rooted at sourceRoot. The cached fingerprint is
// always refreshed from the freshly acquired content, so a later Fingerprint
// call reflects this apply even after a prior partial attempt.
//
// A non-zero tool exit surfaces as ApplyError; it is not retried here — the
// caller decides whether the build aborts or continues.
func (p *Patch) Apply(ctx context.Context, tool *Tool, fetcher Fetcher, sourceRoot string) error {
	h, err := p.src.acquire(ctx, fetcher)
	if err != nil {
		return err
	}
	defer h.Release()

	fp, err := fileFingerprint(h.Path())
	if err != nil {
		return fmt.Errorf("fingerprinting patch %s for package %s: %w", p.specifier, p.pkgName, err)
	}
	p.mu.Lock()
	p.fingerprint = fp
	p.mu.Unlock()

	output, exitCode, err := tool.Run(ctx, h.Path(), p.level, sourceRoot)
	if err != nil {
		return fmt.Errorf("running patch tool for package %s: %w", p.pkgName, err)
	}
	if exitCode != 0 {
		return &ApplyError{
			Package:   p.pkgName,
			Specifier: p.specifier,
			Level:     p.level,
			ExitCode:  exitCode,
			Output:    output,
		}
	}
	return nil
}
