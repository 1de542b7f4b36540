// SPDX-License-Identifier: MPL-2.0

package repo

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrPackageNotFound is the sentinel error wrapped by PackageNotFoundError.
	ErrPackageNotFound = errors.New("package not found")
	// ErrInvalidPackageName is the sentinel error wrapped by InvalidPackageNameError.
	ErrInvalidPackageName = errors.New("invalid package name")
)

type (
	// Repo is a package repository rooted at a directory of per-package
	// definition directories. Lookups are deterministic and side-effect free.
	Repo struct {
		root string
	}

	// PackageNotFoundError is returned when a package has no definition
	// directory in the repository. It wraps ErrPackageNotFound.
	PackageNotFoundError struct {
		Package string
		Path    string
	}

	// InvalidPackageNameError is returned when a package name is empty or
	// contains path separators or traversal segments. It wraps
	// ErrInvalidPackageName.
	InvalidPackageNameError struct {
		Package string
	}
)

// Error implements the error interface for PackageNotFoundError.
func (e *PackageNotFoundError) Error() string {
	return fmt.Sprintf("package %s not found in repository (looked in %s)", e.Package, e.Path)
}

// Unwrap returns ErrPackageNotFound for errors.Is() compatibility.
func (e *PackageNotFoundError) Unwrap() error { return ErrPackageNotFound }

// Error implements the error interface for InvalidPackageNameError.
func (e *InvalidPackageNameError) Error() string {
	return fmt.Sprintf("invalid package name %q: must be non-empty and contain no path separators", e.Package)
}

// Unwrap returns ErrInvalidPackageName for errors.Is() compatibility.
func (e *InvalidPackageNameError) Unwrap() error { return ErrInvalidPackageName }

// New opens the repository rooted at root, which must be an existing directory.
func New(root string) (*Repo, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving repository root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("opening repository %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening repository %s: not a directory", abs)
	}
	return &Repo{root: abs}, nil
}

// Root returns the absolute repository root.
func (r *Repo) Root() string { return r.root }

// ResolveDirectory returns the absolute definition directory for the named
// package, or PackageNotFoundError when the package has no directory.
func (r *Repo) ResolveDirectory(pkgName string) (string, error) {
	if err := validateName(pkgName); err != nil {
		return "", err
	}

	dir := filepath.Join(r.root, pkgName)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", &PackageNotFoundError{Package: pkgName, Path: dir}
	}
	return dir, nil
}

// List enumerates the package names defined in the repository, sorted.
// Unreadable entries are skipped with a warning rather than failing the scan.
func (r *Repo) List() ([]string, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("scanning repository %s: %w", r.root, err)
	}

	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if !e.IsDir() {
			// Stray files next to package directories are tolerated.
			continue
		}
		if _, statErr := os.Stat(filepath.Join(r.root, e.Name())); statErr != nil {
			slog.Warn("skipping unreadable package directory", "package", e.Name(), "error", statErr)
			continue
		}
		names = append(names, e.Name())
	}

	sort.Strings(names)
	return names, nil
}

// validateName rejects names that would escape the repository root.
func validateName(pkgName string) error {
	if pkgName == "" || strings.TrimSpace(pkgName) == "" {
		return &InvalidPackageNameError{Package: pkgName}
	}
	if strings.ContainsAny(pkgName, `/\`) || pkgName == "." || pkgName == ".." {
		return &InvalidPackageNameError{Package: pkgName}
	}
	return nil
}
