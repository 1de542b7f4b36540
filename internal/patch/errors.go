// SPDX-License-Identifier: MPL-2.0

package patch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPatchLevel is the sentinel error wrapped by InvalidPatchLevelError.
	ErrInvalidPatchLevel = errors.New("invalid patch level")
	// ErrNoSuchPatchFile is the sentinel error wrapped by NoSuchPatchFileError.
	ErrNoSuchPatchFile = errors.New("no such patch file")
	// ErrPatchFetch is the sentinel error wrapped by FetchError.
	ErrPatchFetch = errors.New("patch fetch failed")
	// ErrPatchApply is the sentinel error wrapped by ApplyError.
	ErrPatchApply = errors.New("patch apply failed")
	// ErrToolNotFound is returned when the external patch binary is not on PATH.
	ErrToolNotFound = errors.New("patch tool not found")
)

type (
	// InvalidPatchLevelError is returned at construction time when the
	// directory-strip level is negative. It wraps ErrInvalidPatchLevel for
	// errors.Is() compatibility.
	InvalidPatchLevelError struct {
		Level int
	}

	// NoSuchPatchFileError is returned at construction time when a local patch
	// specifier does not resolve to a regular file inside the owning package's
	// definition directory. It wraps ErrNoSuchPatchFile.
	NoSuchPatchFileError struct {
		Package string
		Path    string
	}

	// FetchError is returned when remote acquisition of a patch fails. It wraps
	// both ErrPatchFetch and the underlying cause.
	FetchError struct {
		URL string
		Err error
	}

	// ApplyError is returned when the external patch tool exits non-zero. The
	// captured combined output is preserved for user diagnostics. It wraps
	// ErrPatchApply.
	ApplyError struct {
		Package   string
		Specifier string
		Level     int
		ExitCode  int
		Output    string
	}
)

// Error implements the error interface for InvalidPatchLevelError.
func (e *InvalidPatchLevelError) Error() string {
	return fmt.Sprintf("invalid patch level: needs to be a non-negative integer (got %d)", e.Level)
}

// Unwrap returns ErrInvalidPatchLevel for errors.Is() compatibility.
func (e *InvalidPatchLevelError) Unwrap() error { return ErrInvalidPatchLevel }

// Error implements the error interface for NoSuchPatchFileError.
func (e *NoSuchPatchFileError) Error() string {
	return fmt.Sprintf("no such patch file for package %s: %s", e.Package, e.Path)
}

// Unwrap returns ErrNoSuchPatchFile for errors.Is() compatibility.
func (e *NoSuchPatchFileError) Unwrap() error { return ErrNoSuchPatchFile }

// Error implements the error interface for FetchError.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching patch %s: %v", e.URL, e.Err)
}

// Unwrap returns both ErrPatchFetch and the underlying cause so callers can
// classify with errors.Is(err, ErrPatchFetch) or inspect the cause directly.
func (e *FetchError) Unwrap() []error { return []error{ErrPatchFetch, e.Err} }

// Error implements the error interface for ApplyError.
func (e *ApplyError) Error() string {
	msg := fmt.Sprintf("applying patch %s (level %d) to package %s: patch tool exited with status %d",
		e.Specifier, e.Level, e.Package, e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

// Unwrap returns ErrPatchApply for errors.Is() compatibility.
func (e *ApplyError) Unwrap() error { return ErrPatchApply }
