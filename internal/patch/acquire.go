// SPDX-License-Identifier: MPL-2.0

package patch

import (
	"context"
	"errors"
)

type (
	// Handle is a scoped loan of a readable local path to the patch content.
	// The path must not be used after Release; callers release with
	// defer h.Release() so staging temporaries are freed on every exit path.
	Handle interface {
		// Path returns the local readable path to the patch content.
		Path() string
		// Release frees any staging resources backing the handle. It is
		// idempotent and never fails; local handles are a no-op.
		Release()
	}

	// Fetcher stages a remote patch into a temporary local file. Network
	// behavior (retries, timeouts, size limits) belongs to the implementation,
	// not to this package.
	Fetcher interface {
		Fetch(ctx context.Context, url string) (Handle, error)
	}

	// source is the tagged variant behind a Patch: exactly one of the local or
	// remote forms exists per Patch, decided once at construction.
	source interface {
		acquire(ctx context.Context, fetcher Fetcher) (Handle, error)
	}

	// localSource yields the already-resolved package-directory file. The file
	// belongs to the package definition and is never deleted.
	localSource struct {
		path string
	}

	// remoteSource delegates acquisition to the Fetcher collaborator.
	remoteSource struct {
		url string
	}

	// localHandle is the passthrough handle for localSource.
	localHandle string
)

// Path returns the local file path.
func (h localHandle) Path() string { return string(h) }

// Release is a no-op: the file is owned by the package directory.
func (h localHandle) Release() {}

func (s localSource) acquire(_ context.Context, _ Fetcher) (Handle, error) {
	return localHandle(s.path), nil
}

func (s remoteSource) acquire(ctx context.Context, fetcher Fetcher) (Handle, error) {
	if fetcher == nil {
		return nil, &FetchError{URL: s.url, Err: errors.New("no fetcher configured")}
	}
	h, err := fetcher.Fetch(ctx, s.url)
	if err != nil {
		// Preserve an already-classified fetch failure instead of double-wrapping.
		var fe *FetchError
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, &FetchError{URL: s.url, Err: err}
	}
	return h, nil
}
