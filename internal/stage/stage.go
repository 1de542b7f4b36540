// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"srcpatch-cli/internal/patch"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
)

const (
	// defaultMaxPatchBytes is the upper bound on a staged patch download (64 MB).
	// Prevents unbounded disk and memory consumption from a misbehaving server.
	defaultMaxPatchBytes = 64 << 20

	// defaultFetchTimeout bounds a single patch download end to end.
	defaultFetchTimeout = 5 * time.Minute

	// stageDirPattern prefixes every staging directory. The %016x slot carries
	// an xxhash key of the URL so concurrent stages for distinct URLs never
	// share a MkdirTemp pattern prefix.
	stageDirPattern = "srcpatch-stage-%016x-"
)

type (
	// Manager creates staging directories and downloads patch content into
	// them. The zero-value defaults stage under the system temp directory with
	// a bounded HTTP client.
	Manager struct {
		root      string // parent directory for stage dirs ("" = os.TempDir())
		client    *http.Client
		userAgent string
		maxBytes  int64
	}

	// Option configures a Manager during construction.
	Option func(*Manager)

	// stagedHandle is the scoped handle returned by Fetch. Release removes the
	// whole staging directory; it is safe to call more than once.
	stagedHandle struct {
		path string
		dir  string
		once sync.Once
	}
)

// WithRoot places staging directories under dir instead of the system temp
// directory. The directory is created on first use.
func WithRoot(dir string) Option {
	return func(m *Manager) {
		m.root = dir
	}
}

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy
// configurations.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) {
		m.client = c
	}
}

// WithUserAgent sets the User-Agent header sent with every download.
func WithUserAgent(ua string) Option {
	return func(m *Manager) {
		m.userAgent = ua
	}
}

// WithMaxBytes overrides the download size bound.
func WithMaxBytes(n int64) Option {
	return func(m *Manager) {
		m.maxBytes = n
	}
}

// NewManager creates a Manager with sensible defaults.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		client:    &http.Client{Timeout: defaultFetchTimeout},
		userAgent: "srcpatch/dev",
		maxBytes:  defaultMaxPatchBytes,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fetch downloads the patch at rawURL into a fresh staging directory and
// returns a handle to the local copy. The handle's Release removes the
// staging directory; callers release with defer so cleanup runs on every
// exit path. Gzip-compressed content (by .gz suffix) is decompressed during
// staging.
func (m *Manager) Fetch(ctx context.Context, rawURL string) (patch.Handle, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing patch URL: %w", err)
	}

	dir, err := m.createStageDir(rawURL)
	if err != nil {
		return nil, err
	}

	filePath, err := m.download(ctx, u, dir)
	if err != nil {
		removeStageDir(dir)
		return nil, err
	}

	return &stagedHandle{path: filePath, dir: dir}, nil
}

// createStageDir makes a unique staging directory keyed by the URL hash.
func (m *Manager) createStageDir(rawURL string) (string, error) {
	root := m.root
	if root != "" {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return "", fmt.Errorf("creating stage root %s: %w", root, err)
		}
	}
	dir, err := os.MkdirTemp(root, fmt.Sprintf(stageDirPattern, xxhash.Sum64String(rawURL)))
	if err != nil {
		return "", fmt.Errorf("creating stage directory: %w", err)
	}
	return dir, nil
}

// download streams the response body into the staging directory and returns
// the path of the staged file.
func (m *Manager) download(ctx context.Context, u *url.URL, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", m.userAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: unexpected status %d", u, resp.StatusCode)
	}

	name := stagedFileName(u)
	body := io.Reader(io.LimitReader(resp.Body, m.maxBytes+1))

	if strings.HasSuffix(name, ".gz") {
		gz, gzErr := gzip.NewReader(body)
		if gzErr != nil {
			return "", fmt.Errorf("decompressing %s: %w", u, gzErr)
		}
		defer func() { _ = gz.Close() }()
		body = io.LimitReader(gz, m.maxBytes+1)
		name = strings.TrimSuffix(name, ".gz")
	}

	filePath := filepath.Join(dir, name)
	f, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating staged file: %w", err)
	}

	n, err := io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("writing staged file: %w", err)
	}
	if n > m.maxBytes {
		return "", fmt.Errorf("downloading %s: content exceeds %d byte limit", u, m.maxBytes)
	}

	return filePath, nil
}

// Path returns the staged local file path.
func (h *stagedHandle) Path() string { return h.path }

// Release removes the staging directory. Idempotent.
func (h *stagedHandle) Release() {
	h.once.Do(func() {
		removeStageDir(h.dir)
	})
}

// stagedFileName derives the staged file name from the URL path, falling back
// to a stable generic name for URLs without a usable base segment.
func stagedFileName(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "staged.patch"
	}
	return name
}

func removeStageDir(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("failed to remove stage directory", "dir", dir, "error", err)
	}
}
