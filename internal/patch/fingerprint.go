// SPDX-License-Identifier: MPL-2.0

package patch

import (
	"context"
	"crypto/md5" //nolint:gosec // Content identification, not a security boundary.
	"encoding/base32"
	"fmt"
	"io"
	"os"
	"strings"
)

// Fingerprint returns the lowercase base32-encoded MD5 digest of the patch
// content, acquiring the content on first call and caching the result. Repeated
// calls return the cached value without re-acquiring or re-reading; Apply
// refreshes the cache from whatever content it actually applied.
func (p *Patch) Fingerprint(ctx context.Context, fetcher Fetcher) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fingerprint != "" {
		return p.fingerprint, nil
	}

	h, err := p.src.acquire(ctx, fetcher)
	if err != nil {
		return "", err
	}
	defer h.Release()

	fp, err := fileFingerprint(h.Path())
	if err != nil {
		return "", fmt.Errorf("fingerprinting patch %s for package %s: %w", p.specifier, p.pkgName, err)
	}
	p.fingerprint = fp
	return fp, nil
}

// fileFingerprint computes the lowercase base32-encoded MD5 digest of the file
// at path, streaming the content through the hash to avoid loading large
// patches into memory. Identical bytes always yield the identical string.
func fileFingerprint(path string) (_ string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		// Read-only file handle; close errors are exotic (NFS edge cases).
		_ = f.Close()
	}()

	h := md5.New() //nolint:gosec // Content identification, not a security boundary.
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file %s: %w", path, err)
	}

	return strings.ToLower(base32.StdEncoding.EncodeToString(h.Sum(nil))), nil
}
