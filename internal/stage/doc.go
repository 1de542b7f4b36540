// SPDX-License-Identifier: MPL-2.0

// Package stage downloads remote patch artifacts into temporary staging
// directories. It is the production implementation of the patch.Fetcher
// collaborator: Fetch stages the content of a URL into a per-fetch directory
// and returns a scoped handle whose Release removes the directory again.
//
// Network policy (timeouts, size bounds, the HTTP client itself) lives here,
// not in the patch core. Gzip-compressed patches are decompressed during
// staging so the handle always points at plain patch bytes.
package stage
