// SPDX-License-Identifier: MPL-2.0

// Package patch implements patch acquisition and application for package builds.
//
// A Patch is constructed from a package's declared specifier (either a file
// relative to the package definition directory or a remote URL) and a
// directory-strip level. At apply time the patch content is acquired through a
// scoped Handle, its fingerprint recorded, and the external patch tool invoked
// against the unpacked source tree. Remote acquisition is delegated to a
// Fetcher collaborator (see internal/stage); the external tool is represented
// by an injectable Tool so tests can substitute a fake subprocess runner.
package patch
