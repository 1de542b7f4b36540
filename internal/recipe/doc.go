// SPDX-License-Identifier: MPL-2.0

// Package recipe loads package recipes from package.cue files.
//
// A recipe is pure declarative data: the package name, version, source URL,
// and the ordered list of patch declarations (specifier plus strip level).
// Recipes are validated against an embedded CUE schema; patch ordering is
// preserved exactly as declared so callers control application sequencing.
package recipe
