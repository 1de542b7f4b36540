// SPDX-License-Identifier: MPL-2.0

// Package repo resolves package names to their definition directories.
//
// A repository is a flat directory of per-package definition directories,
// each holding the package recipe and any local patch files. The package is
// the production implementation of the patch.DirResolver collaborator.
package repo
