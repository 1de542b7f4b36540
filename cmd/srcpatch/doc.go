// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for srcpatch.
//
// This package implements the Cobra command hierarchy: the root command and
// subcommands for applying a package's patches, printing patch fingerprints,
// and inspecting recipes.
package cmd
