// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the shared CUE parsing flow for recipe and config
// files: compile the embedded schema, unify it with the user data, validate,
// and decode into a Go struct. Validation failures are reported with the file
// path and a JSON-style path to the offending field.
package cueutil
