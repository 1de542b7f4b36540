// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved, and
// remediation suggestions. Known failure modes additionally have
// Markdown-formatted issue pages rendered with glamour for the CLI.
package issue
