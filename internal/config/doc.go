// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the
// file format.
//
// Configuration is loaded from config.cue in the platform config directory
// ($XDG_CONFIG_HOME/srcpatch on Linux, ~/Library/Application Support/srcpatch
// on macOS, %APPDATA%\srcpatch on Windows), with SRCPATCH_* environment
// variables taking precedence. The file is validated against an embedded CUE
// schema before being merged over the defaults.
package config
