// SPDX-License-Identifier: MPL-2.0

// Package ledger records successfully applied patches in a TOML file.
//
// Each entry captures the package, the patch specifier and strip level, the
// content fingerprint, and the apply timestamp. The ledger is a caller-side
// convenience for build bookkeeping and deduplication; the patch core itself
// never consults it.
package ledger
