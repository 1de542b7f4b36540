// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// defaultMaxFileSize bounds user-provided CUE input (1 MB). Recipes and config
// files are small; anything larger is almost certainly a mistake.
const defaultMaxFileSize = 1 << 20

type (
	// options holds parse configuration.
	options struct {
		filename    string
		maxFileSize int64
	}

	// Option configures a parse operation.
	Option func(*options)
)

// WithFilename sets the file name used in error messages.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithMaxFileSize overrides the input size bound.
func WithMaxFileSize(n int64) Option {
	return func(o *options) {
		o.maxFileSize = n
	}
}

// ParseAndDecode unifies user data with an embedded schema definition and
// decodes the result into T:
//
//  1. Compile the embedded schema and look up schemaPath (e.g. "#Recipe")
//  2. Compile the user data and unify with the schema root
//  3. Validate for concreteness and decode
//
// Errors carry the file name and the CUE path of the invalid field.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*T, error) {
	o := options{maxFileSize: defaultMaxFileSize}
	for _, opt := range opts {
		opt(&o)
	}

	filename := o.filename
	if filename == "" {
		filename = "<input>"
	}

	if int64(len(data)) > o.maxFileSize {
		return nil, fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), o.maxFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), filename)
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, FormatError(err, filename)
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, filename)
	}

	return &result, nil
}
