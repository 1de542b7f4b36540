// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError_Nil(t *testing.T) {
	t.Parallel()

	if err := FormatError(nil, "file.cue"); err != nil {
		t.Errorf("FormatError(nil) = %v, want nil", err)
	}
}

func TestFormatError_NonCUEError(t *testing.T) {
	t.Parallel()

	err := FormatError(errors.New("boom"), "file.cue")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "file.cue") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q missing file name or cause", err)
	}
}

func TestFormatError_PathNotation(t *testing.T) {
	t.Parallel()

	schema := `
#Recipe: {
	patches: [...{level: int & >=0}]
}
`
	_, err := ParseAndDecode[struct{}]([]byte(schema),
		[]byte(`patches: [{level: 0}, {level: -1}]`), "#Recipe",
		WithFilename("package.cue"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "patches[1].level") {
		t.Errorf("error %q does not use index notation for the invalid field", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path []string
		want string
	}{
		{name: "empty", path: nil, want: ""},
		{name: "single", path: []string{"name"}, want: "name"},
		{name: "nested", path: []string{"ui", "verbose"}, want: "ui.verbose"},
		{name: "list index", path: []string{"patches", "0", "level"}, want: "patches[0].level"},
		{name: "leading index kept literal", path: []string{"0"}, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
