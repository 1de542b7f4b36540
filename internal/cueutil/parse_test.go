// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Thing: {
	name:  string & !=""
	count: *1 | (int & >=0)
}
`

type thing struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	got, err := ParseAndDecode[thing]([]byte(testSchema), []byte(`name: "zlib", count: 3`), "#Thing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "zlib" || got.Count != 3 {
		t.Errorf("decoded %+v, want {zlib 3}", got)
	}
}

func TestParseAndDecode_DefaultApplies(t *testing.T) {
	t.Parallel()

	got, err := ParseAndDecode[thing]([]byte(testSchema), []byte(`name: "zlib"`), "#Thing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Count != 1 {
		t.Errorf("Count = %d, want default 1", got.Count)
	}
}

func TestParseAndDecode_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "missing required field", data: `count: 2`},
		{name: "empty name", data: `name: ""`},
		{name: "wrong type", data: `name: "x", count: "two"`},
		{name: "constraint violated", data: `name: "x", count: -1`},
		{name: "syntax error", data: `{{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseAndDecode[thing]([]byte(testSchema), []byte(tt.data), "#Thing"); err == nil {
				t.Errorf("ParseAndDecode(%q) succeeded, want error", tt.data)
			}
		})
	}
}

func TestParseAndDecode_ErrorNamesFile(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[thing]([]byte(testSchema), []byte(`name: ""`), "#Thing",
		WithFilename("conf/thing.cue"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "conf/thing.cue") {
		t.Errorf("error %q does not name the input file", err)
	}
}

func TestParseAndDecode_SizeLimit(t *testing.T) {
	t.Parallel()

	data := []byte(`name: "zlib"`)
	_, err := ParseAndDecode[thing]([]byte(testSchema), data, "#Thing",
		WithMaxFileSize(int64(len(data)-1)))
	if err == nil {
		t.Fatal("expected error for oversized input")
	}
	if !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("error %q does not mention the size bound", err)
	}
}

func TestParseAndDecode_UnknownSchemaPath(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[thing]([]byte(testSchema), []byte(`name: "x"`), "#Missing")
	if err == nil {
		t.Fatal("expected error for unknown schema definition")
	}
}
