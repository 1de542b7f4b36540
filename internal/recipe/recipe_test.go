// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_FullRecipe(t *testing.T) {
	t.Parallel()

	data := []byte(`
name:     "r-codetools"
version:  "0.2-8"
homepage: "https://cran.r-project.org/package=codetools"
url:      "https://cran.r-project.org/src/contrib/codetools_0.2-8.tar.gz"
patches: [
	{patch: "fix-build.patch"},
	{patch: "https://example.org/upstream.patch", level: 0},
]
`)

	rec, err := Parse(data, "package.cue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Name != "r-codetools" || rec.Version != "0.2-8" {
		t.Errorf("name/version = (%q, %q), want (r-codetools, 0.2-8)", rec.Name, rec.Version)
	}
	if len(rec.Patches) != 2 {
		t.Fatalf("got %d patches, want 2", len(rec.Patches))
	}

	// Declaration order is preserved; the level defaults to 1.
	if rec.Patches[0].Patch != "fix-build.patch" || rec.Patches[0].Level != 1 {
		t.Errorf("patches[0] = %+v, want fix-build.patch at level 1", rec.Patches[0])
	}
	if rec.Patches[1].Patch != "https://example.org/upstream.patch" || rec.Patches[1].Level != 0 {
		t.Errorf("patches[1] = %+v, want the URL at level 0", rec.Patches[1])
	}
}

func TestParse_MinimalRecipe(t *testing.T) {
	t.Parallel()

	rec, err := Parse([]byte(`name: "zlib", version: "1.3.1"`), "package.cue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Patches) != 0 {
		t.Errorf("got %d patches, want none", len(rec.Patches))
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "missing name", data: `version: "1.0"`},
		{name: "empty name", data: `name: "", version: "1.0"`},
		{name: "missing version", data: `name: "zlib"`},
		{name: "negative level", data: `name: "zlib", version: "1.0", patches: [{patch: "p", level: -1}]`},
		{name: "empty patch specifier", data: `name: "zlib", version: "1.0", patches: [{patch: ""}]`},
		{name: "not cue", data: `{{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Parse([]byte(tt.data), "package.cue"); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.data)
			}
		})
	}
}

func TestParse_ErrorNamesFile(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`name: ""`), "packages/zlib/package.cue")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "packages/zlib/package.cue") {
		t.Errorf("error %q does not name the recipe file", err)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := []byte(`name: "zlib", version: "1.3.1", patches: [{patch: "cc.patch", level: 2}]`)
	if err := os.WriteFile(filepath.Join(dir, RecipeFileName), content, 0o644); err != nil {
		t.Fatalf("writing recipe: %v", err)
	}

	rec, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Patches[0].Level != 2 {
		t.Errorf("level = %d, want 2", rec.Patches[0].Level)
	}
}

func TestLoad_NotFound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := Load(dir)
	if !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("error = %v, want ErrRecipeNotFound", err)
	}

	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("error is not *NotFoundError: %v", err)
	}
	if nfErr.Dir != dir {
		t.Errorf("Dir = %q, want %q", nfErr.Dir, dir)
	}
}
