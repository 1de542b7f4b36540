// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"srcpatch-cli/internal/cueutil"
)

// RecipeFileName is the recipe file looked up inside a package directory.
const RecipeFileName = "package.cue"

//go:embed recipe_schema.cue
var recipeSchema []byte

// ErrRecipeNotFound is the sentinel error wrapped by NotFoundError.
var ErrRecipeNotFound = errors.New("recipe not found")

type (
	// Recipe is the declarative metadata of one package.
	Recipe struct {
		Name     string      `json:"name"`
		Version  string      `json:"version"`
		Homepage string      `json:"homepage,omitempty"`
		URL      string      `json:"url,omitempty"`
		Patches  []PatchDecl `json:"patches,omitempty"`
	}

	// PatchDecl declares one patch: a specifier (file relative to the package
	// directory, or a URL) and the strip level for the patch tool.
	PatchDecl struct {
		Patch string `json:"patch"`
		Level int    `json:"level"`
	}

	// NotFoundError is returned when a package directory has no recipe file.
	// It wraps ErrRecipeNotFound.
	NotFoundError struct {
		Dir string
	}
)

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s in package directory %s", RecipeFileName, e.Dir)
}

// Unwrap returns ErrRecipeNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrRecipeNotFound }

// Load reads and validates the recipe in the given package directory.
func Load(dir string) (*Recipe, error) {
	path := filepath.Join(dir, RecipeFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Dir: dir}
		}
		return nil, fmt.Errorf("reading recipe %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse validates recipe bytes against the embedded schema and decodes them.
// filename is used in error messages only.
func Parse(data []byte, filename string) (*Recipe, error) {
	return cueutil.ParseAndDecode[Recipe](recipeSchema, data, "#Recipe", cueutil.WithFilename(filename))
}
