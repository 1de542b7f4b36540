// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a known failure mode with a dedicated issue page.
type Id int

const (
	PatchToolNotFoundId Id = iota + 1
	PackageNotFoundId
	RecipeNotFoundId
	RecipeParseErrorId
	PatchFetchFailedId
	PatchApplyFailedId
	ConfigLoadFailedId
)

type (
	// MarkdownMsg is Markdown text rendered to the terminal.
	MarkdownMsg string

	// HttpLink is a documentation or reference URL.
	HttpLink string

	// Issue is a known failure mode with rendered guidance.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

// Id returns the issue identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw Markdown guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns the documentation links for the issue.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the issue page, including doc links, with glamour.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- " + string(link) + "\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	patchToolNotFoundIssue = &Issue{
		id: PatchToolNotFoundId,
		mdMsg: `
# The external patch tool is missing

srcpatch applies patches by invoking the ` + "`patch`" + ` binary, and it could
not be found on your PATH.

## Things you can try
- Install it (Debian/Ubuntu: ` + "`apt install patch`" + `, Fedora: ` + "`dnf install patch`" + `,
  macOS: part of the developer tools)
- Point srcpatch at an explicit binary with ` + "`patch_tool`" + ` in config.cue
  or the ` + "`SRCPATCH_PATCH_TOOL`" + ` environment variable`,
		docLinks: []HttpLink{"https://www.gnu.org/software/patch/"},
	}

	packageNotFoundIssue = &Issue{
		id: PackageNotFoundId,
		mdMsg: `
# Package not found

The requested package has no definition directory in the repository.

## Things you can try
- Check the spelling of the package name
- Verify the repository root (` + "`repo_root`" + ` in config.cue, or ` + "`--repo`" + `)
- List known packages with ` + "`srcpatch show`" + ``,
		docLinks: []HttpLink{"https://www.gnu.org/software/patch/manual/"},
	}

	recipeNotFoundIssue = &Issue{
		id: RecipeNotFoundId,
		mdMsg: `
# No recipe found

The package directory exists but contains no ` + "`package.cue`" + ` recipe.

## Things you can try
- Create a ` + "`package.cue`" + ` declaring at least ` + "`name`" + ` and ` + "`version`" + `
- Check that the file is named exactly ` + "`package.cue`" + ``,
		docLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration failed to load

srcpatch could not read or validate its configuration.

## Things you can try
- Check the syntax of ` + "`config.cue`" + ` (it must be valid CUE)
- Known keys: ` + "`repo_root`" + `, ` + "`stage_dir`" + `, ` + "`patch_tool`" + `, ` + "`ui.verbose`" + `
- Run without a config file: defaults plus ` + "`SRCPATCH_*`" + ` environment
  variables are enough for most setups`,
		docLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	recipeParseErrorIssue = &Issue{
		id: RecipeParseErrorId,
		mdMsg: `
# Recipe failed to validate

The ` + "`package.cue`" + ` recipe exists but does not satisfy the recipe schema.
The error above names the file and the offending field.

## Things you can try
- Declare ` + "`name`" + ` and ` + "`version`" + ` as non-empty strings
- Declare patches as ` + "`{patch: \"<file or URL>\", level: <n>}`" + ` with a
  non-negative level`,
		docLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	patchFetchFailedIssue = &Issue{
		id: PatchFetchFailedId,
		mdMsg: `
# Patch could not be fetched

Downloading a remote patch failed. No retries are attempted; the build driver
decides whether to run again.

## Things you can try
- Check that the URL is reachable from this machine
- Mirror the patch locally and declare the file path instead of the URL
- For ` + "`.gz`" + ` patches, confirm the server serves the compressed bytes as-is`,
		docLinks: []HttpLink{"https://www.gnu.org/software/patch/manual/"},
	}

	patchApplyFailedIssue = &Issue{
		id: PatchApplyFailedId,
		mdMsg: `
# Patch failed to apply

The external patch tool rejected the patch. The tool's output above usually
names the file and hunk that failed.

## Things you can try
- Check the declared strip level against the paths inside the patch file
- Confirm the source tree is unpacked at the directory you passed
- Regenerate the patch against the current upstream version`,
		docLinks: []HttpLink{"https://www.gnu.org/software/patch/manual/"},
	}
)

// Lookup returns the issue page for id, or nil if none is registered.
func Lookup(id Id) *Issue {
	switch id {
	case PatchToolNotFoundId:
		return patchToolNotFoundIssue
	case PackageNotFoundId:
		return packageNotFoundIssue
	case RecipeNotFoundId:
		return recipeNotFoundIssue
	case RecipeParseErrorId:
		return recipeParseErrorIssue
	case ConfigLoadFailedId:
		return configLoadFailedIssue
	case PatchFetchFailedId:
		return patchFetchFailedIssue
	case PatchApplyFailedId:
		return patchApplyFailedIssue
	default:
		return nil
	}
}
