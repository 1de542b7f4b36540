// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"srcpatch-cli/internal/issue"
	"srcpatch-cli/internal/ledger"
	"srcpatch-cli/internal/patch"
	"srcpatch-cli/internal/recipe"
	"srcpatch-cli/internal/repo"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// applySourceRoot is the root of the unpacked, writable source tree.
	applySourceRoot string
	// applyPatchSpec applies a single ad-hoc specifier instead of the recipe's patches.
	applyPatchSpec string
	// applyLevel is the strip level for --patch.
	applyLevel int
	// applyLedgerPath overrides the ledger location.
	applyLedgerPath string
	// applyNoLedger disables ledger recording.
	applyNoLedger bool

	applyCmd = &cobra.Command{
		Use:   "apply <package>",
		Short: "Apply a package's patches to an unpacked source tree",
		Long: `Apply the patches a package declares to an already-unpacked source tree.

Patches are applied in recipe declaration order. Local patch files are read
from the package's definition directory; remote URLs are fetched into a
temporary staging directory that is removed after each patch. Successful
applications are recorded in a TOML ledger inside the source tree.`,
		Args: cobra.ExactArgs(1),
		RunE: runApply,
	}
)

func init() {
	applyCmd.Flags().StringVarP(&applySourceRoot, "source-root", "C", ".", "root of the unpacked source tree to patch")
	applyCmd.Flags().StringVar(&applyPatchSpec, "patch", "", "apply this specifier instead of the recipe's patches")
	applyCmd.Flags().IntVar(&applyLevel, "level", 1, "strip level for --patch")
	applyCmd.Flags().StringVar(&applyLedgerPath, "ledger", "", "ledger file (default <source-root>/"+ledger.DefaultFileName+")")
	applyCmd.Flags().BoolVar(&applyNoLedger, "no-ledger", false, "do not record applied patches")
}

func runApply(cmd *cobra.Command, args []string) error {
	pkgName := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	r, err := openRepo(cfg)
	if err != nil {
		return err
	}

	tool, err := locateTool(cfg.PatchTool)
	if err != nil {
		renderIssue(issue.PatchToolNotFoundId)
		return &ExitError{Code: 1, Err: err}
	}
	log.Debug("using patch tool", "path", tool.Path())

	decls, err := patchDecls(r, pkgName)
	if err != nil {
		return err
	}
	if len(decls) == 0 {
		log.Info("no patches declared", "package", pkgName)
		return nil
	}

	sourceRoot, err := filepath.Abs(applySourceRoot)
	if err != nil {
		return fmt.Errorf("resolving source root: %w", err)
	}

	fetcher := newFetcher(cfg)
	ctx := cmd.Context()

	var led *ledger.Ledger
	if !applyNoLedger {
		path := applyLedgerPath
		if path == "" {
			path = filepath.Join(sourceRoot, ledger.DefaultFileName)
		}
		led, err = ledger.Load(path)
		if err != nil {
			return err
		}
	}

	for _, decl := range decls {
		p, err := patch.New(r, pkgName, decl.Patch, decl.Level)
		if err != nil {
			return issue.NewErrorContext().
				WithOperation("resolve patch").
				WithResource(decl.Patch).
				WithSuggestion("Check the patch declaration in " + recipe.RecipeFileName).
				Wrap(err).
				BuildError()
		}

		log.Info("applying patch", "package", pkgName, "patch", p.Specifier(), "level", p.Level())
		if err := p.Apply(ctx, tool, fetcher, sourceRoot); err != nil {
			switch {
			case errors.Is(err, patch.ErrPatchApply):
				renderIssue(issue.PatchApplyFailedId)
			case errors.Is(err, patch.ErrPatchFetch):
				renderIssue(issue.PatchFetchFailedId)
			}
			return &ExitError{Code: 1, Err: err}
		}

		fp, err := p.Fingerprint(ctx, fetcher)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("applied")+" "+p.Specifier()+" "+SubtitleStyle.Render("("+fp+")"))

		if led != nil {
			led.Record(ledger.Entry{
				Package:     pkgName,
				Specifier:   p.Specifier(),
				Level:       p.Level(),
				Fingerprint: fp,
				AppliedAt:   time.Now().UTC(),
			})
		}
	}

	if led != nil {
		if err := led.Save(); err != nil {
			return err
		}
		log.Debug("recorded applied patches", "ledger", led.Path())
	}
	return nil
}

// locateTool resolves the external patch binary, preferring an explicit
// configured path over the PATH lookup.
func locateTool(configured string) (*patch.Tool, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return nil, fmt.Errorf("%w: configured path %s: %v", patch.ErrToolNotFound, configured, err)
		}
		return patch.NewTool(configured), nil
	}
	return patch.LookupTool()
}

// patchDecls returns the patches to apply: the single --patch override, or
// the recipe's declarations in order.
func patchDecls(r *repo.Repo, pkgName string) ([]recipe.PatchDecl, error) {
	if applyPatchSpec != "" {
		return []recipe.PatchDecl{{Patch: applyPatchSpec, Level: applyLevel}}, nil
	}

	dir, err := r.ResolveDirectory(pkgName)
	if err != nil {
		if errors.Is(err, repo.ErrPackageNotFound) {
			renderIssue(issue.PackageNotFoundId)
		}
		return nil, err
	}

	rec, err := recipe.Load(dir)
	if err != nil {
		if errors.Is(err, recipe.ErrRecipeNotFound) {
			renderIssue(issue.RecipeNotFoundId)
		} else {
			renderIssue(issue.RecipeParseErrorId)
		}
		return nil, err
	}
	return rec.Patches, nil
}

// renderIssue prints the guidance page for a known failure mode to stderr.
// Rendering problems are swallowed: the underlying error is still returned to
// the caller and is the authoritative diagnostic.
func renderIssue(id issue.Id) {
	is := issue.Lookup(id)
	if is == nil {
		return
	}
	if out, err := is.Render("auto"); err == nil {
		fmt.Fprint(os.Stderr, out)
	}
}
