// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"srcpatch-cli/internal/issue"
	"srcpatch-cli/internal/recipe"
	"srcpatch-cli/internal/repo"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [package]",
	Short: "List packages or show one package's recipe",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	r, err := openRepo(cfg)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return listPackages(cmd, r)
	}
	return showPackage(cmd, r, args[0])
}

func listPackages(cmd *cobra.Command, r *repo.Repo) error {
	names, err := r.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("Packages")+" "+SubtitleStyle.Render("("+r.Root()+")"))
	for _, name := range names {
		fmt.Fprintln(out, "  "+name)
	}
	return nil
}

func showPackage(cmd *cobra.Command, r *repo.Repo, pkgName string) error {
	dir, err := r.ResolveDirectory(pkgName)
	if err != nil {
		if errors.Is(err, repo.ErrPackageNotFound) {
			renderIssue(issue.PackageNotFoundId)
		}
		return err
	}

	rec, err := recipe.Load(dir)
	if err != nil {
		if errors.Is(err, recipe.ErrRecipeNotFound) {
			renderIssue(issue.RecipeNotFoundId)
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render(rec.Name)+" "+SubtitleStyle.Render(rec.Version))
	if rec.Homepage != "" {
		fmt.Fprintln(out, "  homepage: "+rec.Homepage)
	}
	if rec.URL != "" {
		fmt.Fprintln(out, "  source:   "+rec.URL)
	}

	if len(rec.Patches) == 0 {
		fmt.Fprintln(out, SubtitleStyle.Render("  no patches declared"))
		return nil
	}

	fmt.Fprintln(out, TitleStyle.Render("Patches"))
	for _, decl := range rec.Patches {
		kind := "local"
		if isRemote(decl.Patch) {
			kind = "remote"
		}
		fmt.Fprintf(out, "  %s %s\n", decl.Patch, SubtitleStyle.Render(fmt.Sprintf("(level %d, %s)", decl.Level, kind)))
	}
	return nil
}

// isRemote mirrors the core's classification rule for display purposes only.
func isRemote(specifier string) bool {
	return strings.Contains(specifier, "://")
}
