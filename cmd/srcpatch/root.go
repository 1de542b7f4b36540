// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"srcpatch-cli/internal/config"
	"srcpatch-cli/internal/issue"
	"srcpatch-cli/internal/repo"
	"srcpatch-cli/internal/stage"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug-level logging
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// repoRoot overrides the configured package repository root
	repoRoot string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "srcpatch",
		Short: "Fetch and apply package patches to unpacked source trees",
		Long: TitleStyle.Render("srcpatch") + SubtitleStyle.Render(" - patch acquisition and application for package builds") + `

srcpatch resolves the patches a package recipe declares (local files next to
the recipe, or remote URLs), fetches them into scoped staging directories,
fingerprints their content, and applies them with the external 'patch' tool
at the declared directory-strip level.

Recipes are 'package.cue' files inside per-package directories of a
repository, written in CUE.

` + SubtitleStyle.Render("Examples:") + `
  srcpatch show                  List packages in the repository
  srcpatch show zlib             Show the zlib recipe and its patches
  srcpatch fingerprint zlib      Print fingerprints of zlib's patches
  srcpatch apply zlib -C ./src   Apply zlib's patches to ./src`,
	}
)

func init() {
	cobra.OnInitialize(initLogging)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/srcpatch/config.cue)")
	rootCmd.PersistentFlags().StringVar(&repoRoot, "repo", "", "package repository root (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(fingerprintCmd)
	rootCmd.AddCommand(showCmd)
}

// initLogging applies the --verbose flag to the default logger.
func initLogging() {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// loadConfig resolves the effective configuration, applying CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return nil, err
	}
	if repoRoot != "" {
		cfg.RepoRoot = repoRoot
	}
	return cfg, nil
}

// openRepo opens the package repository the configuration points at.
func openRepo(cfg *config.Config) (*repo.Repo, error) {
	r, err := repo.New(cfg.RepoRoot)
	if err != nil {
		return nil, fmt.Errorf("opening package repository: %w", err)
	}
	log.Debug("opened package repository", "root", r.Root())
	return r, nil
}

// newFetcher builds the staging fetcher used for remote patches.
func newFetcher(cfg *config.Config) *stage.Manager {
	return stage.NewManager(
		stage.WithRoot(cfg.StageDir),
		stage.WithUserAgent("srcpatch/"+Version),
	)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
