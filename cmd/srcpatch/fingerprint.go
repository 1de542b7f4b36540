// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"srcpatch-cli/internal/patch"
	"srcpatch-cli/internal/recipe"

	"github.com/spf13/cobra"
)

var (
	// fingerprintLevel is the strip level used when fingerprinting an ad-hoc
	// specifier. The level does not affect the fingerprint itself; it is only
	// needed to construct a valid Patch.
	fingerprintLevel int

	fingerprintCmd = &cobra.Command{
		Use:   "fingerprint <package> [specifier]",
		Short: "Print content fingerprints of a package's patches",
		Long: `Print the content fingerprint of each patch a package declares, or of a
single ad-hoc specifier. The fingerprint is the lowercase base32-encoded MD5
digest of the patch bytes; identical patch content always yields the identical
fingerprint. Remote patches are fetched into temporary staging that is removed
before the command returns.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runFingerprint,
	}
)

func init() {
	fingerprintCmd.Flags().IntVar(&fingerprintLevel, "level", 1, "strip level for an ad-hoc specifier")
}

func runFingerprint(cmd *cobra.Command, args []string) error {
	pkgName := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	r, err := openRepo(cfg)
	if err != nil {
		return err
	}

	var decls []recipe.PatchDecl
	if len(args) == 2 {
		decls = []recipe.PatchDecl{{Patch: args[1], Level: fingerprintLevel}}
	} else {
		decls, err = patchDecls(r, pkgName)
		if err != nil {
			return err
		}
	}

	fetcher := newFetcher(cfg)
	ctx := cmd.Context()

	for _, decl := range decls {
		p, err := patch.New(r, pkgName, decl.Patch, decl.Level)
		if err != nil {
			return err
		}
		fp, err := p.Fingerprint(ctx, fetcher)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", fp, p.Specifier())
	}
	return nil
}
