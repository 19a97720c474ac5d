package cli

import (
	"fmt"
	"io"

	"locpatch/internal/asset"
	"locpatch/internal/config"
	"locpatch/internal/diffview"
	"locpatch/internal/merge"
	"locpatch/internal/patchfile"
	"locpatch/internal/textutil"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type applyOptions struct {
	dryRun bool
	policy merge.Policy
	indent int
}

func applyCmd(cfg *config.Config) *cobra.Command {
	var (
		dryRun      bool
		skipMissing bool
		indent      int
	)

	cmd := &cobra.Command{
		Use:   "apply <asset> <patch-file>...",
		Short: "Upsert entries from YAML, JSON or INI patch files into an asset",
		Long: `Applies every patch file, in order, to the asset. Each language section of a
patch is one request: existing entries are updated in place, new ones are
inserted after their "after" anchor or appended. Duplicate keys in touched
sections are removed.

By default any unknown section or anchor aborts the run and the asset is left
untouched. --skip-missing skips the failing request instead and reports it.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := merge.ParsePolicy(cfg.Policy)
			if err != nil {
				return err
			}
			if skipMissing {
				policy = merge.SkipAndReport
			}
			return runApply(cmd.OutOrStdout(), args[0], args[1:], applyOptions{
				dryRun: dryRun,
				policy: policy,
				indent: indent,
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print a unified diff instead of writing the asset")
	cmd.Flags().BoolVar(&skipMissing, "skip-missing", false, "Skip requests with an unknown section or anchor instead of aborting")
	cmd.Flags().IntVar(&indent, "indent", cfg.IndentWidth, "Spaces per indent level for entries inserted into empty sections")

	return cmd
}

// runApply handles the `apply` command.
func runApply(out io.Writer, assetPath string, patchPaths []string, opts applyOptions) error {
	ctx, cancel := setupContext()
	defer cancel()

	name := displayPath(assetPath)

	reqs, err := patchfile.NewRegistry().LoadFiles(patchPaths...)
	if err != nil {
		return err
	}

	log.Info().
		Str("asset", name).
		Int("patch_files", len(patchPaths)).
		Int("requests", len(reqs)).
		Str("policy", opts.policy.String()).
		Msg("Applying patch")

	var res *merge.Result
	before, after, written, err := asset.Edit(ctx, assetPath, opts.dryRun, func(raw []byte) ([]byte, error) {
		r, err := merge.Apply(raw, reqs, merge.Options{Policy: opts.policy, IndentWidth: opts.indent})
		if err != nil {
			return nil, err
		}
		res = r
		return r.Output, nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	var inserted, updated, unchanged, removed int
	for _, s := range res.Sections {
		inserted += len(s.Inserted)
		updated += len(s.Updated)
		unchanged += len(s.Unchanged)
		removed += len(s.Removed)

		log.Debug().
			Str("asset", name).
			Str("section", s.Section).
			Strs("inserted", s.Inserted).
			Strs("updated", s.Updated).
			Int("unchanged", len(s.Unchanged)).
			Msg("Section patched")
		for _, r := range s.Removed {
			log.Info().
				Str("asset", name).
				Str("section", r.Section).
				Str("name", r.Name).
				Str("value", textutil.Truncate(r.Value, 40)).
				Int("offset", r.Offset).
				Msg("Removing duplicate key")
		}
	}
	for _, s := range res.Skipped {
		log.Warn().Err(s.Err).Str("asset", name).Int("request", s.Request).Str("section", s.Section).Msg("Request skipped")
	}

	if opts.dryRun {
		diff, err := diffview.Unified(name, before, after)
		if err != nil {
			return fmt.Errorf("render diff: %w", err)
		}
		fmt.Fprint(out, diff)
	}

	fmt.Fprintf(out, "%s: %d inserted, %d updated, %d unchanged, %d duplicates removed", name, inserted, updated, unchanged, removed)
	if len(res.Skipped) > 0 {
		fmt.Fprintf(out, ", %d requests skipped", len(res.Skipped))
	}
	fmt.Fprintln(out)

	log.Info().
		Str("asset", name).
		Bool("written", written).
		Bool("dry_run", opts.dryRun).
		Msg("Apply complete")
	return nil
}
