package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"locpatch/internal/asset"
	"locpatch/internal/config"
	"locpatch/internal/dedup"
	"locpatch/internal/dict"
	"locpatch/internal/diffview"
	"locpatch/internal/filewalker"
	"locpatch/internal/textutil"
	"locpatch/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type repairOptions struct {
	dryRun  bool
	indent  int
	workers int
	pattern string
}

type repairOutcome struct {
	removed []dict.Removal
	written bool
	diff    string
}

func repairCmd(cfg *config.Config) *cobra.Command {
	opts := repairOptions{}

	cmd := &cobra.Command{
		Use:   "repair <asset|directory>...",
		Short: "Remove duplicate keys from every section, keeping the first occurrence",
		Long: `Removes all but the first occurrence of each key in every language section and
prints how many entries were removed. A clean asset is left byte-identical.

Directories are searched for assets matching --pattern; distinct assets are
repaired concurrently. An asset that fails to parse is reported and left
untouched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print a unified diff instead of writing the assets")
	cmd.Flags().IntVar(&opts.indent, "indent", cfg.IndentWidth, "Spaces per indent level")
	cmd.Flags().IntVar(&opts.workers, "workers", cfg.WorkerCount, "Number of assets repaired concurrently")
	cmd.Flags().StringVar(&opts.pattern, "pattern", cfg.AssetPattern, "File name pattern used when walking directories")

	return cmd
}

// runRepair handles the `repair` command.
func runRepair(out io.Writer, args []string, opts repairOptions) error {
	ctx, cancel := setupContext()
	defer cancel()

	w, err := filewalker.NewWalker(opts.pattern)
	if err != nil {
		return err
	}
	paths, err := w.Expand(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no assets matching %q", opts.pattern)
	}

	log.Info().Int("assets", len(paths)).Int("workers", opts.workers).Msg("Starting repair")

	pool := worker.NewPool[string, repairOutcome](opts.workers, func(ctx context.Context, path string) (repairOutcome, error) {
		return repairAsset(ctx, path, opts)
	})
	tasks := pool.Execute(ctx, paths)

	var (
		errs    []error
		total   int
		touched int
	)
	for _, task := range tasks {
		name := displayPath(task.Input)
		if task.Err != nil {
			log.Error().Err(task.Err).Str("asset", name).Msg("Repair failed, asset left unmodified")
			errs = append(errs, fmt.Errorf("%s: %w", name, task.Err))
			continue
		}
		for _, r := range task.Result.removed {
			log.Info().
				Str("asset", name).
				Str("section", r.Section).
				Str("name", r.Name).
				Str("value", textutil.Truncate(r.Value, 40)).
				Int("offset", r.Offset).
				Msg("Removing duplicate key")
		}
		if task.Result.diff != "" {
			fmt.Fprint(out, task.Result.diff)
		}
		if task.Result.written {
			touched++
		}
		total += len(task.Result.removed)
		fmt.Fprintf(out, "Removed %d duplicate entries from %s\n", len(task.Result.removed), name)
	}
	if len(paths) > 1 {
		fmt.Fprintf(out, "Removed %d duplicate entries in total\n", total)
	}

	log.Info().
		Int("assets", len(paths)).
		Int("failed", len(errs)).
		Int("written", touched).
		Int("removed", total).
		Msg("Repair complete")

	return errors.Join(errs...)
}

func repairAsset(ctx context.Context, path string, opts repairOptions) (repairOutcome, error) {
	var res *dedup.Result
	before, after, written, err := asset.Edit(ctx, path, opts.dryRun, func(raw []byte) ([]byte, error) {
		r, err := dedup.Repair(raw, dedup.Options{IndentWidth: opts.indent})
		if err != nil {
			return nil, err
		}
		res = r
		return r.Output, nil
	})
	if err != nil {
		return repairOutcome{}, err
	}

	outcome := repairOutcome{removed: res.Removed, written: written}
	if opts.dryRun {
		outcome.diff, err = diffview.Unified(displayPath(path), before, after)
		if err != nil {
			return repairOutcome{}, fmt.Errorf("render diff: %w", err)
		}
	}
	return outcome, nil
}
