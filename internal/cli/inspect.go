package cli

import (
	"errors"
	"fmt"
	"io"

	"locpatch/internal/asset"
	"locpatch/internal/config"
	"locpatch/internal/inspect"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var errIssuesFound = errors.New("asset has issues")

func inspectCmd(cfg *config.Config) *cobra.Command {
	var (
		reference string
		format    string
		strict    bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <asset>",
		Short: "Report duplicates, missing keys and placeholder mismatches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args[0], reference, format, strict)
		},
	}

	cmd.Flags().StringVar(&reference, "reference", cfg.ReferenceSection, "Section the others are compared against")
	cmd.Flags().StringVar(&format, "format", "yaml", "Report format: yaml or json")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when the report is not clean")

	return cmd
}

// runInspect handles the `inspect` command.
func runInspect(out io.Writer, assetPath, reference, format string, strict bool) error {
	name := displayPath(assetPath)
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unknown report format %q (want yaml or json)", format)
	}

	raw, err := asset.Read(assetPath)
	if err != nil {
		return err
	}
	rep, err := inspect.Inspect(raw, reference)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if !rep.ReferenceFound {
		log.Warn().Str("asset", name).Str("reference", reference).Msg("Reference section not found, skipping comparisons")
	}

	var data []byte
	if format == "json" {
		data, err = rep.JSON()
		data = append(data, '\n')
	} else {
		data, err = rep.YAML()
	}
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		return err
	}

	if strict && !rep.Clean() {
		return fmt.Errorf("%s: %w", name, errIssuesFound)
	}
	return nil
}
