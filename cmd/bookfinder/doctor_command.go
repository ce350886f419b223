package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookfinder/internal/language"
	"bookfinder/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check catalog connectivity and library paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			results := preflight.RunAll(cmd.Context(), cfg)
			for _, result := range results {
				kind := statusError
				switch {
				case result.Passed:
					kind = statusOK
				case result.Skipped:
					kind = statusWarn
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			if cfg.GoogleBooks.Enabled {
				fmt.Fprintln(out, renderStatusLine("Language", statusInfo, language.DisplayName(cfg.GoogleBooks.Language), colorize))
			}

			if failed := preflight.Failed(results); failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			return nil
		},
	}
}
