package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rawconvert/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check the external tools rawconvert depends on",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			missingRequired := false

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				version := ""
				if status.Available {
					switch status.Name {
					case "ImageMagick":
						version = deps.ProbeVersion(cmd.Context(), status.Command, "-version")
					case "ExifTool":
						version = deps.ProbeVersion(cmd.Context(), status.Command, "-ver")
					}
				} else if !status.Optional {
					missingRequired = true
				}
				rows = append(rows, []string{
					status.Name,
					status.Command,
					yesNo(status.Available),
					version,
					status.Detail,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Command", "Available", "Version", "Detail"},
				rows,
			))

			if missingRequired {
				return fmt.Errorf("required tools are missing")
			}
			return nil
		},
	}
}
