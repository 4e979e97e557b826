package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rawconvert/internal/codec"
)

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "formats",
		Short:       "List supported output formats",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(codec.ValidFormats))
			for _, format := range codec.ValidFormats {
				rows = append(rows, []string{format, strings.Join(codec.AliasesOf(format), ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Format", "Aliases"},
				rows,
			))
			return nil
		},
	}
}
