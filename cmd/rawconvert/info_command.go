package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"rawconvert/internal/services/exiftool"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show image metadata for a raw file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			client := exiftool.NewCLI(exiftool.WithBinary(cfg.Exiftool.Binary))
			meta, err := client.Metadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			keys := make([]string, 0, len(meta))
			for key := range meta {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			rows := make([][]string, 0, len(keys))
			for _, key := range keys {
				group, tag := splitTagKey(key)
				rows = append(rows, []string{group, tag, meta[key]})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Group", "Tag", "Value"},
				rows,
			))
			return nil
		},
	}
}

// splitTagKey separates exiftool's "Group:Tag" keys; keys without a group
// land under a blank group column.
func splitTagKey(key string) (string, string) {
	if group, tag, found := strings.Cut(key, ":"); found {
		return group, tag
	}
	return "", key
}
