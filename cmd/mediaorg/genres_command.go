package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mediaorganizer/internal/media"
)

func newGenresCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "genres",
		Short:       "List the genres accepted by tag and organize",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			genres := media.Genres()
			rows := make([][]string, 0, len(genres))
			for i, g := range genres {
				rows = append(rows, []string{strconv.Itoa(i + 1), g.String()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", "Genre"}, rows, rightAligned{0}))
			return nil
		},
	}
}
