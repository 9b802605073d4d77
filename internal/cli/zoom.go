package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/go-spatial/tilestyle/pkg/zoom"
)

func NewZoomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zoom",
		Short: "Print the zoom level to resolution table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(dimStyle).
				Headers("ZOOM", "RESOLUTION (m/px)").
				StyleFunc(func(row, col int) lipgloss.Style {
					switch {
					case row == table.HeaderRow:
						return headerStyle
					case col == 0:
						return cellStyle.Align(lipgloss.Right)
					}

					return cellStyle
				})

			for z, res := range zoom.Table() {
				t.Row(strconv.Itoa(z), strconv.FormatFloat(res, 'f', -1, 64))
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), t.String())
			if err != nil {
				return fmt.Errorf("write table: %w", err)
			}

			return nil
		},
	}
}
