package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
)

// NewMetaCmd prints the supported vocabulary. It needs no database.
func NewMetaCmd(output io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "meta",
		Short: "List supported metrics, ranges and styles",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(output, "Metrics:")
			for _, m := range domain.SupportedMetrics() {
				fmt.Fprintf(output, "  %s\n", m)
			}
			fmt.Fprintln(output, "Ranges:")
			for _, r := range domain.SupportedRanges() {
				fmt.Fprintf(output, "  %s\n", r)
			}
			fmt.Fprintln(output, "Styles:")
			for _, s := range domain.SupportedStyles() {
				fmt.Fprintf(output, "  %s\n", s)
			}
			return nil
		},
	}
}
