// Package version implements the "repofs version" command.
package version

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/schmitthub/repofs/internal/cmdutil"
)

// NewCmdVersion creates the "version" subcommand.
func NewCmdVersion(f *cmdutil.Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of repofs",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(f.IOStreams.Out, Format(f.Version))
		},
	}
}

// Format returns the version string for display.
func Format(version string) string {
	version = strings.TrimPrefix(version, "v")
	return fmt.Sprintf("repofs version %s\n", version)
}
