// Package head implements the "repofs head" command.
package head

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schmitthub/repofs/internal/cmdutil"
	"github.com/schmitthub/repofs/internal/iostreams"
	"github.com/schmitthub/repofs/pkg/repofs"
)

// Options holds the resolved dependencies for head.
type Options struct {
	IO         *iostreams.IOStreams
	Repository func() (*repofs.Repository, error)
}

// NewCmdHead creates the "head" subcommand.
func NewCmdHead(f *cmdutil.Factory) *cobra.Command {
	opts := &Options{
		IO:         f.IOStreams,
		Repository: f.Repository,
	}

	return &cobra.Command{
		Use:   "head",
		Short: "Print the commit hash HEAD points to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.Repository()
			if err != nil {
				return err
			}
			hash, err := repo.HeadHash(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(opts.IO.Out, hash)
			return nil
		},
	}
}
