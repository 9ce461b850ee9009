// Package resolve implements the "repofs resolve" command.
package resolve

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schmitthub/repofs/internal/cmdutil"
	"github.com/schmitthub/repofs/internal/iostreams"
	"github.com/schmitthub/repofs/pkg/repofs"
)

// Options holds the resolved dependencies and arguments for resolve.
type Options struct {
	IO         *iostreams.IOStreams
	Repository func() (*repofs.Repository, error)

	Name string
}

// NewCmdResolve creates the "resolve" subcommand.
func NewCmdResolve(f *cmdutil.Factory) *cobra.Command {
	opts := &Options{
		IO:         f.IOStreams,
		Repository: f.Repository,
	}

	return &cobra.Command{
		Use:   "resolve <name>",
		Short: "Resolve a branch or tag name to a commit hash",
		Long: `Resolve a ref name to its commit hash. Local branches shadow
remote-tracking branches, which shadow tags; qualified names
(heads/..., remotes/..., tags/...) skip the search order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Name = args[0]
			repo, err := opts.Repository()
			if err != nil {
				return err
			}
			hash, err := repo.ResolveRef(cmd.Context(), opts.Name)
			if err != nil {
				return err
			}
			fmt.Fprintln(opts.IO.Out, hash)
			return nil
		},
	}
}
