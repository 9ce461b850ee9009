// Package cat implements the "repofs cat" command.
package cat

import (
	"github.com/spf13/cobra"

	"github.com/schmitthub/repofs/internal/cmdutil"
	"github.com/schmitthub/repofs/internal/iostreams"
	"github.com/schmitthub/repofs/pkg/repofs"
)

// Options holds the resolved dependencies and arguments for cat.
type Options struct {
	IO         *iostreams.IOStreams
	Repository func() (*repofs.Repository, error)

	Rev      string
	Path     string
	Encoding string
}

// NewCmdCat creates the "cat" subcommand.
func NewCmdCat(f *cmdutil.Factory) *cobra.Command {
	opts := &Options{
		IO:         f.IOStreams,
		Repository: f.Repository,
	}

	cmd := &cobra.Command{
		Use:   "cat <rev> <path>",
		Short: "Print file content at a version",
		Long: `Print the content of a file at the given revision: "live" for the
working tree, a commit hash, a branch or tag name, or HEAD.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Rev = args[0]
			opts.Path = args[1]
			return runCat(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Encoding, "encoding", "", "Decode content from this IANA charset into UTF-8")

	return cmd
}

func runCat(cmd *cobra.Command, opts *Options) error {
	repo, err := opts.Repository()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	v, err := repo.ResolveVersion(ctx, opts.Rev)
	if err != nil {
		return err
	}

	var readOpts []repofs.ReadOption
	if opts.Encoding != "" {
		readOpts = append(readOpts, repofs.WithEncoding(opts.Encoding))
	}
	b, err := repo.FileContent(ctx, v, opts.Path, readOpts...)
	if err != nil {
		return err
	}
	_, err = opts.IO.Out.Write(b)
	return err
}
