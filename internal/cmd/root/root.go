// Package root assembles the repofs command tree and wires the real
// dependencies into the command factory.
package root

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/schmitthub/repofs/internal/cmd/cat"
	"github.com/schmitthub/repofs/internal/cmd/head"
	logcmd "github.com/schmitthub/repofs/internal/cmd/log"
	"github.com/schmitthub/repofs/internal/cmd/ls"
	"github.com/schmitthub/repofs/internal/cmd/resolve"
	"github.com/schmitthub/repofs/internal/cmd/stat"
	"github.com/schmitthub/repofs/internal/cmd/version"
	"github.com/schmitthub/repofs/internal/cmdutil"
	"github.com/schmitthub/repofs/internal/config"
	"github.com/schmitthub/repofs/internal/iostreams"
	"github.com/schmitthub/repofs/internal/logger"
	"github.com/schmitthub/repofs/pkg/repofs"
)

// NewFactory creates the Factory with lazily initialized, cached
// dependency providers.
func NewFactory(buildVersion string) *cmdutil.Factory {
	f := &cmdutil.Factory{
		RepoPath:  ".",
		Version:   buildVersion,
		IOStreams: iostreams.NewIOStreams(),
	}

	var (
		cfgOnce sync.Once
		cfg     *config.Config
		cfgErr  error
	)
	f.Config = func() (*config.Config, error) {
		cfgOnce.Do(func() {
			cfg, cfgErr = config.NewLoader(f.RepoPath).Load()
		})
		return cfg, cfgErr
	}

	var (
		repoOnce sync.Once
		repo     *repofs.Repository
		repoErr  error
	)
	f.Repository = func() (*repofs.Repository, error) {
		repoOnce.Do(func() {
			c, err := f.Config()
			if err != nil {
				repoErr = err
				return
			}
			repo, repoErr = repofs.Open(f.RepoPath,
				repofs.WithGitPath(c.Git.Path),
				repofs.WithExecTimeout(c.Git.ExecTimeout),
				repofs.WithTTLPolicy(c.TTLPolicy()),
				repofs.WithLogger(logger.Log),
			)
		})
		return repo, repoErr
	}

	return f
}

// NewCmdRoot creates the root command.
func NewCmdRoot(f *cmdutil.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "repofs <command>",
		Short:         "Read files, trees and history from a git repository",
		Long: `repofs reads repository content at any version: committed history
(addressed by commit hash, branch or tag) or the live working tree.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.Config()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			return logger.InitWithFile(f.Debug, c.Logging.Dir, c.FileConfig())
		},
	}

	cmd.PersistentFlags().StringVarP(&f.RepoPath, "repo", "C", ".", "Path inside the repository to operate on")
	cmd.PersistentFlags().BoolVar(&f.Debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(cat.NewCmdCat(f))
	cmd.AddCommand(ls.NewCmdLs(f))
	cmd.AddCommand(logcmd.NewCmdLog(f))
	cmd.AddCommand(head.NewCmdHead(f))
	cmd.AddCommand(resolve.NewCmdResolve(f))
	cmd.AddCommand(stat.NewCmdStat(f))
	cmd.AddCommand(version.NewCmdVersion(f))

	return cmd
}
