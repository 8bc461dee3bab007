// Package cli is the command-line front end of the navigation engine.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"web-a11y/internal/config"
)

type options struct {
	verbose bool
	prefix  string

	cfg    config.Config
	logger *slog.Logger
}

// NewRootCommand builds the command tree. Every call returns fresh flag state.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "web-a11y",
		Short: "Add accessible navigation to HTML documents",
		Long: `web-a11y adds keyboard and screen-reader navigation to HTML documents:
a heading outline, skip links with access keys, a legend of the page's
shortcuts and links to long image descriptions.

Configuration is read from the environment (A11Y_* variables).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return opts.init(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&opts.prefix, "prefix", "", "prefix for generated ids (overrides A11Y_ID_PREFIX)")

	rootCmd.AddCommand(newProcessCommand(opts))
	rootCmd.AddCommand(newOutlineCommand(opts))
	return rootCmd
}

func (o *options) init(stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.prefix != "" {
		cfg.IDPrefix = o.prefix
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	o.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
