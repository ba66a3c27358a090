package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/timmy/arbitrage/internal/domain"
	"github.com/timmy/arbitrage/internal/logger"
	"github.com/timmy/arbitrage/internal/source"
)

var watchPattern string

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Analyze every manifest dropped into a directory",
		Long: `Watch a directory and submit each new manifest file written to it.

Progress and results are reported as notifications; press Ctrl+C to stop.
Only the most recently dropped manifest is followed. Earlier uploads keep
processing on the server and can be opened later with "analyzer show".

Examples:
  analyzer watch ./inbox
  analyzer watch --pattern "*.txt" /srv/manifests`,
		Args: cobra.MaximumNArgs(1),
		RunE: withApp(runWatch),
	}
	cmd.Flags().StringVarP(&watchPattern, "pattern", "p", "", "file name pattern (default from config, *.csv)")
	return cmd
}

func runWatch(cmd *cobra.Command, a *app, args []string) error {
	dir := a.cfg.Watch.Dir
	if len(args) == 1 {
		dir = args[0]
	}
	pattern := a.cfg.Watch.Pattern
	if watchPattern != "" {
		pattern = watchPattern
	}

	dd := source.NewDropDir(dir, pattern)
	return dd.Watch(a.context(cmd), func(ctx context.Context, src source.Source, m domain.Manifest) error {
		ctx = logger.WithField(ctx, "source", src.GetSourceID())
		_, err := a.ctl.Submit(ctx, m)
		return err
	})
}
