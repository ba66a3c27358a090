package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var deleteYes bool

func newHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List previous analyses",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			entries, err := a.ctl.ShowHistory(a.context(cmd))
			if err != nil {
				return err
			}
			return newRenderer(a.out).History(entries)
		}),
	}
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <upload-id>",
		Short: "Show a completed analysis",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := a.context(cmd)
			// Load history first so non-completed uploads are refused locally.
			if _, err := a.ctl.Refresh(ctx); err != nil {
				a.log.WithError(err).Debug("History unavailable, asking for the upload directly")
			}
			job, err := a.ctl.Select(ctx, args[0])
			if err != nil {
				return err
			}
			return newRenderer(a.out).Job(job)
		}),
	}
}

func newDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <upload-id>",
		Short: "Delete an analysis and its results",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			id := args[0]
			if !deleteYes {
				ok, err := confirm(cmd, fmt.Sprintf("Delete upload %s and all of its results?", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
					return nil
				}
			}
			return a.ctl.Delete(a.context(cmd), id)
		}),
	}
	cmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N]: ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
