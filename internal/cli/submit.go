package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timmy/arbitrage/internal/controller"
	"github.com/timmy/arbitrage/internal/domain"
	"github.com/timmy/arbitrage/internal/source"
)

var (
	submitFile   string
	submitStdin  bool
	submitName   string
	submitDetach bool
)

func newSubmitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit [file]",
		Short: "Analyze a manifest",
		Long: `Submit a CSV manifest for analysis and follow it until the result is ready.

Examples:
  analyzer submit pallet.csv
  analyzer submit --file pallet.csv --name "Friday truckload"
  cat pallet.csv | analyzer submit --stdin
  analyzer submit pallet.csv --detach`,
		Args: cobra.MaximumNArgs(1),
		RunE: withApp(runSubmit),
	}

	cmd.Flags().StringVarP(&submitFile, "file", "f", "", "manifest CSV file")
	cmd.Flags().BoolVar(&submitStdin, "stdin", false, "read the manifest from stdin as pasted data")
	cmd.Flags().StringVarP(&submitName, "name", "n", "", "upload name shown in history (max 100 characters)")
	cmd.Flags().BoolVarP(&submitDetach, "detach", "d", false, "return once the manifest is accepted")

	return cmd
}

func runSubmit(cmd *cobra.Command, a *app, args []string) error {
	path := submitFile
	if path == "" && len(args) == 1 {
		path = args[0]
	}

	var src source.Source
	switch {
	case submitStdin && path != "":
		return errors.New("use either a file or --stdin, not both")
	case submitStdin:
		src = source.NewText(cmd.InOrStdin(), submitName)
	case path != "":
		src = source.NewFile(path, submitName)
	default:
		return errors.New("no manifest given: pass a file or --stdin")
	}

	ctx := a.context(cmd)
	m, err := src.Read(ctx)
	if err != nil {
		return err
	}
	job, err := a.ctl.Submit(ctx, m)
	if err != nil {
		return err
	}

	r := newRenderer(a.out)
	if job.Status.IsTerminal() || submitDetach {
		return r.Job(job)
	}
	return follow(ctx, a, r, job)
}

// follow renders progress for job until it reaches a terminal state.
func follow(ctx context.Context, a *app, r *renderer, job *domain.Job) error {
	snapshots, unsubscribe := a.ctl.Subscribe()
	defer unsubscribe()

	lastProcessed := -1
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintf(a.errOut, "Stopped following %s; it keeps processing on the server.\n", job.ID)
			return nil
		case snap, ok := <-snapshots:
			if !ok {
				return controller.ErrClosed
			}
			cur := snap.Job
			if cur == nil || cur.ID != job.ID {
				return fmt.Errorf("upload %s is no longer available", job.ID)
			}
			if cur.Status == domain.JobStatusProcessing && cur.ProcessedItems != lastProcessed {
				lastProcessed = cur.ProcessedItems
				r.Progress(cur)
			}
			if !cur.Status.IsTerminal() {
				continue
			}
			if err := r.Job(cur); err != nil {
				return err
			}
			if cur.Status == domain.JobStatusFailed {
				return fmt.Errorf("analysis failed: %s", cur.ErrorMessage)
			}
			return nil
		}
	}
}
