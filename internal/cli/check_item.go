package cli

import (
	"github.com/spf13/cobra"

	"github.com/timmy/arbitrage/internal/domain"
)

var itemReq domain.ItemCheckRequest

func newCheckItemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-item",
		Short: "Analyze a single item",
		Long: `Analyze one item without a manifest.

Examples:
  analyzer check-item --title "KitchenAid Stand Mixer" --msrp 449.99
  analyzer check-item --title "Area rug 5x8" --msrp 120 --quantity 4 --item-number 8812`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			res, err := a.ctl.CheckItem(a.context(cmd), itemReq)
			if err != nil {
				return err
			}
			return newRenderer(a.out).ItemCheck(res)
		}),
	}

	cmd.Flags().StringVarP(&itemReq.Title, "title", "t", "", "item title (required)")
	cmd.Flags().Float64VarP(&itemReq.MSRP, "msrp", "m", 0, "manufacturer's suggested retail price (required, > 0)")
	cmd.Flags().IntVarP(&itemReq.Quantity, "quantity", "q", 1, "quantity")
	cmd.Flags().StringVar(&itemReq.ItemNumber, "item-number", "", "item or SKU number")
	cmd.Flags().StringVar(&itemReq.Notes, "notes", "", "free-form notes")

	return cmd
}
