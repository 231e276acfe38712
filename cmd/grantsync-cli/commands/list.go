package commands

import (
	"fmt"
	"grantsync-backend/lib/grantparse"
	"grantsync-backend/lib/grantstore"
	"grantsync-backend/lib/timezone"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var (
	listSearch string
	listLimit  int
)

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Only list grants with a title similar to this.")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "The maximum amount of grants to list.")
	rootCmd.AddCommand(listCmd)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.In(timezone.Location).Format("02 Jan 2006")
}

func formatRange(r grantparse.AmountRange) string {
	switch {
	case r.Min != nil && r.Max != nil && *r.Min != *r.Max:
		return fmt.Sprintf("$%d - $%d", *r.Min, *r.Max)
	case r.Max != nil:
		return fmt.Sprintf("$%d", *r.Max)
	case r.Min != nil:
		return fmt.Sprintf("$%d", *r.Min)
	}
	return "-"
}

var listCmd = &cobra.Command{
	Use:   "list [--search <query>] [--limit <n>]",
	Short: "Lists the grants in the grant database, closing soonest first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := readConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		grants, err := store.List(ctx, grantstore.ListOptions{
			Search: listSearch,
			Limit:  listLimit,
		})
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{"Grant", "Agency", "Funding", "Deadline", "Link"})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, WidthMax: 48},
			{Number: 2, WidthMax: 32},
			{Number: 3, Align: text.AlignRight},
		})
		for _, g := range grants {
			t.AppendRow(table.Row{g.Title, g.Agency, formatRange(g.AmountRange), formatDate(g.Deadline), g.Url})
		}
		t.AppendFooter(table.Row{fmt.Sprintf("%d grants", len(grants))})
		t.Render()
		return nil
	},
}
