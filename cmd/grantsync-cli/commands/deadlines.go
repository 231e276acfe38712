package commands

import (
	"fmt"
	"grantsync-backend/lib/notify"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	deadlinesDays       int
	deadlinesEmail      string
	deadlinesMilestones []int
)

func init() {
	deadlinesCmd.Flags().IntVarP(&deadlinesDays, "days", "d", 7, "List grants closing within this many days.")
	deadlinesCmd.Flags().StringVar(&deadlinesEmail, "email", "", "Email the digest to this address using the smtp config.")
	deadlinesCmd.Flags().IntSliceVar(&deadlinesMilestones, "milestones", nil, "Only include grants with exactly this many days left, ex. 14,7,5,3.")
	rootCmd.AddCommand(deadlinesCmd)
}

var deadlinesCmd = &cobra.Command{
	Use:   "deadlines [--days <n>] [--milestones <n,...>] [--email <address>]",
	Short: "Lists the grants closing soon and optionally emails a digest of them.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		now := clock.Now()

		cfg, err := readConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		grants, err := store.ClosingWithin(ctx, now, deadlinesDays)
		if err != nil {
			return err
		}
		if len(deadlinesMilestones) > 0 {
			grants = notify.OnMilestones(grants, now, deadlinesMilestones)
		}

		if len(grants) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No grants closing within %d days.\n", deadlinesDays)
			return nil
		}

		t := newTable()
		t.AppendHeader(table.Row{"Grant", "Agency", "Deadline", "Left"})
		for _, g := range grants {
			t.AppendRow(table.Row{g.Title, g.Agency, formatDate(g.Deadline), notify.FormatDeadline(*g.Deadline, now)})
		}
		t.Render()

		if deadlinesEmail == "" {
			return nil
		}
		if cfg.Smtp.Server == "" {
			return fmt.Errorf("cannot send digest: smtp.server is not set in %s", configFile)
		}
		err = notify.SendDigest(ctx, cfg.Smtp, deadlinesEmail, grants, now)
		if err != nil {
			return fmt.Errorf("send digest: %w", err)
		}
		slog.InfoContext(ctx, "sent deadline digest", "to", deadlinesEmail, "grants", len(grants))
		return nil
	},
}
