package commands

import (
	"fmt"
	"grantsync-backend/lib/grantstore"
	"grantsync-backend/lib/scrapers/oursg"
	"grantsync-backend/lib/sqliteutil"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var importInput string

func init() {
	importCmd.Flags().StringVarP(&importInput, "input", "i", "", "The scrape output to import. (default from config, grants.json)")
	rootCmd.AddCommand(importCmd)
}

func openStore(cfg Config) (grantstore.Store, error) {
	database := cfg.Database
	if dbPath != "" {
		database = sqliteutil.Config{
			Path:      dbPath,
			AuthToken: cfg.Database.AuthToken,
		}
	}
	store, err := grantstore.Open(database, cfg.BaseUrl)
	if err != nil {
		return grantstore.Store{}, fmt.Errorf("open grant database: %w", err)
	}
	return store, nil
}

var importCmd = &cobra.Command{
	Use:   "import [--input <path/to/grants.json>] [--db <path/to/grants.db>]",
	Short: "Imports the output of a scrape into the grant database.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := readConfig()
		if err != nil {
			return err
		}
		input := cfg.Output
		if importInput != "" {
			input = importInput
		}

		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		grants, err := oursg.DecodeGrants(f)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := store.Import(ctx, grants, clock.Now())
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{"New", "Updated", "Skipped"})
		t.AppendRow(table.Row{summary.Imported, summary.Updated, summary.Skipped})
		t.Render()
		return nil
	},
}
