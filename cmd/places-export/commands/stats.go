package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-places-export/config"
	"github.com/goliatone/go-places-export/sources/sqliteplaces"
)

var statsDB string

func init() {
	statsCmd.Flags().StringVar(&statsDB, "db", "", "path to the SQLite store (default $PLACES_DB)")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints per-city record counts and average ratings for the store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		dbPath := statsDB
		if dbPath == "" {
			dbPath = cfg.Store.Path
		}

		db, err := sqliteplaces.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := sqliteplaces.NewSource(db).Stats(cmd.Context())
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"City", "Records", "Avg Rating"})

		var total int64
		for _, s := range stats {
			rating := ""
			if s.AvgRating != nil {
				rating = fmt.Sprintf("%.2f", *s.AvgRating)
			}
			t.AppendRow(table.Row{s.City, s.Rows, rating})
			total += s.Rows
		}
		t.AppendFooter(table.Row{"Total", total, ""})

		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}
