package commands

import (
	"fmt"
	"time"

	"pesuslides/cmd/pesu-cli/utils"
	"pesuslides/internal/db"
	"pesuslides/lib/sqliteutil"
	"pesuslides/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var historyDb *string

func init() {
	historyDb = historyCmd.Flags().String("db", "downloads.db", "The manifest database to list.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--db <path/to/downloads.db>]",
	Short: "Lists every slide file recorded in the download manifest.",
	Run: func(cmd *cobra.Command, args []string) {
		manifest, err := sqliteutil.OpenDB(db.Schema, *historyDb)
		if err != nil {
			serviceutil.Fatal("failed to open manifest db", err)
		}
		defer manifest.Close()

		items, err := db.New(manifest).ListDownloads(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list downloads", err)
		}
		if len(items) == 0 {
			fmt.Println("No downloads recorded.")
			return
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Saved At", "Class", "Path", "Size"})
		for _, item := range items {
			t.AppendRow(table.Row{
				time.Unix(item.SavedAt, 0).Format(time.DateTime),
				item.ClassTitle,
				item.Path,
				item.SizeBytes,
			})
		}
		t.Render()
	},
}
