// ABOUTME: Logs CLI command
// ABOUTME: Lists CSV reports and recent scan log entries
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/meishi/db"
	"github.com/harperreed/meishi/report"
)

// LogsCommand lists saved CSV reports and the recent scan log.
func LogsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("logs", flag.ExitOnError)
	batchID := fs.String("batch", "", "Filter scan log by batch ID")
	limit := fs.Int("limit", 20, "Max scan log entries")
	_ = fs.Parse(args)

	reports, err := report.ListReports("")
	if err != nil {
		return err
	}
	if len(reports) > 0 {
		fmt.Printf("CSV reports in %s:\n", report.DefaultDir())
		for _, name := range reports {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println()
	}

	entries, err := db.ListScans(database, *batchID, *limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No scan log entries yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tFILE\tACTION\tSTATUS\tRESOURCE\tREASON")
	_, _ = fmt.Fprintln(w, "----\t----\t------\t------\t--------\t------")
	for _, entry := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			entry.CreatedAt.Format("2006-01-02 15:04"),
			orDash(entry.FileName), orDash(entry.Action), entry.Status,
			orDash(entry.ResourceName), orDash(entry.Reason))
	}
	return w.Flush()
}
