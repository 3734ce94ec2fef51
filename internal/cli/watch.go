package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/platewatch/platewatch/internal/app"
	"github.com/platewatch/platewatch/internal/dispatch"
	"github.com/platewatch/platewatch/internal/model"
)

// watchCmd is an interactive search loop: every line typed is a query
// intent, debounced so only the line the user settles on hits the feeds.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Interactive debounced search",
	Long: `Watch reads query lines from stdin. Rapid retyping is coalesced;
only the query left standing after the quiet interval is executed. An
empty line clears the active query. EOF (Ctrl-D) exits.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	opts := a.SearchOptions()
	exec := dispatch.ExecutorFunc(func(ctx context.Context, query string) ([]model.HazardRecord, error) {
		return a.Engine.SearchByKeywords(ctx, []string{query}, opts), nil
	})

	d := dispatch.New(cfg.Dispatch.QuietInterval, exec, a.Log)
	defer d.Close()
	d.SetResultHook(func(query string, records []model.HazardRecord) {
		fmt.Printf("\n== %s (%d records) ==\n", query, len(records))
		printRecords(records)
		fmt.Print("> ")
	})

	fmt.Println("Type a query; empty line clears, Ctrl-D exits.")
	fmt.Print("> ")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		d.OnIntent(line)
		if line == "" {
			fmt.Println("(cleared)")
			fmt.Print("> ")
		}
	}
	fmt.Println()
	return scanner.Err()
}
