package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/platewatch/platewatch/internal/app"
	"github.com/platewatch/platewatch/internal/model"
	"github.com/platewatch/platewatch/internal/search"
)

var (
	searchCategory string
	searchLimit    int
	searchDays     int
	searchJSON     bool
	searchTimeout  time.Duration
)

// searchCmd runs one fan-out search from the command line.
var searchCmd = &cobra.Command{
	Use:   "search [keyword]...",
	Short: "Search the hazard feeds by keyword or category",
	Long: `Search fans one lookup per keyword out against the hazard feeds,
deduplicates the merged results and ranks them most-recent-first.

Example:
  platewatch search salmon
  platewatch search tuna swordfish --days 30
  platewatch search --category seafood --json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "category preset ("+strings.Join(search.Categories(), ", ")+")")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "overall result cap (default from config)")
	searchCmd.Flags().IntVar(&searchDays, "days", 0, "recency window in days (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "emit JSON instead of text")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", time.Minute, "overall search timeout")
}

func runSearch(cmd *cobra.Command, args []string) error {
	keywords := args
	if searchCategory != "" {
		preset := search.KeywordsForCategory(searchCategory)
		if preset == nil {
			return fmt.Errorf("unknown category %q (known: %s)", searchCategory, strings.Join(search.Categories(), ", "))
		}
		keywords = append(keywords, preset...)
	}
	if len(keywords) == 0 {
		return fmt.Errorf("at least one keyword or --category is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	opts := a.SearchOptions()
	if searchLimit > 0 {
		opts.Limit = searchLimit
	}
	if searchDays > 0 {
		opts.RecencyWindowDays = searchDays
	}

	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	records := a.Engine.SearchByKeywords(ctx, keywords, opts)
	if searchJSON {
		return json.NewEncoder(os.Stdout).Encode(records)
	}
	printRecords(records)
	return nil
}

func printRecords(records []model.HazardRecord) {
	if len(records) == 0 {
		fmt.Println("No matching records.")
		return
	}
	for _, rec := range records {
		date := ""
		if !rec.IssuedAt.IsZero() {
			date = rec.IssuedAt.Format("2006-01-02")
		}
		fmt.Printf("%-10s %-12s %s  %s\n", rec.Severity, date, rec.Identifier, rec.Subject)
		if rec.HazardReason != "" {
			fmt.Printf("           %s\n", rec.HazardReason)
		}
	}
}
