package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/platewatch/platewatch/internal/app"
	"github.com/platewatch/platewatch/internal/resolve"
	"github.com/platewatch/platewatch/internal/source"
)

var (
	lookupJSON    bool
	lookupTimeout time.Duration
)

// lookupCmd resolves one barcode.
var lookupCmd = &cobra.Command{
	Use:   "lookup <barcode>",
	Short: "Resolve a product barcode into a risk view",
	Long: `Lookup validates the barcode, fetches the product description and
cross-references its name against the hazard feeds.

Example:
  platewatch lookup 0737628064502
  platewatch lookup 40111445 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "emit JSON instead of text")
	lookupCmd.Flags().DurationVar(&lookupTimeout, "timeout", time.Minute, "overall lookup timeout")
}

func runLookup(cmd *cobra.Command, args []string) error {
	barcode := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	view, err := a.Resolver.Resolve(ctx, barcode)
	switch {
	case errors.Is(err, resolve.ErrInvalidIdentifier):
		return fmt.Errorf("%q is not a valid barcode (8, 12, 13 or 14 digits)", barcode)
	case errors.Is(err, source.ErrNotFound):
		return fmt.Errorf("no product found for barcode %s", barcode)
	case err != nil:
		return err
	}

	if lookupJSON {
		return json.NewEncoder(os.Stdout).Encode(view)
	}

	fmt.Printf("Product: %s\n", view.Subject)
	if view.Product != nil && view.Product.Brands != "" {
		fmt.Printf("Brands:  %s\n", view.Product.Brands)
	}
	for _, sig := range view.Signals {
		fmt.Printf("Signal:  %s %s -> %s (%s)\n", sig.Name, sig.Value, sig.Category, sig.Label)
	}
	if view.HasActiveHazard {
		fmt.Printf("\nActive hazards (worst: %s):\n", view.WorstSeverity)
		printRecords(view.Hazards)
	} else {
		fmt.Println("\nNo active hazards found.")
	}
	return nil
}
