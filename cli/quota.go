// ABOUTME: Quota CLI commands
// ABOUTME: Shows balances and credits pack tiers to a quota account
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/meishi/db"
	"github.com/harperreed/meishi/models"
)

// QuotaShowCommand prints the balance and recent ledger for an account.
func QuotaShowCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	userKey := fs.String("user", "", "Quota account key (required)")
	limit := fs.Int("limit", 20, "Max ledger entries")
	_ = fs.Parse(args)

	if *userKey == "" {
		return fmt.Errorf("--user is required")
	}

	customer, err := db.EnsureCustomer(database, *userKey)
	if err != nil {
		return err
	}

	fmt.Printf("Account: %s\n", customer.Key)
	fmt.Printf("Quota:   %d card(s)\n", customer.Quota)
	if customer.FreeTrial {
		fmt.Println("Plan:    free trial")
	}

	history, err := db.CustomerHistory(database, *userKey, *limit)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return nil
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tACTION\tAMOUNT\tNOTE")
	_, _ = fmt.Fprintln(w, "----\t------\t------\t----")
	for _, entry := range history {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%+d\t%s\n",
			entry.CreatedAt.Format("2006-01-02 15:04"), entry.Action, entry.Amount, entry.Note)
	}
	return w.Flush()
}

// QuotaAddCommand credits an account, either by raw credits or a pack tier
// from CARD_PACK_TIERS.
func QuotaAddCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	userKey := fs.String("user", "", "Quota account key (required)")
	credits := fs.Int("credits", 0, "Credits to add directly")
	tier := fs.Int("tier", -1, "Pack tier index (0-based) from CARD_PACK_TIERS")
	_ = fs.Parse(args)

	if *userKey == "" {
		return fmt.Errorf("--user is required")
	}

	amount := *credits
	if amount <= 0 && *tier >= 0 {
		tiers := models.ParsePackTiers(os.Getenv("CARD_PACK_TIERS"))
		if *tier >= len(tiers) {
			return fmt.Errorf("tier %d out of range (have %d tiers)", *tier, len(tiers))
		}
		amount = tiers[*tier].Credits
	}
	if amount <= 0 {
		return fmt.Errorf("--credits or --tier is required")
	}

	customer, err := db.AddQuota(database, *userKey, amount, "")
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added %d card(s). New balance: %d\n", amount, customer.Quota)
	return nil
}
