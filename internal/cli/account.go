package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/pricing"
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/topup"
	"github.com/spf13/cobra"
)

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List credit packages",
	RunE:  runPackages,
}

var balanceCmd = &cobra.Command{
	Use:   "balance <user-id>",
	Short: "Show a user's credit balance",
	Args:  cobra.ExactArgs(1),
	RunE:  runBalance,
}

var historyCmd = &cobra.Command{
	Use:   "history <user-id>",
	Short: "Show a user's top-up history",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Max rows")
	historyCmd.Flags().Int("offset", 0, "Rows to skip")
}

func runPackages(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	catalog, err := env.client.Packages(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}

	printPackages(cmd.OutOrStdout(), catalog)
	return nil
}

func runBalance(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	credits, err := env.client.Balance(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load balance: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d Credits\n", credits)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	history, err := env.client.History(cmd.Context(), args[0], limit, offset)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	printHistory(cmd.OutOrStdout(), history)
	return nil
}

func printPackages(out io.Writer, catalog *pricing.Catalog) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPACKAGE\tCREDITS\tPRICE")
	for _, p := range catalog.Packages() {
		fmt.Fprintf(w, "%d\t%s\t%d\t฿%s\n", p.ID, p.Label, p.Credits, p.Price.StringFixed(2))
	}
	_ = w.Flush()
}

func printHistory(out io.Writer, history topup.History) {
	if len(history.Transactions) == 0 {
		fmt.Fprintln(out, "No top-ups yet.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tORDER\tCREDITS\tAMOUNT\tSTATUS")
	for _, tx := range history.Transactions {
		fmt.Fprintf(w, "%s\t%s\t+%d\t฿%s\t%s\n", tx.CreatedAt, tx.OrderNo, tx.Credits, tx.Amount.StringFixed(2), tx.Status)
	}
	_ = w.Flush()
	fmt.Fprintf(out, "%d of %d\n", len(history.Transactions), history.Total)
}
