package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/posadmin/reports-gateway/internal/backend"
	"github.com/posadmin/reports-gateway/internal/export"
	"github.com/posadmin/reports-gateway/internal/service"
	"github.com/posadmin/reports-gateway/pkg/daterange"
)

// Offline CSV export tool. Pulls a report from the POS backend with the
// same aggregation the gateway serves and writes the spreadsheet-safe
// form to a file, named the way the dashboard download button names it.

var (
	flagBackend string
	flagToken   string
	flagPeriod  string
	flagStart   string
	flagEnd     string
	flagOut     string
	flagTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "reportcsv",
	Short: "Export POS reports to CSV",
	Long:  "Fetch a report from the POS backend and write it as CSV, using the same formatting as the dashboard export.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "http://127.0.0.1:8080/api/v1", "POS backend base URL")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", os.Getenv("POS_TOKEN"), "Bearer token (defaults to POS_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&flagPeriod, "period", "", "Period filter: daily, weekly, monthly, yearly")
	rootCmd.PersistentFlags().StringVar(&flagStart, "start", "", "Range start (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&flagEnd, "end", "", "Range end (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVarP(&flagOut, "out", "o", "", "Output file (default: report filename in cwd)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "Backend request timeout")

	rootCmd.AddCommand(salesCmd, profitabilityCmd, inventoryCmd, transactionsCmd)
}

var salesCmd = &cobra.Command{
	Use:   "sales",
	Short: "Sales report CSV",
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, rng, opts := setup()
		view := svc.SalesReport(context.Background(), flagToken, rng, opts)
		if view.Degraded {
			return fmt.Errorf("backend unavailable")
		}
		return writeOut(view.Filename, func(w *bufio.Writer) error {
			return export.WriteSales(w, view)
		})
	},
}

var profitabilityCmd = &cobra.Command{
	Use:   "profitability",
	Short: "Profitability report CSV",
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, rng, _ := setup()
		view := svc.ProfitabilityReport(context.Background(), flagToken, rng)
		if view.Degraded {
			return fmt.Errorf("backend unavailable")
		}
		return writeOut(view.Filename, func(w *bufio.Writer) error {
			return export.WriteProfitability(w, view)
		})
	},
}

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Inventory summary CSV",
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, _, _ := setup()
		view := svc.InventoryReport(context.Background(), flagToken)
		if view.Degraded {
			return fmt.Errorf("backend unavailable")
		}
		return writeOut(view.Filename, func(w *bufio.Writer) error {
			return export.WriteInventory(w, view)
		})
	},
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "Transaction history CSV",
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, rng, _ := setup()
		view := svc.Transactions(context.Background(), flagToken, rng, backend.TransactionQuery{})
		if view.Degraded {
			return fmt.Errorf("backend unavailable")
		}
		return writeOut(view.Filename, func(w *bufio.Writer) error {
			return export.WriteTransactions(w, view)
		})
	},
}

func setup() (service.ReportService, daterange.Range, service.SalesOptions) {
	log := zap.NewNop().Sugar()
	client := backend.NewClient(flagBackend, flagTimeout, log)
	svc := service.NewReportService(client, log)

	rng := daterange.Trailing(time.Now(), 30)
	opts := service.SalesOptions{}
	if flagPeriod != "" {
		period := daterange.ParsePeriod(flagPeriod)
		rng = daterange.Resolve(period, time.Now())
		opts = service.SalesOptions{Resolved: true, Period: period}
	} else if start, ok := daterange.ParseISO(flagStart); ok {
		if end, ok := daterange.ParseISO(flagEnd); ok && !end.Before(start) {
			rng = daterange.Range{Start: start, End: end}
		}
	}
	return svc, rng, opts
}

func writeOut(filename string, write func(w *bufio.Writer) error) error {
	path := flagOut
	if path == "" {
		path = filename + ".csv"
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("Wrote", path)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
