package commands

import (
	"fmt"
	"io"
	"os"

	"invoice-generator/internal/export"
	"invoice-generator/internal/service"
	"invoice-generator/internal/util"

	"github.com/spf13/cobra"
)

var (
	// export flags
	exportFormat   string
	exportOut      string
	exportStatus   string
	exportCustomer string
	exportStart    string
	exportEnd      string
)

// exportCmd writes the filtered invoice list the same way the
// /invoices/export endpoints do.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export invoices to CSV or XLSX",
	Long: `Export invoices ordered by issue date.

Examples:
  invoicectl export --format csv > invoices.csv
  invoicectl export --format xlsx --out may.xlsx --start 2025-05-01 --end 2025-05-31
  invoicectl export --status paid`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := exportFilter()
		if err != nil {
			return err
		}
		if exportFormat != "csv" && exportFormat != "xlsx" {
			return fmt.Errorf("unknown format %q, want csv or xlsx", exportFormat)
		}

		_, db, err := openDB()
		if err != nil {
			return err
		}
		invoices, err := service.NewInvoiceService(db).Export(cmd.Context(), f)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportOut != "" {
			file, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer file.Close()
			w = file
		}

		if exportFormat == "xlsx" {
			err = export.WriteXLSX(w, invoices)
		} else {
			err = export.WriteCSV(w, invoices)
		}
		if err != nil {
			return err
		}
		if exportOut != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d invoices written to %s\n", len(invoices), exportOut)
		}
		return nil
	},
}

func exportFilter() (service.InvoiceFilter, error) {
	f := service.InvoiceFilter{Status: exportStatus, CustomerID: exportCustomer}
	if (exportStart == "") != (exportEnd == "") {
		return f, fmt.Errorf("--start and --end must be given together")
	}
	if exportStart == "" {
		return f, nil
	}
	start, err := util.ParseDate(exportStart)
	if err != nil {
		return f, fmt.Errorf("--start: %w", err)
	}
	end, err := util.ParseRangeEnd(exportEnd)
	if err != nil {
		return f, fmt.Errorf("--end: %w", err)
	}
	f.StartDate, f.EndDate = &start, &end
	return f, nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Output format: csv or xlsx")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "Only invoices with this status")
	exportCmd.Flags().StringVar(&exportCustomer, "customer", "", "Only invoices of this customer id")
	exportCmd.Flags().StringVar(&exportStart, "start", "", "Issue date from (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportEnd, "end", "", "Issue date to, inclusive (YYYY-MM-DD)")
	rootCmd.AddCommand(exportCmd)
}
