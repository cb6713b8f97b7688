package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/bnema/smsman-cli/internal/adapters/render/report"
	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/spf13/cobra"
)

var historyCSVHeader = []string{
	"request_id", "number", "country_id", "country_name", "application_id", "service_name",
	"sms_code", "status", "account_id", "created_at", "resolved_at",
}

func newHistoryCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and clear the history of finished rentals",
	}

	cmd.AddCommand(
		newHistoryListCmd(app),
		newHistoryClearCmd(app),
		newHistoryExportCmd(app),
	)

	return cmd
}

type historyScopeFlags struct {
	all     bool
	account string
}

func (f *historyScopeFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.all, "all", false, "Apply to every account")
	cmd.Flags().StringVar(&f.account, "account", "", "Account ID, ID prefix or label (default: active account)")
	cmd.MarkFlagsMutuallyExclusive("all", "account")
}

func newHistoryListCmd(app *app) *cobra.Command {
	var scope historyScopeFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List finished rentals, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, err := scopeAccount(app, scope.all, scope.account)
			if err != nil {
				return fmt.Errorf("list history: %w", err)
			}
			records := app.ledger.List(account.ID)

			if asJSON {
				views := make([]rentalView, 0, len(records))
				for _, record := range records {
					views = append(views, newHistoryView(record))
				}
				return writeJSON(cmd, views)
			}

			return writeReport(cmd, app, report.HistoryReport{Records: records, Scope: account.Label})
		},
	}

	scope.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newHistoryClearCmd(app *app) *cobra.Command {
	var scope historyScopeFlags

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete history records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, err := scopeAccount(app, scope.all, scope.account)
			if err != nil {
				return fmt.Errorf("clear history: %w", err)
			}

			removed, err := app.ledger.Clear(cmd.Context(), account.ID)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d history records\n", removed)
			return err
		},
	}

	scope.register(cmd)

	return cmd
}

func newHistoryExportCmd(app *app) *cobra.Command {
	var scope historyScopeFlags
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export history as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, err := scopeAccount(app, scope.all, scope.account)
			if err != nil {
				return fmt.Errorf("export history: %w", err)
			}
			records := app.ledger.List(account.ID)

			if output == "" || output == "-" {
				return writeHistoryCSV(cmd.OutOrStdout(), records)
			}

			f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
			if err != nil {
				return fmt.Errorf("export history: %w", err)
			}
			if err := writeHistoryCSV(f, records); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("export history: %w", err)
			}

			_, err = fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d records to %s\n", len(records), output)
			return err
		},
	}

	scope.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func writeHistoryCSV(w io.Writer, records []domain.HistoryRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historyCSVHeader); err != nil {
		return fmt.Errorf("export history: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.FormatInt(int64(record.RequestID), 10),
			domain.E164(record.Number),
			strconv.Itoa(int(record.CountryID)),
			record.CountryName,
			strconv.Itoa(int(record.ApplicationID)),
			record.ServiceName,
			record.SMSCode,
			string(record.Status),
			string(record.AccountID),
			formatCSVTime(record.CreatedAt),
			formatCSVTime(record.ResolvedAt),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export history: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	return nil
}

func formatCSVTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
