package cmd

import (
	"context"

	"github.com/bnema/smsman-cli/internal/adapters/render/report"
	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newBalanceCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the active account's balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var balance domain.Balance
			err := fetchWithSpinner(cmd, "Fetching balance...", asJSON, func(ctx context.Context) error {
				var err error
				balance, err = app.explorer.Balance(ctx)
				return err
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, balance)
			}

			account, _ := app.registry.Active()
			return writeReport(cmd, app, report.BalanceReport{Account: account, Balance: balance})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newCountriesCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List countries numbers can be rented in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var countries []domain.Country
			err := fetchWithSpinner(cmd, "Fetching countries...", asJSON, func(ctx context.Context) error {
				var err error
				countries, err = app.explorer.Countries(ctx)
				return err
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, countries)
			}
			return writeReport(cmd, app, report.CountriesReport{Countries: countries})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newServicesCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "services",
		Aliases: []string{"applications"},
		Short:   "List services numbers can be rented for",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var apps []domain.Application
			err := fetchWithSpinner(cmd, "Fetching services...", asJSON, func(ctx context.Context) error {
				var err error
				apps, err = app.explorer.Applications(ctx)
				return err
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, apps)
			}
			return writeReport(cmd, app, report.ApplicationsReport{Applications: apps})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newPricesCmd(app *app) *cobra.Command {
	var countryID int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Show prices per country and service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var table domain.PriceTable
			err := fetchWithSpinner(cmd, "Fetching prices...", asJSON, func(ctx context.Context) error {
				loadCatalog(ctx, app)

				var err error
				table, err = app.explorer.Prices(ctx, domain.CountryID(countryID))
				return err
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, table)
			}
			return writeReport(cmd, app, report.PricesReport{Table: table})
		},
	}

	cmd.Flags().IntVar(&countryID, "country", 0, "Country ID (default: all countries)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newLimitsCmd(app *app) *cobra.Command {
	var countryID int
	var applicationID int
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "limits",
		Aliases: []string{"availability"},
		Short:   "Show how many numbers are available",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rows []domain.LimitRow
			err := fetchWithSpinner(cmd, "Fetching availability...", asJSON, func(ctx context.Context) error {
				loadCatalog(ctx, app)

				var err error
				rows, err = app.explorer.Limits(ctx, domain.CountryID(countryID), domain.ApplicationID(applicationID))
				return err
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, rows)
			}
			return writeReport(cmd, app, report.LimitsReport{Rows: rows})
		},
	}

	cmd.Flags().IntVar(&countryID, "country", 0, "Country ID (default: all countries)")
	cmd.Flags().IntVar(&applicationID, "service", 0, "Service ID (default: all services)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

// loadCatalog fills the name cache. Without it rows show numeric ids.
func loadCatalog(ctx context.Context, app *app) {
	if _, err := app.explorer.LoadCatalog(ctx); err != nil {
		app.logger.Warn("catalog unavailable, showing numeric ids", zap.Error(err))
	}
}
