package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/smsman-cli/internal/adapters/render/report"
	"github.com/bnema/smsman-cli/internal/adapters/render/watch"
	"github.com/bnema/smsman-cli/internal/application"
	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultWaitTimeout = 20 * time.Minute

var errRentalGone = errors.New("rental is no longer tracked")

func newNumberCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "number",
		Aliases: []string{"numbers"},
		Short:   "Rent numbers and manage their activation status",
	}

	cmd.AddCommand(
		newNumberGetCmd(app),
		newNumberStatusCmd(app),
	)

	return cmd
}

type numberGetOptions struct {
	countryID   int
	serviceID   int
	maxPrice    string
	currency    string
	multipleSMS bool
	timeout     time.Duration
	noTUI       bool
	exitOnCode  bool
	asJSON      bool
}

func newNumberGetCmd(app *app) *cobra.Command {
	opts := numberGetOptions{}

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Rent a number and wait for its SMS code",
		Long:  "Rents a number with the active account and polls for the activation code until it arrives, the rental is closed or rejected, or --timeout passes. The rental is tracked only while this command runs.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNumberGet(cmd, app, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.countryID, "country", 0, "Country ID")
	flags.IntVar(&opts.serviceID, "service", 0, "Service ID")
	flags.StringVar(&opts.maxPrice, "max-price", "", "Maximum price per number")
	flags.StringVar(&opts.currency, "currency", string(domain.CurrencyUSD), "Price currency: USD, EUR or RUB")
	flags.BoolVar(&opts.multipleSMS, "multiple-sms", false, "Keep the number for more than one SMS")
	flags.DurationVar(&opts.timeout, "timeout", defaultWaitTimeout, "How long to wait for a code")
	flags.BoolVar(&opts.noTUI, "no-tui", false, "Wait without the interactive view")
	flags.BoolVar(&opts.exitOnCode, "exit-on-code", false, "Leave the interactive view once a code arrives")
	flags.BoolVar(&opts.asJSON, "json", false, "Render JSON output (implies --no-tui)")
	_ = cmd.MarkFlagRequired("country")
	_ = cmd.MarkFlagRequired("service")

	return cmd
}

func (o numberGetOptions) acquireCommand() (application.AcquireCommand, error) {
	acquire := application.AcquireCommand{
		CountryID:     domain.CountryID(o.countryID),
		ApplicationID: domain.ApplicationID(o.serviceID),
		Currency:      domain.Currency(strings.ToUpper(strings.TrimSpace(o.currency))),
		MultipleSMS:   o.multipleSMS,
	}

	if raw := strings.TrimSpace(o.maxPrice); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return application.AcquireCommand{}, fmt.Errorf("parse --max-price %q: %w", raw, err)
		}
		if !price.IsPositive() {
			return application.AcquireCommand{}, fmt.Errorf("--max-price must be positive, got %s", raw)
		}
		acquire.MaxPrice = decimal.NewNullDecimal(price)
	}

	return acquire, nil
}

func runNumberGet(cmd *cobra.Command, app *app, opts numberGetOptions) error {
	acquire, err := opts.acquireCommand()
	if err != nil {
		return err
	}

	var rental domain.Rental
	err = fetchWithSpinner(cmd, "Renting number...", opts.asJSON, func(ctx context.Context) error {
		loadCatalog(ctx, app)

		var err error
		rental, err = app.engine.Acquire(ctx, acquire)
		return err
	})
	if err != nil {
		return err
	}

	app.scheduler.Start()

	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	var final domain.Rental
	if opts.noTUI || opts.asJSON || !isTerminal(cmd.OutOrStdout()) {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Rented %s for %s, waiting for SMS...\n", domain.FormatNumber(rental.Number), rental.ServiceName)
		final, err = waitForCode(ctx, app, rental.RequestID)
	} else {
		final, err = watch.Run(ctx, app.engine, app.scheduler, rental.RequestID, cmd.InOrStdin(), cmd.OutOrStdout(), watch.Options{
			QuitOnCode: opts.exitOnCode,
			Now:        app.clock.Now,
		})
	}
	if final.RequestID == 0 {
		final = rental
	}

	if outErr := writeRental(cmd, app, final, opts.asJSON); outErr != nil {
		return outErr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("wait for sms: no code after %s; request %d is still open, settle it with `smsman number status %d close`", opts.timeout, final.RequestID, final.RequestID)
	case err != nil:
		return fmt.Errorf("wait for sms: %w", err)
	case final.Status == domain.RentalStatusError:
		return fmt.Errorf("wait for sms: request %d stopped polling with status error", final.RequestID)
	}

	if final.Status.IsPollable() {
		app.logger.Info("session left with rental open", zap.Int64("request_id", int64(final.RequestID)))
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Request %d is still open. Settle it with `smsman number status %d close|used`.\n", final.RequestID, final.RequestID)
	}
	return nil
}

// waitForCode blocks until the rental gets a code, retires, fails or ctx ends.
// It returns the last state seen.
func waitForCode(ctx context.Context, app *app, id domain.RequestID) (domain.Rental, error) {
	updates := make(chan struct{}, 1)
	app.store.Subscribe(func(_, _ domain.State) {
		select {
		case updates <- struct{}{}:
		default:
		}
	})

	var last domain.Rental
	for {
		rental, ok := app.engine.Rental(id)
		if !ok {
			return last, errRentalGone
		}
		last = rental

		if rental.SMSCode != "" || rental.Status.Retires() || rental.Status == domain.RentalStatusError {
			return rental, nil
		}

		select {
		case <-ctx.Done():
			return rental, ctx.Err()
		case <-updates:
		}
	}
}

func writeRental(cmd *cobra.Command, app *app, rental domain.Rental, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd, newRentalView(rental))
	}
	return writeReport(cmd, app, report.RentalsReport{Rentals: []domain.Rental{rental}})
}

func newNumberStatusCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <request-id> <ready|close|reject|used>",
		Short: "Set the activation status of a rented number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || raw <= 0 {
				return fmt.Errorf("request id must be a positive integer, got %q", args[0])
			}
			status, err := domain.ParseRemoteStatus(strings.ToLower(strings.TrimSpace(args[1])))
			if err != nil {
				return fmt.Errorf("set status: %w", err)
			}

			id := domain.RequestID(raw)
			if err := app.explorer.SetRemoteStatus(cmd.Context(), id, status); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Request %d set to %s\n", id, status)
			return err
		},
	}
}
