package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bnema/smsman-cli/internal/adapters/render/report"
	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func writeJSON(cmd *cobra.Command, value any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func writeReport(cmd *cobra.Command, app *app, r report.Report) error {
	rendered, err := app.reportRenderer(r, report.Options{Now: app.clock.Now()})
	if err != nil {
		return fmt.Errorf("render output: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// accountView is the JSON shape of an account. Tokens never leave the process.
type accountView struct {
	ID        domain.AccountID `json:"id"`
	Label     string           `json:"label"`
	TokenRef  string           `json:"token_ref"`
	HasToken  bool             `json:"has_token"`
	Active    bool             `json:"active"`
	CreatedAt time.Time        `json:"created_at"`
}

func newAccountView(account domain.Account, activeID domain.AccountID) accountView {
	return accountView{
		ID:        account.ID,
		Label:     account.Label,
		TokenRef:  account.TokenRef,
		HasToken:  account.HasToken(),
		Active:    account.ID == activeID,
		CreatedAt: account.CreatedAt,
	}
}

type rentalView struct {
	RequestID     domain.RequestID     `json:"request_id"`
	Number        string               `json:"number"`
	E164          string               `json:"e164"`
	Region        string               `json:"region,omitempty"`
	CountryID     domain.CountryID     `json:"country_id"`
	CountryName   string               `json:"country_name"`
	ApplicationID domain.ApplicationID `json:"application_id"`
	ServiceName   string               `json:"service_name"`
	SMSCode       string               `json:"sms_code,omitempty"`
	Status        domain.RentalStatus  `json:"status"`
	AccountID     domain.AccountID     `json:"account_id"`
	CreatedAt     time.Time            `json:"created_at"`
	ResolvedAt    *time.Time           `json:"resolved_at,omitempty"`
}

func newRentalView(rental domain.Rental) rentalView {
	return rentalView{
		RequestID:     rental.RequestID,
		Number:        rental.Number,
		E164:          domain.E164(rental.Number),
		Region:        domain.NumberRegion(rental.Number),
		CountryID:     rental.CountryID,
		CountryName:   rental.CountryName,
		ApplicationID: rental.ApplicationID,
		ServiceName:   rental.ServiceName,
		SMSCode:       rental.SMSCode,
		Status:        rental.Status,
		AccountID:     rental.AccountID,
		CreatedAt:     rental.CreatedAt,
	}
}

func newHistoryView(record domain.HistoryRecord) rentalView {
	view := newRentalView(record.Rental)
	resolvedAt := record.ResolvedAt
	view.ResolvedAt = &resolvedAt
	return view
}
