package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/smsman-cli/internal/adapters/render/report"
	"github.com/bnema/smsman-cli/internal/application"
	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "account",
		Aliases: []string{"accounts"},
		Short:   "Manage SMS-man API accounts",
	}

	cmd.AddCommand(
		newAccountAddCmd(app),
		newAccountListCmd(app),
		newAccountUpdateCmd(app),
		newAccountRemoveCmd(app),
		newAccountUseCmd(app),
	)

	return cmd
}

func newAccountAddCmd(app *app) *cobra.Command {
	var id string
	var label string
	var token string
	var tokenStdin bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account and store its API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tokenStdin {
				read, err := readToken(cmd.InOrStdin())
				if err != nil {
					return err
				}
				token = read
			}
			if strings.TrimSpace(token) == "" {
				return fmt.Errorf("add account: --token or --token-stdin is required")
			}

			account, err := app.registry.Add(cmd.Context(), application.AddAccountCommand{
				ID:    domain.AccountID(strings.TrimSpace(id)),
				Label: label,
				Token: token,
			})
			if err != nil {
				return err
			}

			active, _ := app.registry.Active()
			suffix := ""
			if active.ID == account.ID {
				suffix = " (active)"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added account %s (%s)%s\n", account.Label, account.ID, suffix)
			return err
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Account ID (default: generated)")
	cmd.Flags().StringVar(&label, "label", "", "Display label")
	cmd.Flags().StringVar(&token, "token", "", "SMS-man API token")
	cmd.Flags().BoolVar(&tokenStdin, "token-stdin", false, "Read the API token from stdin")
	_ = cmd.MarkFlagRequired("label")
	cmd.MarkFlagsMutuallyExclusive("token", "token-stdin")

	return cmd
}

func newAccountListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state := app.store.Snapshot()

			if asJSON {
				views := make([]accountView, 0, len(state.Accounts))
				for _, account := range state.Accounts {
					views = append(views, newAccountView(account, state.ActiveAccountID))
				}
				return writeJSON(cmd, views)
			}

			return writeReport(cmd, app, report.AccountsReport{
				Accounts: state.Accounts,
				ActiveID: state.ActiveAccountID,
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newAccountUpdateCmd(app *app) *cobra.Command {
	var label string
	var token string

	cmd := &cobra.Command{
		Use:   "update <account>",
		Short: "Change an account's label or API token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := app.registry.Resolve(args[0])
			if err != nil {
				return err
			}

			update := application.UpdateAccountCommand{ID: account.ID}
			if cmd.Flags().Changed("label") {
				update.Label = &label
			}
			if cmd.Flags().Changed("token") {
				update.Token = &token
			}
			if update.Label == nil && update.Token == nil {
				return fmt.Errorf("update account: nothing to change, pass --label or --token")
			}

			if err := app.registry.Update(cmd.Context(), update); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated account %s\n", account.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "New display label")
	cmd.Flags().StringVar(&token, "token", "", "New SMS-man API token")

	return cmd
}

func newAccountRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <account>",
		Aliases: []string{"rm"},
		Short:   "Remove an account, its token and its history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := app.registry.Resolve(args[0])
			if err != nil {
				return err
			}

			if err := app.registry.Remove(cmd.Context(), account.ID); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed account %s (%s)\n", account.Label, account.ID)
			return err
		},
	}
}

func newAccountUseCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "use <account>",
		Short: "Make an account the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := app.registry.Resolve(args[0])
			if err != nil {
				return err
			}

			if err := app.registry.SetActive(cmd.Context(), account.ID); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Active account: %s (%s)\n", account.Label, account.ID)
			return err
		},
	}
}

func readToken(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read token from stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// scopeAccount picks the account a history command applies to: all accounts,
// an explicit reference, or the active account.
func scopeAccount(app *app, all bool, ref string) (domain.Account, error) {
	if all {
		return domain.Account{}, nil
	}
	if strings.TrimSpace(ref) != "" {
		return app.registry.Resolve(ref)
	}

	active, ok := app.registry.Active()
	if !ok {
		return domain.Account{}, domain.ErrNoActiveAccount
	}
	return active, nil
}
