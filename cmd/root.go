package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/smsman-cli/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const annotationSkipWire = "smsman/skip-wire"

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd, app := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	return errors.Join(err, app.close())
}

func newRootCmd() (*cobra.Command, *app) {
	v := viper.New()
	app := newApp(v)

	rootCmd := &cobra.Command{
		Use:           "smsman",
		Short:         "SMS-man CLI: rent virtual numbers and receive SMS codes",
		Long:          "smsman manages SMS-man API accounts, browses countries, services and prices, rents virtual numbers and waits for their activation codes from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[annotationSkipWire] == "true" {
				return nil
			}
			return app.wire(cmd.Context(), cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: console or json")
	flags.String("state", "", "Path to the state file (default ~/.smsman/state.toml)")
	flags.String("api-url", "", "SMS-man API base URL")
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))
	_ = v.BindPFlag(config.KeyStatePath, flags.Lookup("state"))
	_ = v.BindPFlag(config.KeyAPIBaseURL, flags.Lookup("api-url"))

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountCmd(app),
		newBalanceCmd(app),
		newCountriesCmd(app),
		newServicesCmd(app),
		newPricesCmd(app),
		newLimitsCmd(app),
		newNumberCmd(app),
		newHistoryCmd(app),
	)

	return rootCmd, app
}
