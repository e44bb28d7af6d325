// Package cli implements the counter command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"bus-ticketing/pkg/apiclient"
	"bus-ticketing/pkg/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app is the state shared by every command. The credentials are loaded once
// in PersistentPreRunE and handed to the API client.
type app struct {
	out        io.Writer
	configPath string
	v          *viper.Viper
	client     *apiclient.Client
	log        *zap.Logger
}

// NewRootCmd builds the counter command tree.
func NewRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "counter",
		Short:         "Bus ticket counter",
		Long:          `Sell, inspect and cancel bus seat bookings from a ticket counter.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&a.configPath, "config", DefaultConfigPath(), "config file")
	root.PersistentFlags().String("api-url", "", "API base URL (overrides COUNTER_API_URL)")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.busesCmd(),
		a.routesCmd(),
		a.seatsCmd(),
		a.bookCmd(),
		a.cancelCmd(),
		a.ticketCmd(),
	)
	return root
}

// Execute runs the counter CLI.
func Execute(ctx context.Context, out io.Writer, args []string) error {
	root := NewRootCmd(out)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *app) init(cmd *cobra.Command) error {
	v, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	if err := v.BindPFlag("api_url", cmd.Flags().Lookup("api-url")); err != nil {
		return err
	}
	if v.GetString("api_url") == "" {
		v.Set("api_url", defaultAPIURL)
	}
	a.v = v

	logger, err := utils.InitFileLogger(v.GetString("log_path"), "bus-counter.log", v.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.log = logger.With(zap.String("command", cmd.Name()))

	a.client = apiclient.NewClient(v.GetString("api_url"), credentialsFrom(v), nil)
	return nil
}

// requireLogin returns the saved credentials or an error telling the operator
// to log in.
func (a *app) requireLogin() (*apiclient.Credentials, error) {
	creds := a.client.Credentials()
	if !creds.Valid(time.Now()) {
		return nil, errors.New("not logged in: run `counter login`")
	}
	return creds, nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
