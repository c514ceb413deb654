// Package cmd provides the entrypoint for the razorpay-interakt-app cli.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/isometry/razorpay-interakt-app/internal/config"
	"github.com/isometry/razorpay-interakt-app/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfigFile = "config.yaml"

var (
	configFilePath string
	logger         = logging.NewNoopLogger()
	flushLogs      = func() {}
)

// New returns the root command for the razorpay-interakt-app.
func New() *cobra.Command {
	// A missing .env file is not an error.
	_ = godotenv.Load()
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(replacer)

	configFilePath = defaultConfigFile
	if v, ok := os.LookupEnv("CONFIG_FILE"); ok {
		configFilePath = v
	}

	// Configuration loading & defaults
	if err := errors.Join(
		config.LoadFromFile(configFilePath),
		config.SetDefaults(),
	); err != nil {
		panic(err)
	}

	svcCmd, lambdaCmd := cmdService(), cmdLambda()

	cmd := &cobra.Command{
		Use:          "razorpay-interakt-app",
		Short:        "Forwards authorized Razorpay payments to Interakt",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config.Global.Mode = resolveMode(cmd, config.Global.Mode)
			l, flush, err := logging.New(logging.Options{
				Verbosity:   config.Global.Logging.Verbosity,
				CallerTrace: config.Global.Logging.CallerTrace,
				LokiURL:     config.Global.Logging.LokiURL,
			})
			if err != nil {
				return err
			}
			logger, flushLogs = l.With("mode", config.Global.Mode), flush
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			flushLogs()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch config.Global.Mode {
			case config.ModeService:
				return chainCommands(cmd, args, svcCmd.PreRunE, svcCmd.RunE)
			case config.ModeLambda:
				return lambdaCmd.RunE(cmd, args)
			default:
				return fmt.Errorf("invalid mode: %s", config.Global.Mode)
			}
		},
	}

	// Root command flags
	cmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", configFilePath, "[CONFIG_FILE] path to the configuration file, read before flags are parsed")

	// Dynamic flags
	setupDynamicFlags(cmd)

	// Subcommands
	cmd.AddCommand(
		lambdaCmd,
		svcCmd,
	)

	return cmd
}

func setupDynamicFlags(cmd *cobra.Command) {
	bindEnvMap(cmd, envMapString)
	bindEnvMap(cmd, envMapBool)
	bindEnvMap(cmd, envMapCount)
	bindEnvMap(cmd, envMapDuration)
}

// resolveMode returns the mode selected by the invoked subcommand, falling back to the configured one.
func resolveMode(cmd *cobra.Command, configured string) string {
	switch cmd.Name() {
	case config.ModeService, config.ModeLambda:
		return cmd.Name()
	default:
		return strings.TrimSpace(configured)
	}
}
