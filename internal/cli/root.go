// Package cli implements the leasable-deploy command line.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Build information (set via ldflags)
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

type app struct {
	viper    *viper.Viper
	logger   *logrus.Logger
	cfgFile  string
	envFile  string
	logLevel string
	jsonOut  bool
}

// NewRootCommand builds the command tree. Configuration is read lazily, when a command runs.
func NewRootCommand() *cobra.Command {
	a := &app{
		viper:  viper.New(),
		logger: logrus.New(),
	}

	root := &cobra.Command{
		Use:   "leasable-deploy",
		Short: "Deploy the LeasableNft contract and record its address",
		Long: `leasable-deploy runs the numbered deployment migrations against a network,
keeps a ledger of every deployment and writes the LeasableNft address into
the env file used by the rest of the tooling.

Configuration (in order of priority):
  1. Command-line flags
  2. Environment variables (LEASABLE_*, PRIVATE_KEY)
  3. Config file (./leasable-deploy.yaml)

Examples:
  leasable-deploy migrate --network development
  leasable-deploy migrate --network rinkeby --reset
  leasable-deploy history --network mainnet`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./leasable-deploy.yaml)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded into the environment before reading config")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "output in JSON format")

	root.AddCommand(
		newMigrateCommand(a),
		newNetworksCommand(a),
		newHistoryCommand(a),
		newVersionCommand(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.logger.SetOutput(cmd.ErrOrStderr())
	a.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(a.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	a.logger.SetLevel(level)

	if a.envFile != "" {
		// existing environment variables win over the file
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", a.envFile, err)
		}
	}

	config.SetDefaults(a.viper)
	if a.cfgFile != "" {
		a.viper.SetConfigFile(a.cfgFile)
	} else {
		a.viper.AddConfigPath(".")
		a.viper.SetConfigType("yaml")
		a.viper.SetConfigName(config.DefaultFileName)
	}
	config.BindEnv(a.viper)

	if err := a.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		a.logger.Debug("No config file found, using defaults")
	} else {
		a.logger.WithField("file", a.viper.ConfigFileUsed()).Debug("Loaded config")
	}
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	return config.Load(a.viper)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "leasable-deploy version %s (commit %s, built %s)\n", Version, CommitHash, BuildTime)
		},
	}
}

// printJSON outputs data as formatted JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
