package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/google/uuid"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/config"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/contracts"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/envfile"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/framework"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/migrations"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/parameters"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/services"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type migrateOptions struct {
	network        string
	reset          bool
	artifactPath   string
	parametersPath string
}

func newMigrateCommand(a *app) *cobra.Command {
	opts := &migrateOptions{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run pending deployment migrations on a network",
		Long: `Deploy LeasableNft with the constructor parameters of the target network
and write its address to <env_base_path>/.env as LeasableNft_ADDRESS<NETWORK>.

Migrations that already completed on the network are skipped unless --reset is given.

Examples:
  leasable-deploy migrate --network development
  leasable-deploy migrate --network mainnet --artifact build/contracts/LeasableNft.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMigrate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.network, "network", "n", config.DefaultNetwork, "network to deploy to")
	cmd.Flags().BoolVar(&opts.reset, "reset", false, "run all migrations from the beginning")
	cmd.Flags().StringVar(&opts.artifactPath, "artifact", "", "LeasableNft artifact (.json) or source (.sol); default looks in artifacts_dir")
	cmd.Flags().StringVar(&opts.parametersPath, "parameters", "", "YAML file overriding the built-in constructor parameters")
	return cmd
}

func (a *app) runMigrate(cmd *cobra.Command, opts *migrateOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	network, err := cfg.Network(opts.network)
	if err != nil {
		return err
	}
	if network.PrivateKey == "" {
		return errors.New("private key required. Set private_key in the config, LEASABLE_PRIVATE_KEY or PRIVATE_KEY")
	}
	privateKey, from, err := utils.ParsePrivateKey(network.PrivateKey)
	if err != nil {
		return err
	}

	table, err := loadParameters(opts.parametersPath)
	if err != nil {
		return err
	}
	artifact, err := loadArtifact(opts.artifactPath, cfg.ArtifactsDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, network.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", opts.network, err)
	}
	defer client.Close()

	if err := checkChainID(ctx, client, network.ChainID); err != nil {
		return err
	}

	dbService, err := services.NewDBService(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbService.Close()

	runID := uuid.NewString()
	log := a.logger.WithFields(logrus.Fields{"network": opts.network, "run_id": runID})

	logDeployerBalance(ctx, client, from, log)

	deployer, err := framework.NewEVMDeployer(
		client,
		services.NewEvmService(cfg.SolcVersion, cfg.ImportDirs...),
		services.NewDeploymentService(dbService.GetDB()),
		framework.EVMDeployerConfig{
			Network:    opts.network,
			PrivateKey: privateKey,
			GasLimit:   network.GasLimit,
			RunID:      runID,
		},
		a.logger,
	)
	if err != nil {
		return err
	}

	runner := migrations.NewRunner(
		services.NewMigrationService(dbService.GetDB()),
		&migrations.LeasableNft{
			Parameters:  table,
			Artifact:    artifact,
			Store:       envfile.NewStore(),
			EnvBasePath: cfg.EnvBasePath,
		},
	)

	result, err := runner.Run(ctx, migrations.Env{
		Network:  opts.network,
		Accounts: nodeAccounts(ctx, client.Client(), from, log),
		Deployer: deployer,
		Logger:   a.logger,
	}, migrations.RunOptions{Reset: opts.reset, RunID: runID})
	if err != nil {
		return err
	}

	if a.jsonOut {
		return printJSON(cmd.OutOrStdout(), result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Run %s on %s: %d applied, %d skipped\n", result.RunID, opts.network, len(result.Applied), len(result.Skipped))
	return nil
}

func loadParameters(path string) (parameters.Table, error) {
	if path == "" {
		return parameters.Default()
	}
	return parameters.Load(path)
}

func loadArtifact(path, artifactsDir string) (*contracts.Artifact, error) {
	if path != "" {
		return contracts.LoadArtifact(path)
	}
	return contracts.FindArtifact(artifactsDir, migrations.LeasableNftContract)
}

func checkChainID(ctx context.Context, client *ethclient.Client, expected uint64) error {
	if expected == 0 {
		return nil
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain id: %w", err)
	}
	if chainID.Uint64() != expected {
		return fmt.Errorf("chain id mismatch: node reports %d, config expects %d", chainID.Uint64(), expected)
	}
	return nil
}

// nodeAccounts returns the signer followed by the accounts the node manages.
// Hosted providers usually reject eth_accounts, in which case only the signer is returned.
func nodeAccounts(ctx context.Context, node utils.RPCCaller, signer common.Address, log logrus.FieldLogger) []string {
	others, err := utils.NodeAccounts(ctx, node)
	if err != nil {
		log.WithError(err).Debug("eth_accounts unavailable")
	}
	return utils.MergeAccounts(signer, others)
}

func logDeployerBalance(ctx context.Context, node utils.BalanceReader, signer common.Address, log logrus.FieldLogger) {
	balance, err := utils.QueryNativeBalance(ctx, node, signer)
	if err != nil {
		log.WithError(err).Warn("Failed to query deployer balance")
		return
	}
	log = log.WithFields(logrus.Fields{"deployer": balance.Address, "balance": balance.FormattedBalance})
	if balance.IsZero() {
		log.Warn("Deployer has no funds, the deployment will fail")
		return
	}
	log.Info("Deployer balance")
}
