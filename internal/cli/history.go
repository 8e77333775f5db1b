package cli

import (
	"fmt"

	"github.com/rxtech-lab/leasable-nft-deployer/internal/envfile"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/migrations"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/models"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/services"
	"github.com/spf13/cobra"
)

var leasableNftEnvKey = migrations.LeasableNftEnvKey

type historyView struct {
	Deployments []models.Deployment      `json:"deployments"`
	Migrations  []models.MigrationRecord `json:"migrations,omitempty"`
	EnvValue    string                   `json:"env_value,omitempty"`
}

func newHistoryCommand(a *app) *cobra.Command {
	var network string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded deployments",
		Long: `Show the deployment ledger. With --network, also show completed migrations
and the address currently stored in the env file for that network.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			dbService, err := services.NewDBService(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer dbService.Close()

			deploymentService := services.NewDeploymentService(dbService.GetDB())
			var view historyView
			if network == "" {
				view.Deployments, err = deploymentService.ListDeployments()
				if err != nil {
					return fmt.Errorf("failed to list deployments: %w", err)
				}
			} else {
				view.Deployments, err = deploymentService.ListDeploymentsByNetwork(network)
				if err != nil {
					return fmt.Errorf("failed to list deployments: %w", err)
				}
				view.Migrations, err = services.NewMigrationService(dbService.GetDB()).ListByNetwork(network)
				if err != nil {
					return fmt.Errorf("failed to list migrations: %w", err)
				}
				view.EnvValue, _, err = envfile.GetValue(cfg.EnvBasePath, leasableNftEnvKey(network))
				if err != nil {
					return err
				}
			}

			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), view)
			}

			out := cmd.OutOrStdout()
			if len(view.Deployments) == 0 {
				fmt.Fprintln(out, "No deployments recorded")
			} else {
				w := newTable(out)
				fmt.Fprintln(w, "ID\tNETWORK\tCONTRACT\tSTATUS\tADDRESS\tTX\tCREATED")
				for _, d := range view.Deployments {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", d.ID, d.Network, d.ContractName, d.Status, d.ContractAddress, d.TransactionHash, d.CreatedAt.Format("2006-01-02 15:04:05"))
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}

			if network != "" {
				for _, m := range view.Migrations {
					fmt.Fprintf(out, "migration %d_%s completed %s (run %s)\n", m.Number, m.Name, m.CompletedAt.Format("2006-01-02 15:04:05"), m.RunID)
				}
				if view.EnvValue != "" {
					fmt.Fprintf(out, "%s=%s\n", leasableNftEnvKey(network), view.EnvValue)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&network, "network", "n", "", "only show this network")
	return cmd
}
