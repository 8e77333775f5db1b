package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type networkView struct {
	Name         string `json:"name"`
	RPCURL       string `json:"rpc_url"`
	ChainID      uint64 `json:"chain_id,omitempty"`
	Symbol       string `json:"symbol"`
	MintPrice    string `json:"mint_price"`
	MintingLimit uint64 `json:"minting_limit"`
	MaxTokenID   uint64 `json:"max_token_id"`
	EnvKey       string `json:"env_key"`
}

func newNetworksCommand(a *app) *cobra.Command {
	var parametersPath string
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List configured networks and the parameters each one deploys with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			table, err := loadParameters(parametersPath)
			if err != nil {
				return err
			}

			views := make([]networkView, 0, len(cfg.Networks))
			for _, name := range cfg.NetworkNames() {
				network := cfg.Networks[name]
				params := table.ForNetwork(name)
				views = append(views, networkView{
					Name:         name,
					RPCURL:       network.RPCURL,
					ChainID:      network.ChainID,
					Symbol:       params.Symbol,
					MintPrice:    params.MintPrice,
					MintingLimit: params.MintingLimit,
					MaxTokenID:   params.MaxTokenID,
					EnvKey:       leasableNftEnvKey(name),
				})
			}

			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), views)
			}
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "NAME\tRPC\tCHAIN ID\tSYMBOL\tMINT PRICE\tLIMIT\tMAX TOKEN ID\tENV KEY")
			for _, v := range views {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%d\t%d\t%s\n", v.Name, v.RPCURL, v.ChainID, v.Symbol, v.MintPrice, v.MintingLimit, v.MaxTokenID, v.EnvKey)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&parametersPath, "parameters", "", "YAML file overriding the built-in constructor parameters")
	return cmd
}
