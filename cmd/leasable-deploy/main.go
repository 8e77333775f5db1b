// leasable-deploy deploys the LeasableNft contract to a configured network
// and records its address in the project's env file.
package main

import (
	"os"

	"github.com/rxtech-lab/leasable-nft-deployer/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
