package cmd

import (
	"github.com/votesecure/deployer/src/utils/ckb"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(finalizeCmd)
}

var finalizeCmd = &cobra.Command{
	Use:   "finalize <tx_hash>",
	Short: "Wait for a manually submitted deployment transaction and save the record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		txHash, err := ckb.HashFromHex(args[0])
		if err != nil {
			return
		}
		return runPipeline(&txHash)
	},
}
