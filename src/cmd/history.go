package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/votesecure/deployer/src/utils/model"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past deployments recorded on this machine",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		history, err := model.OpenHistory(conf.Deployer.HistoryPath)
		if err != nil {
			return
		}
		defer history.Close()

		records, err := history.List()
		if err != nil {
			return
		}

		if len(records) == 0 {
			fmt.Println("No deployments recorded")
			return
		}

		for _, record := range records {
			var data []byte
			data, err = json.Marshal(record)
			if err != nil {
				return
			}
			fmt.Println(string(data))
		}
		return
	},
}
