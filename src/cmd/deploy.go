package cmd

import (
	"github.com/votesecure/deployer/src/deploy"
	"github.com/votesecure/deployer/src/utils/ckb"
	"github.com/votesecure/deployer/src/utils/logger"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(deployCmd)

	// Running without a subcommand deploys
	RootCmd.RunE = deployCmd.RunE
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Build the lockscript deployment transaction and deploy it to the network",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return runPipeline(nil)
	},
}

// runPipeline starts the controller and waits until the pipeline
// finishes or the process is interrupted.
func runPipeline(finalizeHash *ckb.Hash) (err error) {
	log := logger.NewSublogger("root-cmd")

	controller, err := deploy.NewController(conf, finalizeHash)
	if err != nil {
		return
	}

	err = controller.Start()
	if err != nil {
		return
	}

	select {
	case <-controller.Deployer.CtxRunning.Done():
	case <-ctx.Done():
		log.Info("Interrupted, shutting down")
	}

	controller.StopWait()

	// A failed pipeline must surface as a nonzero exit status
	<-controller.Deployer.CtxRunning.Done()
	return controller.Deployer.Err()
}
