package deploy

import (
	"github.com/votesecure/deployer/src/utils/ckb"
	"github.com/votesecure/deployer/src/utils/config"
	"github.com/votesecure/deployer/src/utils/model"
	"github.com/votesecure/deployer/src/utils/monitoring"
	monitor_deployer "github.com/votesecure/deployer/src/utils/monitoring/deployer"
	"github.com/votesecure/deployer/src/utils/task"
	"github.com/votesecure/deployer/src/utils/wallet"
)

type Controller struct {
	*task.Task

	// Exposed so the command can wait for the pipeline to finish
	Deployer *Deployer
}

// NewController wires the deployment pipeline. A non-nil finalizeHash
// runs the finalize path instead of a fresh deployment.
func NewController(config *config.Config, finalizeHash *ckb.Hash) (self *Controller, err error) {
	self = new(Controller)
	self.Task = task.NewTask(config, "controller")

	w, err := wallet.Load(config.Deployer.WalletPath)
	if err != nil {
		return
	}

	builder, err := ckb.NewBuilder(config)
	if err != nil {
		return
	}

	history, err := model.OpenHistory(config.Deployer.HistoryPath)
	if err != nil {
		return
	}

	client := ckb.NewClient(config)

	monitor := monitor_deployer.NewMonitor()

	server := monitoring.NewServer(config).
		WithMonitor(monitor)

	self.Deployer = NewDeployer(config).
		WithClient(client).
		WithCellCollector(ckb.NewLiveCellCollector(client)).
		WithBuilder(builder).
		WithWallet(w).
		WithMonitor(monitor)
	if finalizeHash != nil {
		self.Deployer = self.Deployer.WithFinalizeHash(*finalizeHash)
	}

	store := NewStore(config).
		WithInputChannel(self.Deployer.Output).
		WithHistory(history).
		WithMonitor(monitor)

	self.Task = self.Task.
		WithSubtask(monitor.Task).
		WithSubtask(server.Task).
		WithSubtask(store.Task).
		WithSubtask(self.Deployer.Task)

	return
}
