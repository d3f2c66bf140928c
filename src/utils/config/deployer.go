package config

import (
	"time"

	"github.com/spf13/viper"
)

type Deployer struct {
	// Path to the compiled lockscript binary
	BinaryPath string

	// Path to the Neuron wallet file with the deployer's address and key
	WalletPath string

	// Where the deployment record is written
	RecordPath string

	// Where the unsigned/signed transaction dump is written
	TransactionPath string

	// Directory of the local deployment history database
	HistoryPath string

	// Transaction fee in shannons
	Fee uint64

	// Minimum capacity of a cell, in CKB
	MinCellReserve uint64

	// Extra capacity on top of the payload size, in CKB
	SafetyBuffer uint64

	// When true the transaction is signed and submitted automatically.
	// When false only the transaction dump is produced and signing is
	// left to an external wallet.
	AutoDeploy bool

	// Confirmation polling
	ConfirmationInterval time.Duration
	ConfirmationTimeout  time.Duration
}

func setDeployerDefaults() {
	viper.SetDefault("Deployer.BinaryPath", "./votesecure_lockscript.bin")
	viper.SetDefault("Deployer.WalletPath", "./neuronkey.json")
	viper.SetDefault("Deployer.RecordPath", "./votesecure_config.json")
	viper.SetDefault("Deployer.TransactionPath", "./deployment_transaction.json")
	viper.SetDefault("Deployer.HistoryPath", "./deployments")
	viper.SetDefault("Deployer.Fee", "1000")
	viper.SetDefault("Deployer.MinCellReserve", "61")
	viper.SetDefault("Deployer.SafetyBuffer", "10")
	viper.SetDefault("Deployer.AutoDeploy", "false")
	viper.SetDefault("Deployer.ConfirmationInterval", "5s")
	viper.SetDefault("Deployer.ConfirmationTimeout", "10m")
}
