package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/votesecure/deployer/src/utils/ckb"
	"github.com/votesecure/deployer/src/utils/config"
	"github.com/votesecure/deployer/src/utils/model"
	"github.com/votesecure/deployer/src/utils/monitoring"
	"github.com/votesecure/deployer/src/utils/task"
	"github.com/votesecure/deployer/src/utils/wallet"

	"github.com/rs/xid"
)

// RPC is the part of the node interface the pipeline needs
type RPC interface {
	GetTipHeader(ctx context.Context) (*ckb.TipHeader, error)
	GetTransaction(ctx context.Context, hash ckb.Hash) (*ckb.TransactionWithStatus, error)
	SendTransaction(ctx context.Context, tx *ckb.Transaction) (ckb.Hash, error)
}

// Deployer runs the deployment pipeline: validate, load the binary,
// derive code hash and capacity, collect inputs, build, optionally
// sign, submit and await confirmation, then emit the record. With a
// finalize hash set it instead re-enters after a manual submission.
//
// The pipeline is strictly sequential, the only suspension point is
// the confirmation poll.
type Deployer struct {
	*task.Task

	client    RPC
	collector ckb.CellCollector
	builder   *ckb.Builder
	signer    *ckb.Signer

	calculator *ckb.CapacityCalculator
	wallet     *wallet.Wallet
	monitor    monitoring.Monitor

	finalizeHash *ckb.Hash

	// Terminal pipeline error, valid once CtxRunning is done
	err error

	// The single record produced by this run
	Output chan *model.DeploymentRecord
}

func NewDeployer(config *config.Config) (self *Deployer) {
	self = new(Deployer)

	self.calculator = ckb.NewCapacityCalculator(config)
	self.signer = ckb.NewSigner()
	self.Output = make(chan *model.DeploymentRecord, 1)

	self.Task = task.NewTask(config, "deployer").
		WithSubtaskFunc(self.run)

	return
}

func (self *Deployer) WithClient(client RPC) *Deployer {
	self.client = client
	return self
}

func (self *Deployer) WithCellCollector(collector ckb.CellCollector) *Deployer {
	self.collector = collector
	return self
}

func (self *Deployer) WithBuilder(builder *ckb.Builder) *Deployer {
	self.builder = builder
	return self
}

func (self *Deployer) WithWallet(wallet *wallet.Wallet) *Deployer {
	self.wallet = wallet
	return self
}

func (self *Deployer) WithMonitor(monitor monitoring.Monitor) *Deployer {
	self.monitor = monitor
	return self
}

// WithFinalizeHash switches the pipeline to the finalize path: wait for
// the given, manually submitted transaction and persist the record.
func (self *Deployer) WithFinalizeHash(hash ckb.Hash) *Deployer {
	self.finalizeHash = &hash
	return self
}

func (self *Deployer) run() (err error) {
	defer func() {
		self.err = err
		close(self.Output)
	}()

	var record *model.DeploymentRecord
	if self.finalizeHash != nil {
		record, err = self.finalize(*self.finalizeHash)
	} else {
		record, err = self.deploy()
	}
	if err != nil {
		return
	}

	select {
	case <-self.Ctx.Done():
	case self.Output <- record:
	}
	return nil
}

// Err returns the error that ended the pipeline, nil on success. Only
// meaningful after CtxRunning is done.
func (self *Deployer) Err() error {
	return self.err
}

func (self *Deployer) deploy() (record *model.DeploymentRecord, err error) {
	self.monitor.GetReport().Deployer.State.DeploymentsStarted.Inc()

	err = self.validate()
	if err != nil {
		return
	}

	binary, err := self.loadBinary()
	if err != nil {
		return
	}

	codeHash := ckb.CodeHash(binary)
	self.Log.WithField("code_hash", codeHash).Info("Code hash calculated")

	requiredCapacity := self.calculator.Required(uint64(len(binary)))
	self.Log.WithField("binary_size", len(binary)).
		WithField("capacity", ckb.FormatCkb(requiredCapacity)).
		Info("Required capacity calculated")

	deployerLock, err := ckb.DecodeAddress(self.wallet.Address)
	if err != nil {
		return
	}

	fee := self.Config.Deployer.Fee
	cells, err := self.collector.Collect(self.Ctx, deployerLock, requiredCapacity+fee)
	if err != nil {
		self.monitor.GetReport().Deployer.Errors.CollectError.Inc()
		return
	}

	tx, err := self.builder.Build(binary, requiredCapacity, cells, fee)
	if err != nil {
		self.monitor.GetReport().Deployer.Errors.BuildError.Inc()
		return
	}
	self.monitor.GetReport().Deployer.State.TransactionsBuilt.Inc()

	// Written before signing, the dump must survive a failing later step
	err = self.persistTransaction(tx)
	if err != nil {
		return
	}

	txHash := ckb.Hash{}
	if self.Config.Deployer.AutoDeploy {
		txHash, err = self.submit(tx)
		if err != nil {
			return
		}

		err = self.awaitConfirmation(txHash)
		if err != nil {
			return
		}
	} else {
		self.Log.WithField("path", self.Config.Deployer.TransactionPath).
			Warn("Automatic deployment is off. Sign and send the transaction dump with an external wallet, " +
				"then run: deployer finalize <tx_hash>")
	}

	record = self.newRecord(codeHash, txHash, uint64(len(binary)), requiredCapacity)
	self.logSummary(record)
	return
}

func (self *Deployer) finalize(txHash ckb.Hash) (record *model.DeploymentRecord, err error) {
	self.monitor.GetReport().Deployer.State.DeploymentsStarted.Inc()

	self.Log.WithField("tx_hash", txHash).Info("Finalizing deployment")

	err = self.awaitConfirmation(txHash)
	if err != nil {
		return
	}

	// The code hash is always recomputed from the binary on disk
	binary, err := self.loadBinary()
	if err != nil {
		return
	}
	codeHash := ckb.CodeHash(binary)
	requiredCapacity := self.calculator.Required(uint64(len(binary)))

	record = self.newRecord(codeHash, txHash, uint64(len(binary)), requiredCapacity)
	self.logSummary(record)
	return
}

func (self *Deployer) validate() (err error) {
	tip, err := self.client.GetTipHeader(self.Ctx)
	if err != nil {
		self.monitor.GetReport().Deployer.Errors.RpcError.Inc()
		return fmt.Errorf("cannot connect to the CKB node: %w", err)
	}
	self.monitor.GetReport().NetworkInfo.TipHeight.Store(uint64(tip.Number))

	self.Log.WithField("network", self.Config.Ckb.Network).
		WithField("rpc_url", self.Config.Ckb.RpcUrl).
		WithField("block", uint64(tip.Number)).
		WithField("address", self.wallet.Address).
		Info("Connected to CKB node")
	return
}

func (self *Deployer) loadBinary() (binary []byte, err error) {
	/* #nosec */
	binary, err = os.ReadFile(self.Config.Deployer.BinaryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read lockscript binary: %w", err)
	}
	if len(binary) == 0 {
		return nil, errors.New("lockscript binary is empty")
	}

	self.Log.WithField("path", self.Config.Deployer.BinaryPath).
		WithField("size", len(binary)).
		Info("Lockscript binary loaded")
	return
}

func (self *Deployer) submit(tx *ckb.Transaction) (txHash ckb.Hash, err error) {
	_, err = self.signer.Sign(tx, self.wallet.PrivateKey)
	if err != nil {
		self.monitor.GetReport().Deployer.Errors.SignError.Inc()
		return
	}
	self.monitor.GetReport().Deployer.State.TransactionsSigned.Inc()

	// Refresh the dump with the witnesses filled in
	err = self.persistTransaction(tx)
	if err != nil {
		return
	}

	txHash, err = self.client.SendTransaction(self.Ctx, tx)
	if err != nil {
		self.monitor.GetReport().Deployer.Errors.SubmitError.Inc()
		err = fmt.Errorf("failed to send transaction: %w", err)
		return
	}
	self.monitor.GetReport().Deployer.State.TransactionsSubmitted.Inc()

	self.Log.WithField("tx_hash", txHash).Info("Transaction sent")
	return
}

// awaitConfirmation polls the transaction status at a fixed interval
// until it is committed, rejected, or the timeout elapses. Rejection is
// terminal, there is no resubmission here.
func (self *Deployer) awaitConfirmation(txHash ckb.Hash) (err error) {
	ctx, cancel := context.WithTimeout(self.Ctx, self.Config.Deployer.ConfirmationTimeout)
	defer cancel()

	self.Log.WithField("tx_hash", txHash).
		WithField("timeout", self.Config.Deployer.ConfirmationTimeout).
		Info("Waiting for confirmation")

	ticker := time.NewTicker(self.Config.Deployer.ConfirmationInterval)
	defer ticker.Stop()

	for {
		var status *ckb.TransactionWithStatus
		status, err = self.client.GetTransaction(ctx, txHash)
		if err != nil {
			if ctx.Err() == nil {
				// Transient RPC failures don't abort the wait
				self.monitor.GetReport().Deployer.Errors.RpcError.Inc()
				self.Log.WithError(err).Warn("Failed to check transaction status")
			}
		} else {
			switch status.TxStatus.Status {
			case ckb.TxStatusCommitted:
				self.monitor.GetReport().Deployer.State.ConfirmationsCommitted.Inc()
				self.Log.WithField("tx_hash", txHash).Info("Transaction committed")
				return nil
			case ckb.TxStatusRejected:
				self.monitor.GetReport().Deployer.Errors.ConfirmationRejected.Inc()
				return ckb.ErrTransactionRejected
			}
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && self.Ctx.Err() == nil {
				self.monitor.GetReport().Deployer.Errors.ConfirmationTimeout.Inc()
				return ckb.ErrConfirmationTimeout
			}
			return ctx.Err()
		case <-ticker.C:
			// next poll
		}
	}
}

func (self *Deployer) persistTransaction(tx *ckb.Transaction) (err error) {
	err = writeTransactionDump(tx, self.Config.Deployer.TransactionPath)
	if err != nil {
		self.monitor.GetReport().Deployer.Errors.PersistError.Inc()
		return
	}

	self.Log.WithField("path", self.Config.Deployer.TransactionPath).
		Info("Transaction dump saved")
	return
}

func (self *Deployer) newRecord(codeHash, txHash ckb.Hash, binarySize, capacity uint64) *model.DeploymentRecord {
	return &model.DeploymentRecord{
		Id:       xid.New().String(),
		CodeHash: codeHash,
		HashType: ckb.HashTypeData,
		TxHash:   txHash,
		OutPoint: ckb.OutPoint{
			TxHash: txHash,
			Index:  0,
		},
		DeployedAt:       time.Now().UTC(),
		DeployedBy:       self.wallet.Address,
		Network:          self.Config.Ckb.Network,
		BinarySizeBytes:  binarySize,
		CapacityShannons: capacity,
		CapacityCkb:      ckb.FormatCkb(capacity),
		RpcUrl:           self.Config.Ckb.RpcUrl,
		IndexerUrl:       self.Config.Ckb.IndexerUrl,
	}
}

func (self *Deployer) logSummary(record *model.DeploymentRecord) {
	log := self.Log.WithField("network", record.Network).
		WithField("code_hash", record.CodeHash).
		WithField("tx_hash", record.TxHash).
		WithField("capacity_ckb", record.CapacityCkb)

	if !record.TxHash.IsZero() {
		log = log.WithField("explorer", explorerUrl(record.Network, record.TxHash))
	}

	log.Info("Deployment summary")
}

func explorerUrl(network string, txHash ckb.Hash) string {
	if network == "mainnet" {
		return "https://explorer.nervos.org/transaction/" + txHash.Hex()
	}
	return "https://pudge.explorer.nervos.org/transaction/" + txHash.Hex()
}
