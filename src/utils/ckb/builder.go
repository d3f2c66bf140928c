package ckb

import (
	"fmt"

	"github.com/votesecure/deployer/src/utils/config"
	"github.com/votesecure/deployer/src/utils/logger"

	"github.com/sirupsen/logrus"
)

// Result of input collection: the inputs to spend, their summed
// capacity and the lock controlling them
type CollectedCells struct {
	Inputs   []CellInput
	Capacity uint64
	Lock     Script
}

// Builder assembles the unsigned deployment transaction
type Builder struct {
	log *logrus.Entry

	// Dep group cell of the system secp lock, needed by the node to
	// validate the change output's lock
	secpDepGroup OutPoint
}

func NewBuilder(config *config.Config) (self *Builder, err error) {
	self = new(Builder)
	self.log = logger.NewSublogger("builder")

	txHash, err := HashFromHex(config.Ckb.SecpDepGroupTxHash)
	if err != nil {
		return nil, fmt.Errorf("bad secp dep group tx hash in config: %w", err)
	}
	self.secpDepGroup = OutPoint{
		TxHash: txHash,
		Index:  HexUint64(config.Ckb.SecpDepGroupIndex),
	}

	return
}

// Build produces the unsigned transaction: the deployment cell holding
// the payload under the always-unspendable lock, and a change cell back
// to the deployer. Witnesses stay empty, the Signer fills them later.
func (self *Builder) Build(payload []byte, requiredCapacity uint64, cells *CollectedCells, fee uint64) (tx *Transaction, err error) {
	// Change must never go negative, underfunded inputs are an error
	// and not something to clamp away
	if cells.Capacity < requiredCapacity+fee {
		err = fmt.Errorf("%w: have %d shannons, need %d + %d fee",
			ErrInsufficientFunds, cells.Capacity, requiredCapacity, fee)
		return
	}
	changeCapacity := cells.Capacity - requiredCapacity - fee

	deploymentOutput := CellOutput{
		Capacity: HexUint64(requiredCapacity),
		Lock:     AlwaysUnspendableLock(),
		Type:     nil,
	}

	changeOutput := CellOutput{
		Capacity: HexUint64(changeCapacity),
		Lock:     cells.Lock,
		Type:     nil,
	}

	tx = &Transaction{
		Version: 0,
		CellDeps: []CellDep{
			{
				OutPoint: self.secpDepGroup,
				DepType:  DepTypeDepGroup,
			},
		},
		HeaderDeps:  []Hash{},
		Inputs:      cells.Inputs,
		Outputs:     []CellOutput{deploymentOutput, changeOutput},
		OutputsData: []HexBytes{HexBytes(payload), {}},
		Witnesses:   []HexBytes{},
	}

	self.log.WithField("inputs", len(cells.Inputs)).
		WithField("input_capacity", FormatCkb(cells.Capacity)).
		WithField("deployment_capacity", FormatCkb(requiredCapacity)).
		WithField("change_capacity", FormatCkb(changeCapacity)).
		Debug("Transaction built")

	return
}
