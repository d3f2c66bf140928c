package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/votesecure/deployer/src/utils/ckb"
	"github.com/votesecure/deployer/src/utils/config"
	"github.com/votesecure/deployer/src/utils/model"
	monitor_deployer "github.com/votesecure/deployer/src/utils/monitoring/deployer"
	"github.com/votesecure/deployer/src/utils/wallet"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"testing"
)

func TestDeployerTestSuite(t *testing.T) {
	suite.Run(t, new(DeployerTestSuite))
}

type stubRPC struct {
	// Statuses returned by consecutive GetTransaction calls, the last
	// one repeats
	statuses []string
	calls    int

	sent        *ckb.Transaction
	sentHash    ckb.Hash
	tipErr      error
	queriedHash ckb.Hash
}

func (self *stubRPC) GetTipHeader(ctx context.Context) (*ckb.TipHeader, error) {
	if self.tipErr != nil {
		return nil, self.tipErr
	}
	return &ckb.TipHeader{Number: 12345}, nil
}

func (self *stubRPC) GetTransaction(ctx context.Context, hash ckb.Hash) (*ckb.TransactionWithStatus, error) {
	self.queriedHash = hash
	idx := self.calls
	if idx >= len(self.statuses) {
		idx = len(self.statuses) - 1
	}
	self.calls++
	return &ckb.TransactionWithStatus{TxStatus: ckb.TxStatus{Status: self.statuses[idx]}}, nil
}

func (self *stubRPC) SendTransaction(ctx context.Context, tx *ckb.Transaction) (ckb.Hash, error) {
	self.sent = tx
	self.sentHash = ckb.Hash{0xaa}
	return self.sentHash, nil
}

type stubCollector struct {
	err error

	// Extra capacity on top of the requested target
	surplus uint64
}

func (self *stubCollector) Collect(ctx context.Context, lock ckb.Script, target uint64) (*ckb.CollectedCells, error) {
	if self.err != nil {
		return nil, self.err
	}
	return &ckb.CollectedCells{
		Inputs: []ckb.CellInput{
			{PreviousOutput: ckb.OutPoint{TxHash: ckb.Hash{0x05}, Index: 1}},
		},
		Capacity: target + self.surplus,
		Lock:     lock,
	}, nil
}

type DeployerTestSuite struct {
	suite.Suite
	dir    string
	conf   *config.Config
	binary []byte
	wallet *wallet.Wallet
}

func (s *DeployerTestSuite) SetupSuite() {
	key, err := secp256k1.GeneratePrivateKey()
	require.Nil(s.T(), err)

	payload := append([]byte{0x01, 0x00}, make([]byte, 20)...)
	converted, err := bech32.ConvertBits(payload, 8, 5, true)
	require.Nil(s.T(), err)
	address, err := bech32.Encode("ckt", converted)
	require.Nil(s.T(), err)

	s.wallet = &wallet.Wallet{
		Address:    address,
		PrivateKey: key.Serialize(),
	}
	s.binary = []byte("lockscript binary bytes")
}

func (s *DeployerTestSuite) SetupTest() {
	s.dir = s.T().TempDir()

	s.conf = config.Default()
	s.conf.Deployer.BinaryPath = filepath.Join(s.dir, "lockscript.bin")
	s.conf.Deployer.TransactionPath = filepath.Join(s.dir, "tx.json")
	s.conf.Deployer.RecordPath = filepath.Join(s.dir, "record.json")
	s.conf.Deployer.HistoryPath = filepath.Join(s.dir, "history")
	s.conf.Deployer.ConfirmationInterval = 5 * time.Millisecond
	s.conf.Deployer.ConfirmationTimeout = 200 * time.Millisecond

	require.Nil(s.T(), os.WriteFile(s.conf.Deployer.BinaryPath, s.binary, 0644))
}

func (s *DeployerTestSuite) newDeployer(rpc *stubRPC, collector ckb.CellCollector) *Deployer {
	builder, err := ckb.NewBuilder(s.conf)
	require.Nil(s.T(), err)

	return NewDeployer(s.conf).
		WithClient(rpc).
		WithCellCollector(collector).
		WithBuilder(builder).
		WithWallet(s.wallet).
		WithMonitor(monitor_deployer.NewMonitor())
}

// Runs the pipeline to completion and returns the emitted record, nil
// when the pipeline failed
func (s *DeployerTestSuite) runPipeline(deployer *Deployer) *model.DeploymentRecord {
	require.Nil(s.T(), deployer.Start())

	record, ok := <-deployer.Output
	<-deployer.CtxRunning.Done()
	if !ok {
		return nil
	}
	return record
}

func (s *DeployerTestSuite) TestAutoDeploy() {
	s.conf.Deployer.AutoDeploy = true
	rpc := &stubRPC{statuses: []string{ckb.TxStatusPending, ckb.TxStatusCommitted}}

	deployer := s.newDeployer(rpc, &stubCollector{surplus: 2 * ckb.OneCkb})
	record := s.runPipeline(deployer)
	require.NotNil(s.T(), record)
	require.Nil(s.T(), deployer.Err())

	require.Equal(s.T(), rpc.sentHash, record.TxHash)
	require.Equal(s.T(), ckb.CodeHash(s.binary), record.CodeHash)
	require.Equal(s.T(), ckb.HashTypeData, record.HashType)
	require.Equal(s.T(), "testnet", record.Network)
	require.Equal(s.T(), uint64(len(s.binary)), record.BinarySizeBytes)
	require.Equal(s.T(), ckb.HexUint64(0), record.OutPoint.Index)

	// The submitted transaction was signed
	require.NotNil(s.T(), rpc.sent)
	require.Len(s.T(), rpc.sent.Witnesses, 1)

	// The dump on disk carries the witnesses too
	dump := s.loadDump()
	require.Len(s.T(), dump.Witnesses, 1)
}

func (s *DeployerTestSuite) TestManualDeploy() {
	s.conf.Deployer.AutoDeploy = false
	rpc := &stubRPC{statuses: []string{ckb.TxStatusCommitted}}

	record := s.runPipeline(s.newDeployer(rpc, &stubCollector{surplus: 2 * ckb.OneCkb}))
	require.NotNil(s.T(), record)

	// Placeholder hash until finalize supplies the real one
	require.True(s.T(), record.TxHash.IsZero())
	require.Nil(s.T(), rpc.sent)

	dump := s.loadDump()
	require.Empty(s.T(), dump.Witnesses)
	require.Len(s.T(), dump.Outputs, 2)
	require.Equal(s.T(), ckb.HexBytes(s.binary), dump.OutputsData[0])
}

func (s *DeployerTestSuite) TestRejectedIsTerminal() {
	s.conf.Deployer.AutoDeploy = true
	rpc := &stubRPC{statuses: []string{ckb.TxStatusRejected}}

	deployer := s.newDeployer(rpc, &stubCollector{surplus: 2 * ckb.OneCkb})
	record := s.runPipeline(deployer)
	require.Nil(s.T(), record)

	// Rejected after the first poll, no further polling, and the
	// failure is visible to the caller
	require.Equal(s.T(), 1, rpc.calls)
	require.True(s.T(), errors.Is(deployer.Err(), ckb.ErrTransactionRejected))
}

func (s *DeployerTestSuite) TestConfirmationTimeout() {
	s.conf.Deployer.AutoDeploy = true
	s.conf.Deployer.ConfirmationTimeout = 30 * time.Millisecond
	rpc := &stubRPC{statuses: []string{ckb.TxStatusPending}}

	deployer := s.newDeployer(rpc, &stubCollector{surplus: 2 * ckb.OneCkb})
	record := s.runPipeline(deployer)
	require.Nil(s.T(), record)
	require.Greater(s.T(), rpc.calls, 1)
	require.True(s.T(), errors.Is(deployer.Err(), ckb.ErrConfirmationTimeout))
}

func (s *DeployerTestSuite) TestFinalize() {
	expected := ckb.Hash{0xbb}
	rpc := &stubRPC{statuses: []string{ckb.TxStatusCommitted}}

	deployer := s.newDeployer(rpc, &stubCollector{}).WithFinalizeHash(expected)
	record := s.runPipeline(deployer)
	require.NotNil(s.T(), record)

	require.Equal(s.T(), expected, record.TxHash)
	require.Equal(s.T(), expected, rpc.queriedHash)
	require.Equal(s.T(), ckb.CodeHash(s.binary), record.CodeHash)

	// Finalize never rebuilds or submits
	require.Nil(s.T(), rpc.sent)
}

func (s *DeployerTestSuite) TestCollectFailureAbortsPipeline() {
	rpc := &stubRPC{statuses: []string{ckb.TxStatusCommitted}}
	collector := &stubCollector{err: ckb.ErrInsufficientFunds}

	deployer := s.newDeployer(rpc, collector)
	record := s.runPipeline(deployer)
	require.Nil(s.T(), record)
	require.True(s.T(), errors.Is(deployer.Err(), ckb.ErrInsufficientFunds))

	// Nothing was written
	_, err := os.Stat(s.conf.Deployer.TransactionPath)
	require.True(s.T(), os.IsNotExist(err))
}

func (s *DeployerTestSuite) TestMissingBinaryAbortsPipeline() {
	require.Nil(s.T(), os.Remove(s.conf.Deployer.BinaryPath))
	rpc := &stubRPC{statuses: []string{ckb.TxStatusCommitted}}

	record := s.runPipeline(s.newDeployer(rpc, &stubCollector{surplus: ckb.OneCkb}))
	require.Nil(s.T(), record)
}

func (s *DeployerTestSuite) loadDump() *ckb.Transaction {
	content, err := os.ReadFile(s.conf.Deployer.TransactionPath)
	require.Nil(s.T(), err)

	tx := new(ckb.Transaction)
	require.Nil(s.T(), json.Unmarshal(content, tx))
	return tx
}
