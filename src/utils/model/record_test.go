package model

import (
	"os"
	"path/filepath"
	"time"

	"github.com/votesecure/deployer/src/utils/ckb"

	"github.com/rs/xid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"testing"
)

func TestRecordTestSuite(t *testing.T) {
	suite.Run(t, new(RecordTestSuite))
}

type RecordTestSuite struct {
	suite.Suite
	dir string
}

func (s *RecordTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *RecordTestSuite) record() *DeploymentRecord {
	return &DeploymentRecord{
		Id:               xid.New().String(),
		CodeHash:         ckb.Hash{0x01},
		HashType:         ckb.HashTypeData,
		TxHash:           ckb.Hash{0x02},
		OutPoint:         ckb.OutPoint{TxHash: ckb.Hash{0x02}, Index: 0},
		DeployedAt:       time.Now().UTC().Truncate(time.Second),
		DeployedBy:       "ckt1qyqd5eyygtdmwdr7ge736zw6z0ju6wsw7rssu8fcve",
		Network:          "testnet",
		BinarySizeBytes:  1024,
		CapacityShannons: 109_500_000_000,
		CapacityCkb:      "1095.00000000",
		RpcUrl:           "https://testnet.ckb.dev/rpc",
		IndexerUrl:       "https://testnet.ckb.dev/indexer",
	}
}

func (s *RecordTestSuite) TestSaveLoad() {
	path := filepath.Join(s.dir, "record.json")
	record := s.record()

	require.Nil(s.T(), record.Save(path))

	loaded, err := LoadRecord(path)
	require.Nil(s.T(), err)

	require.True(s.T(), record.DeployedAt.Equal(loaded.DeployedAt))
	loaded.DeployedAt = record.DeployedAt
	require.Equal(s.T(), record, loaded)
}

func (s *RecordTestSuite) TestFileCarriesUsageInstructions() {
	path := filepath.Join(s.dir, "record.json")
	require.Nil(s.T(), s.record().Save(path))

	content, err := os.ReadFile(path)
	require.Nil(s.T(), err)
	require.Contains(s.T(), string(content), "votesecure_lockscript")
	require.Contains(s.T(), string(content), "usage_instructions")
}

func (s *RecordTestSuite) TestLoadMissingEntry() {
	path := filepath.Join(s.dir, "record.json")
	require.Nil(s.T(), os.WriteFile(path, []byte(`{}`), 0644))

	_, err := LoadRecord(path)
	require.NotNil(s.T(), err)
}

func (s *RecordTestSuite) TestHistoryRoundtrip() {
	history, err := OpenHistory(filepath.Join(s.dir, "history"))
	require.Nil(s.T(), err)
	defer history.Close()

	first := s.record()
	second := s.record()
	require.Nil(s.T(), history.Put(first))
	require.Nil(s.T(), history.Put(second))

	records, err := history.List()
	require.Nil(s.T(), err)
	require.Len(s.T(), records, 2)

	// Ids are time ordered
	require.Equal(s.T(), first.Id, records[0].Id)
	require.Equal(s.T(), second.Id, records[1].Id)
}

func (s *RecordTestSuite) TestHistoryOverwriteSameId() {
	history, err := OpenHistory(filepath.Join(s.dir, "history"))
	require.Nil(s.T(), err)
	defer history.Close()

	record := s.record()
	require.Nil(s.T(), history.Put(record))
	record.Network = "mainnet"
	require.Nil(s.T(), history.Put(record))

	records, err := history.List()
	require.Nil(s.T(), err)
	require.Len(s.T(), records, 1)
	require.Equal(s.T(), "mainnet", records[0].Network)
}
