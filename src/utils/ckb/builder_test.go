package ckb

import (
	"encoding/json"
	"errors"

	"github.com/votesecure/deployer/src/utils/config"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"testing"
)

func TestBuilderTestSuite(t *testing.T) {
	suite.Run(t, new(BuilderTestSuite))
}

type BuilderTestSuite struct {
	suite.Suite
	builder *Builder
	lock    Script
}

func (s *BuilderTestSuite) SetupSuite() {
	var err error
	s.builder, err = NewBuilder(config.Default())
	require.Nil(s.T(), err)

	codeHash, err := HashFromHex(SecpBlake160CodeHash)
	require.Nil(s.T(), err)
	s.lock = Script{
		CodeHash: codeHash,
		HashType: HashTypeType,
		Args:     make(HexBytes, 20),
	}
}

func (s *BuilderTestSuite) collected(capacity uint64) *CollectedCells {
	return &CollectedCells{
		Inputs: []CellInput{
			{PreviousOutput: OutPoint{TxHash: Hash{0x01}, Index: 0}, Since: 0},
		},
		Capacity: capacity,
		Lock:     s.lock,
	}
}

func (s *BuilderTestSuite) TestBuild() {
	payload := make([]byte, 100)
	required := uint64(171 * OneCkb)
	fee := uint64(1000)

	tx, err := s.builder.Build(payload, required, s.collected(required+2*OneCkb+fee), fee)
	require.Nil(s.T(), err)

	require.Len(s.T(), tx.Outputs, 2)
	require.Len(s.T(), tx.OutputsData, 2)

	// Deployment cell
	require.Equal(s.T(), HexUint64(required), tx.Outputs[0].Capacity)
	require.Equal(s.T(), AlwaysUnspendableLock(), tx.Outputs[0].Lock)
	require.Nil(s.T(), tx.Outputs[0].Type)
	require.Equal(s.T(), HexBytes(payload), tx.OutputsData[0])

	// Change cell
	require.Equal(s.T(), HexUint64(2*OneCkb), tx.Outputs[1].Capacity)
	require.Equal(s.T(), s.lock, tx.Outputs[1].Lock)
	require.Nil(s.T(), tx.Outputs[1].Type)
	require.Empty(s.T(), tx.OutputsData[1])

	// One dep group reference, no header deps, no witnesses yet
	require.Len(s.T(), tx.CellDeps, 1)
	require.Equal(s.T(), DepTypeDepGroup, tx.CellDeps[0].DepType)
	require.Empty(s.T(), tx.HeaderDeps)
	require.Empty(s.T(), tx.Witnesses)
}

func (s *BuilderTestSuite) TestChangeCoversFee() {
	payload := make([]byte, 100)
	required := uint64(171 * OneCkb)
	fee := uint64(1000)

	// Inputs carry two spare CKB, the fee comes out of the change
	tx, err := s.builder.Build(payload, required, s.collected(required+2*OneCkb), fee)
	require.Nil(s.T(), err)
	require.Equal(s.T(), HexUint64(2*OneCkb-1000), tx.Outputs[1].Capacity)
}

func (s *BuilderTestSuite) TestChangeConservation() {
	required := uint64(71 * OneCkb)
	fee := uint64(1000)
	input := required + 12345678

	tx, err := s.builder.Build([]byte{0x01}, required, s.collected(input), fee)
	require.Nil(s.T(), err)

	total := uint64(tx.Outputs[0].Capacity) + uint64(tx.Outputs[1].Capacity) + fee
	require.Equal(s.T(), input, total)
}

func (s *BuilderTestSuite) TestExactFundsZeroChange() {
	required := uint64(71 * OneCkb)
	fee := uint64(1000)

	tx, err := s.builder.Build([]byte{0x01}, required, s.collected(required+fee), fee)
	require.Nil(s.T(), err)
	require.Equal(s.T(), HexUint64(0), tx.Outputs[1].Capacity)
}

func (s *BuilderTestSuite) TestInsufficientFunds() {
	required := uint64(71 * OneCkb)
	fee := uint64(1000)

	// One shannon short of required + fee
	_, err := s.builder.Build([]byte{0x01}, required, s.collected(required+fee-1), fee)
	require.True(s.T(), errors.Is(err, ErrInsufficientFunds))
}

func (s *BuilderTestSuite) TestBadDepGroupHashRejected() {
	conf := config.Default()
	conf.Ckb.SecpDepGroupTxHash = "not-a-hash"
	_, err := NewBuilder(conf)
	require.NotNil(s.T(), err)
}

// The node consumes minimal hex numbers and raw hex buffers
func (s *BuilderTestSuite) TestJsonEncoding() {
	required := uint64(71 * OneCkb)
	tx, err := s.builder.Build([]byte{0xab}, required, s.collected(required+1000), 1000)
	require.Nil(s.T(), err)

	data, err := json.Marshal(tx)
	require.Nil(s.T(), err)

	var decoded map[string]interface{}
	require.Nil(s.T(), json.Unmarshal(data, &decoded))

	require.Equal(s.T(), "0x0", decoded["version"])

	outputs := decoded["outputs"].([]interface{})
	deployment := outputs[0].(map[string]interface{})
	require.Equal(s.T(), "0x1a7316700", deployment["capacity"])

	outputsData := decoded["outputs_data"].([]interface{})
	require.Equal(s.T(), "0xab", outputsData[0])
	require.Equal(s.T(), "0x", outputsData[1])
}
