package ckb

import (
	"encoding/json"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"testing"
)

func TestHexTestSuite(t *testing.T) {
	suite.Run(t, new(HexTestSuite))
}

type HexTestSuite struct {
	suite.Suite
}

// Numbers use minimal hex, no leading zeroes
func (s *HexTestSuite) TestMinimalHex() {
	require.Equal(s.T(), "0x0", HexUint64(0).Hex())
	require.Equal(s.T(), "0x1", HexUint64(1).Hex())
	require.Equal(s.T(), "0xff", HexUint64(255).Hex())
	require.Equal(s.T(), "0x2540be400", HexUint64(10_000_000_000).Hex())
}

func (s *HexTestSuite) TestHexUint64Roundtrip() {
	var out HexUint64
	require.Nil(s.T(), json.Unmarshal([]byte(`"0x1a2b"`), &out))
	require.Equal(s.T(), HexUint64(0x1a2b), out)

	data, err := json.Marshal(out)
	require.Nil(s.T(), err)
	require.Equal(s.T(), `"0x1a2b"`, string(data))
}

func (s *HexTestSuite) TestHexBytesEmpty() {
	data, err := json.Marshal(HexBytes{})
	require.Nil(s.T(), err)
	require.Equal(s.T(), `"0x"`, string(data))

	var out HexBytes
	require.Nil(s.T(), json.Unmarshal([]byte(`"0x"`), &out))
	require.Empty(s.T(), out)
}

func (s *HexTestSuite) TestHashFromHex() {
	hash, err := HashFromHex("0x9bd7e06f3ecf4be0f2fcd2188b23f1b9fcc88e5d4b65a8637b17723bbda3cce8")
	require.Nil(s.T(), err)
	require.Equal(s.T(), "0x9bd7e06f3ecf4be0f2fcd2188b23f1b9fcc88e5d4b65a8637b17723bbda3cce8", hash.Hex())
	require.False(s.T(), hash.IsZero())
}

func (s *HexTestSuite) TestHashFromHexRejectsBadInput() {
	_, err := HashFromHex("9bd7e06f")
	require.NotNil(s.T(), err)

	_, err = HashFromHex("0x1234")
	require.NotNil(s.T(), err)
}

func (s *HexTestSuite) TestZeroHash() {
	var hash Hash
	require.True(s.T(), hash.IsZero())
	require.Equal(s.T(), "0x0000000000000000000000000000000000000000000000000000000000000000", hash.Hex())
}
