package ckb

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// HexUint64 marshals to the chain's minimal hex encoding, e.g. 0 -> "0x0",
// 256 -> "0x100". No leading zeroes.
type HexUint64 uint64

func (self HexUint64) Hex() string {
	return "0x" + strconv.FormatUint(uint64(self), 16)
}

func (self HexUint64) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.Hex())
}

func (self *HexUint64) UnmarshalJSON(data []byte) error {
	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(s, "0x") {
		return fmt.Errorf("hex number without 0x prefix: %s", s)
	}
	v, err := strconv.ParseUint(s[2:], 16, 64)
	if err != nil {
		return err
	}
	*self = HexUint64(v)
	return nil
}

// HexBytes marshals to raw 0x-prefixed hex. An empty buffer is "0x".
type HexBytes []byte

func (self HexBytes) Hex() string {
	return "0x" + hex.EncodeToString(self)
}

func (self HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.Hex())
}

func (self *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(s, "0x") {
		return fmt.Errorf("hex buffer without 0x prefix: %s", s)
	}
	buf, err := hex.DecodeString(s[2:])
	if err != nil {
		return err
	}
	*self = buf
	return nil
}

// Hash is a 32 byte digest, hex encoded in JSON
type Hash [32]byte

func (self Hash) Hex() string {
	return "0x" + hex.EncodeToString(self[:])
}

func (self Hash) String() string {
	return self.Hex()
}

func (self Hash) IsZero() bool {
	return self == Hash{}
}

func (self Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.Hex())
}

func (self *Hash) UnmarshalJSON(data []byte) error {
	var s string
	err := json.Unmarshal(data, &s)
	if err != nil {
		return err
	}
	h, err := HashFromHex(s)
	if err != nil {
		return err
	}
	*self = h
	return nil
}

func HashFromHex(s string) (h Hash, err error) {
	if !strings.HasPrefix(s, "0x") {
		err = fmt.Errorf("hash without 0x prefix: %s", s)
		return
	}
	buf, err := hex.DecodeString(s[2:])
	if err != nil {
		return
	}
	if len(buf) != len(h) {
		err = fmt.Errorf("hash must be %d bytes, got %d", len(h), len(buf))
		return
	}
	copy(h[:], buf)
	return
}
