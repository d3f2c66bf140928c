package wallet

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrMalformedKey = errors.New("private key must be a 32 byte hex string (64 hex chars)")

// Wallet is the deployer's identity, loaded once from a Neuron wallet
// export. The private key never leaves this process and is never
// written anywhere by it.
type Wallet struct {
	Address    string
	PrivateKey []byte
}

// On-disk format of the Neuron wallet export
type walletFile struct {
	Address       string `json:"address"`
	RawPrivateKey string `json:"rawprivatekey(hex)"`
}

func Load(path string) (self *Wallet, err error) {
	/* #nosec */
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet file: %w", err)
	}

	parsed := new(walletFile)
	err = json.Unmarshal(content, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse wallet file: %w", err)
	}

	if parsed.Address == "" {
		return nil, errors.New("wallet file has no address")
	}

	key, err := normalizeHexKey(parsed.RawPrivateKey)
	if err != nil {
		return nil, err
	}

	self = &Wallet{
		Address:    parsed.Address,
		PrivateKey: key,
	}
	return
}

// Accepts the key with or without the 0x prefix, in any letter case.
// Anything that is not exactly 64 hex chars is rejected before the key
// gets anywhere near signing.
func normalizeHexKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")

	if len(s) != 64 {
		return nil, ErrMalformedKey
	}

	key, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		return nil, ErrMalformedKey
	}

	return key, nil
}
