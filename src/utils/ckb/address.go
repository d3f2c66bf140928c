package ckb

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Code hash of the system secp256k1-blake160 sighash lock, identical on
// mainnet and testnet
const SecpBlake160CodeHash = "0x9bd7e06f3ecf4be0f2fcd2188b23f1b9fcc88e5d4b65a8637b17723bbda3cce8"

// Address payload format bytes
const (
	addressFormatFull     = 0x00 // CKB2021: code_hash | hash_type | args
	addressFormatShort    = 0x01 // code hash index | args
	addressFormatFullData = 0x02 // legacy: code_hash | args, hash_type data
	addressFormatFullType = 0x04 // legacy: code_hash | args, hash_type type
)

// DecodeAddress converts a bech32/bech32m encoded address into the lock
// script it stands for. An address that does not decode is an error,
// there is no fallback lock.
func DecodeAddress(address string) (script Script, err error) {
	hrp, data, err := bech32.DecodeNoLimit(address)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrMalformedAddress, err)
		return
	}

	if hrp != "ckb" && hrp != "ckt" {
		err = fmt.Errorf("%w: unknown prefix %s", ErrMalformedAddress, hrp)
		return
	}

	// 5 bit groups -> bytes
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrMalformedAddress, err)
		return
	}

	if len(payload) < 2 {
		err = fmt.Errorf("%w: payload too short", ErrMalformedAddress)
		return
	}

	switch payload[0] {
	case addressFormatShort:
		return decodeShortPayload(payload)
	case addressFormatFull:
		return decodeFullPayload(payload)
	case addressFormatFullData:
		return decodeLegacyFullPayload(payload, HashTypeData)
	case addressFormatFullType:
		return decodeLegacyFullPayload(payload, HashTypeType)
	}

	err = fmt.Errorf("%w: unknown format byte 0x%02x", ErrMalformedAddress, payload[0])
	return
}

func decodeShortPayload(payload []byte) (script Script, err error) {
	// Only the secp256k1-blake160 index is in use for short addresses
	if payload[1] != 0x00 {
		err = fmt.Errorf("%w: unsupported code hash index 0x%02x", ErrMalformedAddress, payload[1])
		return
	}

	args := payload[2:]
	if len(args) != 20 {
		err = fmt.Errorf("%w: short address args must be 20 bytes, got %d", ErrMalformedAddress, len(args))
		return
	}

	codeHash, err := HashFromHex(SecpBlake160CodeHash)
	if err != nil {
		return
	}

	script = Script{
		CodeHash: codeHash,
		HashType: HashTypeType,
		Args:     HexBytes(args),
	}
	return
}

func decodeFullPayload(payload []byte) (script Script, err error) {
	if len(payload) < 34 {
		err = fmt.Errorf("%w: full address payload too short", ErrMalformedAddress)
		return
	}

	var hashType ScriptHashType
	switch payload[33] {
	case 0:
		hashType = HashTypeData
	case 1:
		hashType = HashTypeType
	case 2:
		hashType = HashTypeData1
	case 4:
		hashType = HashTypeData2
	default:
		err = fmt.Errorf("%w: unknown hash type byte 0x%02x", ErrMalformedAddress, payload[33])
		return
	}

	script = Script{
		HashType: hashType,
		Args:     HexBytes(payload[34:]),
	}
	copy(script.CodeHash[:], payload[1:33])
	return
}

func decodeLegacyFullPayload(payload []byte, hashType ScriptHashType) (script Script, err error) {
	if len(payload) < 33 {
		err = fmt.Errorf("%w: full address payload too short", ErrMalformedAddress)
		return
	}

	script = Script{
		HashType: hashType,
		Args:     HexBytes(payload[33:]),
	}
	copy(script.CodeHash[:], payload[1:33])
	return
}
