package ckb

import (
	"encoding/binary"
	"fmt"
)

// Canonical molecule encoding of the raw transaction. This is the byte
// layout the network itself hashes, so the transaction hash derived
// from it matches what the chain reports after submission.
//
// Molecule primer: numbers are little endian and fixed width. A fixvec
// is a u32 item count followed by the items (items have a fixed size).
// Tables and dynvecs share one layout: u32 full size, one u32 offset
// per field counted from the start of the header, then the fields.

func putUint32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return buf
}

func putUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}

// Bytes: fixvec of raw bytes
func serializeBytes(data []byte) []byte {
	out := make([]byte, 0, 4+len(data))
	out = append(out, putUint32(uint32(len(data)))...)
	out = append(out, data...)
	return out
}

// Table and dynvec share the same header layout
func serializeTable(fields [][]byte) []byte {
	headerSize := 4 + 4*len(fields)
	fullSize := headerSize
	for _, f := range fields {
		fullSize += len(f)
	}

	out := make([]byte, 0, fullSize)
	out = append(out, putUint32(uint32(fullSize))...)

	offset := headerSize
	for _, f := range fields {
		out = append(out, putUint32(uint32(offset))...)
		offset += len(f)
	}
	for _, f := range fields {
		out = append(out, f...)
	}
	return out
}

func serializeDynVec(items [][]byte) []byte {
	if len(items) == 0 {
		// Header only
		return putUint32(4)
	}
	return serializeTable(items)
}

// Fixvec of fixed-size items
func serializeFixVec(items [][]byte) []byte {
	out := putUint32(uint32(len(items)))
	for _, item := range items {
		out = append(out, item...)
	}
	return out
}

func (self ScriptHashType) moleculeByte() (byte, error) {
	switch self {
	case HashTypeData:
		return 0, nil
	case HashTypeType:
		return 1, nil
	case HashTypeData1:
		return 2, nil
	case HashTypeData2:
		return 4, nil
	}
	return 0, fmt.Errorf("unknown hash type: %s", self)
}

func (self DepType) moleculeByte() (byte, error) {
	switch self {
	case DepTypeCode:
		return 0, nil
	case DepTypeDepGroup:
		return 1, nil
	}
	return 0, fmt.Errorf("unknown dep type: %s", self)
}

func (self *Script) serialize() ([]byte, error) {
	hashType, err := self.HashType.moleculeByte()
	if err != nil {
		return nil, err
	}
	return serializeTable([][]byte{
		self.CodeHash[:],
		{hashType},
		serializeBytes(self.Args),
	}), nil
}

// Struct of 36 fixed bytes
func (self *OutPoint) serialize() []byte {
	out := make([]byte, 0, 36)
	out = append(out, self.TxHash[:]...)
	out = append(out, putUint32(uint32(self.Index))...)
	return out
}

// Struct of 44 fixed bytes
func (self *CellInput) serialize() []byte {
	out := make([]byte, 0, 44)
	out = append(out, putUint64(uint64(self.Since))...)
	out = append(out, self.PreviousOutput.serialize()...)
	return out
}

// Struct of 37 fixed bytes
func (self *CellDep) serialize() ([]byte, error) {
	depType, err := self.DepType.moleculeByte()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 37)
	out = append(out, self.OutPoint.serialize()...)
	out = append(out, depType)
	return out, nil
}

func (self *CellOutput) serialize() ([]byte, error) {
	lock, err := self.Lock.serialize()
	if err != nil {
		return nil, err
	}

	// ScriptOpt: empty when absent
	typeScript := []byte{}
	if self.Type != nil {
		typeScript, err = self.Type.serialize()
		if err != nil {
			return nil, err
		}
	}

	return serializeTable([][]byte{
		putUint64(uint64(self.Capacity)),
		lock,
		typeScript,
	}), nil
}

// SerializeRawTransaction produces the canonical molecule bytes of the
// transaction without its witnesses. Hashing these bytes yields the
// transaction hash.
func SerializeRawTransaction(tx *Transaction) ([]byte, error) {
	cellDeps := make([][]byte, len(tx.CellDeps))
	for i := range tx.CellDeps {
		dep, err := tx.CellDeps[i].serialize()
		if err != nil {
			return nil, err
		}
		cellDeps[i] = dep
	}

	headerDeps := make([][]byte, len(tx.HeaderDeps))
	for i := range tx.HeaderDeps {
		headerDeps[i] = tx.HeaderDeps[i][:]
	}

	inputs := make([][]byte, len(tx.Inputs))
	for i := range tx.Inputs {
		inputs[i] = tx.Inputs[i].serialize()
	}

	outputs := make([][]byte, len(tx.Outputs))
	for i := range tx.Outputs {
		output, err := tx.Outputs[i].serialize()
		if err != nil {
			return nil, err
		}
		outputs[i] = output
	}

	outputsData := make([][]byte, len(tx.OutputsData))
	for i := range tx.OutputsData {
		outputsData[i] = serializeBytes(tx.OutputsData[i])
	}

	return serializeTable([][]byte{
		putUint32(uint32(tx.Version)),
		serializeFixVec(cellDeps),
		serializeFixVec(headerDeps),
		serializeFixVec(inputs),
		serializeDynVec(outputs),
		serializeDynVec(outputsData),
	}), nil
}
