package ckb

// Data structures of the CKB transaction model. JSON field names and
// encodings follow the node's RPC conventions: numbers are minimal
// 0x-prefixed hex, byte buffers are raw 0x-prefixed hex.

type ScriptHashType string

const (
	HashTypeData  ScriptHashType = "data"
	HashTypeType  ScriptHashType = "type"
	HashTypeData1 ScriptHashType = "data1"
	HashTypeData2 ScriptHashType = "data2"
)

type DepType string

const (
	DepTypeCode     DepType = "code"
	DepTypeDepGroup DepType = "dep_group"
)

// Lock or type script. The (code_hash, hash_type, args) triple
// identifies the predicate controlling a cell.
type Script struct {
	CodeHash Hash           `json:"code_hash"`
	HashType ScriptHashType `json:"hash_type"`
	Args     HexBytes       `json:"args"`
}

// Reference to a specific output of a specific transaction
type OutPoint struct {
	TxHash Hash      `json:"tx_hash"`
	Index  HexUint64 `json:"index"`
}

type CellInput struct {
	PreviousOutput OutPoint  `json:"previous_output"`
	Since          HexUint64 `json:"since"`
}

type CellOutput struct {
	Capacity HexUint64 `json:"capacity"`
	Lock     Script    `json:"lock"`
	Type     *Script   `json:"type"`
}

type CellDep struct {
	OutPoint OutPoint `json:"out_point"`
	DepType  DepType  `json:"dep_type"`
}

type Transaction struct {
	Version     HexUint64    `json:"version"`
	CellDeps    []CellDep    `json:"cell_deps"`
	HeaderDeps  []Hash       `json:"header_deps"`
	Inputs      []CellInput  `json:"inputs"`
	Outputs     []CellOutput `json:"outputs"`
	OutputsData []HexBytes   `json:"outputs_data"`
	Witnesses   []HexBytes   `json:"witnesses"`
}

// Per-input proof data. Only the lock proof is used by the single
// signature lock, the type proofs stay empty.
type Witness struct {
	Lock       HexBytes `json:"lock"`
	InputType  HexBytes `json:"input_type"`
	OutputType HexBytes `json:"output_type"`
}

// Responses of the node's RPC methods

type TipHeader struct {
	Number HexUint64 `json:"number"`
}

const (
	TxStatusPending   = "pending"
	TxStatusProposed  = "proposed"
	TxStatusCommitted = "committed"
	TxStatusRejected  = "rejected"
	TxStatusUnknown   = "unknown"
)

type TxStatus struct {
	Status string `json:"status"`
}

type TransactionWithStatus struct {
	TxStatus TxStatus `json:"tx_status"`
}

// Query passed to the indexer's get_cells
type SearchKey struct {
	Script     Script           `json:"script"`
	ScriptType string           `json:"script_type"`
	Filter     *SearchKeyFilter `json:"filter,omitempty"`
}

// Additional get_cells constraints, applied by the indexer. Ranges are
// half open: [start, end).
type SearchKeyFilter struct {
	OutputDataLenRange [2]HexUint64 `json:"output_data_len_range"`
}

type LiveCell struct {
	OutPoint OutPoint   `json:"out_point"`
	Output   CellOutput `json:"output"`
}

type LiveCells struct {
	LastCursor string     `json:"last_cursor"`
	Objects    []LiveCell `json:"objects"`
}

// AlwaysUnspendableLock returns the lock of the deployment cell itself.
// The zero code hash matches no script so the cell can never be
// consumed, which makes the deployed code permanent.
func AlwaysUnspendableLock() Script {
	return Script{
		CodeHash: Hash{},
		HashType: HashTypeData,
		Args:     HexBytes{},
	}
}
