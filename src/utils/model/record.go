package model

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/votesecure/deployer/src/utils/ckb"
)

// DeploymentRecord is the persisted summary of one deployment. Created
// once after submission or finalization and never mutated.
type DeploymentRecord struct {
	Id               string             `json:"id"`
	CodeHash         ckb.Hash           `json:"code_hash"`
	HashType         ckb.ScriptHashType `json:"hash_type"`
	TxHash           ckb.Hash           `json:"tx_hash"`
	OutPoint         ckb.OutPoint       `json:"out_point"`
	DeployedAt       time.Time          `json:"deployed_at"`
	DeployedBy       string             `json:"deployed_by"`
	Network          string             `json:"network"`
	BinarySizeBytes  uint64             `json:"binary_size_bytes"`
	CapacityShannons uint64             `json:"capacity_shannons"`
	CapacityCkb      string             `json:"capacity_ckb"`
	RpcUrl           string             `json:"rpc_url"`
	IndexerUrl       string             `json:"indexer_url"`
}

// Layout of the record file handed to the frontend
type recordFile struct {
	Lockscript        *DeploymentRecord `json:"votesecure_lockscript"`
	UsageInstructions map[string]string `json:"usage_instructions"`
}

func (self *DeploymentRecord) Save(path string) (err error) {
	content, err := json.MarshalIndent(&recordFile{
		Lockscript: self,
		UsageInstructions: map[string]string{
			"frontend":  "Import this config in blockchain.js",
			"code_hash": "Reference this in Type Scripts for VoteSecure cells",
			"out_point": "Add as cell dependency in transactions",
		},
	}, "", "  ")
	if err != nil {
		return
	}

	err = os.WriteFile(path, content, 0644)
	if err != nil {
		return fmt.Errorf("failed to write deployment record: %w", err)
	}
	return
}

func LoadRecord(path string) (record *DeploymentRecord, err error) {
	/* #nosec */
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deployment record: %w", err)
	}

	parsed := new(recordFile)
	err = json.Unmarshal(content, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse deployment record: %w", err)
	}
	if parsed.Lockscript == nil {
		return nil, fmt.Errorf("deployment record is missing the lockscript entry")
	}

	return parsed.Lockscript, nil
}
