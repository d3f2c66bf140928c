package deploy

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/votesecure/deployer/src/utils/ckb"
)

// writeTransactionDump saves the transaction in node RPC format, the
// dump can be pasted into ckb-cli or a wallet for manual signing.
func writeTransactionDump(tx *ckb.Transaction, path string) (err error) {
	data, err := json.MarshalIndent(tx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize transaction: %w", err)
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write transaction dump: %w", err)
	}
	return
}
