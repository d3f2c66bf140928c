package report

import (
	"go.uber.org/atomic"
)

type DeployerErrors struct {
	RpcError             atomic.Uint64 `json:"rpc_error"`
	CollectError         atomic.Uint64 `json:"collect_error"`
	BuildError           atomic.Uint64 `json:"build_error"`
	SignError            atomic.Uint64 `json:"sign_error"`
	SubmitError          atomic.Uint64 `json:"submit_error"`
	ConfirmationRejected atomic.Uint64 `json:"confirmation_rejected"`
	ConfirmationTimeout  atomic.Uint64 `json:"confirmation_timeout"`
	PersistError         atomic.Uint64 `json:"persist_error"`
}

type DeployerState struct {
	DeploymentsStarted     atomic.Uint64 `json:"deployments_started"`
	TransactionsBuilt      atomic.Uint64 `json:"transactions_built"`
	TransactionsSigned     atomic.Uint64 `json:"transactions_signed"`
	TransactionsSubmitted  atomic.Uint64 `json:"transactions_submitted"`
	ConfirmationsCommitted atomic.Uint64 `json:"confirmations_committed"`
	RecordsSaved           atomic.Uint64 `json:"records_saved"`
}

type DeployerReport struct {
	State  DeployerState  `json:"state"`
	Errors DeployerErrors `json:"errors"`
}
