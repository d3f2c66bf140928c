package report

import (
	"go.uber.org/atomic"
)

type NetworkInfoReport struct {
	TipHeight atomic.Uint64 `json:"tip_height"`
}
