package ckb

import (
	"context"
	"fmt"
	"sort"

	"github.com/votesecure/deployer/src/utils/logger"

	"github.com/sirupsen/logrus"
)

// CellCollector picks spendable cells controlled by a lock until their
// summed capacity reaches a target
type CellCollector interface {
	Collect(ctx context.Context, lock Script, target uint64) (*CollectedCells, error)
}

// LiveCellCollector queries the indexer for live cells under the
// deployer's lock and selects the largest ones first, which keeps the
// input count (and therefore the transaction size) small.
type LiveCellCollector struct {
	client *Client
	log    *logrus.Entry

	// Page size of the indexer queries
	pageSize uint64
}

func NewLiveCellCollector(client *Client) (self *LiveCellCollector) {
	self = new(LiveCellCollector)
	self.client = client
	self.log = logger.NewSublogger("cell-collector")
	self.pageSize = 100
	return
}

func (self *LiveCellCollector) Collect(ctx context.Context, lock Script, target uint64) (out *CollectedCells, err error) {
	searchKey := &SearchKey{
		Script:     lock,
		ScriptType: "lock",
		// Only empty-data cells are plain balance, the indexer filters
		// out data-carrying ones
		Filter: &SearchKeyFilter{
			OutputDataLenRange: [2]HexUint64{0, 1},
		},
	}

	// Fetch every live cell under the lock first, selection happens
	// after we know what's available
	var candidates []LiveCell
	cursor := ""
	for {
		var page *LiveCells
		page, err = self.client.GetCells(ctx, searchKey, self.pageSize, cursor)
		if err != nil {
			return nil, fmt.Errorf("live cell query failed: %w", err)
		}

		for _, cell := range page.Objects {
			// Cells carrying a type script are not plain balance,
			// spending them could destroy someone's state
			if cell.Output.Type != nil {
				continue
			}
			candidates = append(candidates, cell)
		}

		if uint64(len(page.Objects)) < self.pageSize || page.LastCursor == "" {
			break
		}
		cursor = page.LastCursor
	}

	// Largest first
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Output.Capacity > candidates[j].Output.Capacity
	})

	out = &CollectedCells{}
	for _, cell := range candidates {
		if out.Capacity >= target {
			break
		}
		out.Inputs = append(out.Inputs, CellInput{
			PreviousOutput: cell.OutPoint,
			Since:          0,
		})
		out.Capacity += uint64(cell.Output.Capacity)
	}

	if out.Capacity < target {
		err = fmt.Errorf("%w: found %d shannons of %d needed",
			ErrInsufficientFunds, out.Capacity, target)
		return nil, err
	}

	out.Lock = lock

	self.log.WithField("inputs", len(out.Inputs)).
		WithField("capacity", FormatCkb(out.Capacity)).
		Debug("Collected live cells")

	return
}
