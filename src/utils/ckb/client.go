package ckb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/votesecure/deployer/src/utils/build_info"
	"github.com/votesecure/deployer/src/utils/config"
	"github.com/votesecure/deployer/src/utils/logger"

	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
	"golang.org/x/time/rate"
)

// Client talks JSON-RPC 2.0 to the CKB node and its indexer
type Client struct {
	client *resty.Client
	config *config.Config
	log    *logrus.Entry

	// Request ids are unique per client instance
	requestId atomic.Uint64

	// Shared by all requests of this client
	limiter *rate.Limiter

	// Committed transactions never change status again, keep them
	// around so the finalize path doesn't hammer the node
	committed *cache.Cache
}

type rpcRequest struct {
	Id      uint64        `json:"id"`
	Jsonrpc string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	Id      uint64          `json:"id"`
	Jsonrpc string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

func NewClient(config *config.Config) (self *Client) {
	self = new(Client)
	self.config = config
	self.log = logger.NewSublogger("ckb-client")

	self.limiter = rate.NewLimiter(rate.Limit(config.Ckb.LimiterRequestsPerSecond), config.Ckb.LimiterBurstSize)
	self.committed = cache.New(config.Ckb.CommittedCacheTTL, config.Ckb.CommittedCacheTTL)

	self.client = resty.New().
		SetTimeout(config.Ckb.RequestTimeout).
		SetHeader("User-Agent", "votesecure/deployer/"+build_info.Version).
		SetHeader("Content-Type", "application/json").
		OnBeforeRequest(self.onRateLimit).
		OnAfterResponse(self.onStatusToError)

	return
}

func (self *Client) onRateLimit(c *resty.Client, req *resty.Request) error {
	return self.limiter.Wait(req.Context())
}

func (self *Client) onStatusToError(c *resty.Client, resp *resty.Response) error {
	// Non-success status code turns into an error
	if resp.IsSuccess() {
		return nil
	}
	self.log.WithField("status", resp.StatusCode()).
		WithField("resp", string(resp.Body())).
		WithField("url", resp.Request.URL).
		Debug("Bad response")
	return fmt.Errorf("unexpected status: %s", resp.Status())
}

func (self *Client) call(ctx context.Context, url, method string, params []interface{}, out interface{}) (err error) {
	if params == nil {
		params = []interface{}{}
	}

	request := rpcRequest{
		Id:      self.requestId.Inc(),
		Jsonrpc: "2.0",
		Method:  method,
		Params:  params,
	}

	response := new(rpcResponse)
	_, err = self.client.R().
		SetContext(ctx).
		SetBody(&request).
		SetResult(response).
		Post(url)
	if err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}

	if response.Error != nil {
		return fmt.Errorf("%s failed: %w", method, response.Error)
	}

	if out != nil {
		err = json.Unmarshal(response.Result, out)
		if err != nil {
			return fmt.Errorf("%s returned an unexpected result: %w", method, err)
		}
	}

	return nil
}

// GetTipHeader fetches the current chain tip. Used as the connectivity
// probe before any deployment work starts.
func (self *Client) GetTipHeader(ctx context.Context) (out *TipHeader, err error) {
	out = new(TipHeader)
	err = self.call(ctx, self.config.Ckb.RpcUrl, "get_tip_header", nil, out)
	if err != nil {
		return nil, err
	}
	return
}

// GetTransaction fetches a transaction's status. A missing transaction
// comes back with status "unknown" rather than an error.
func (self *Client) GetTransaction(ctx context.Context, hash Hash) (out *TransactionWithStatus, err error) {
	if cached, ok := self.committed.Get(hash.Hex()); ok {
		return cached.(*TransactionWithStatus), nil
	}

	var result json.RawMessage
	err = self.call(ctx, self.config.Ckb.RpcUrl, "get_transaction", []interface{}{hash}, &result)
	if err != nil {
		return nil, err
	}

	out = new(TransactionWithStatus)
	if string(result) == "null" {
		out.TxStatus.Status = TxStatusUnknown
		return
	}

	err = json.Unmarshal(result, out)
	if err != nil {
		return nil, fmt.Errorf("get_transaction returned an unexpected result: %w", err)
	}

	if out.TxStatus.Status == TxStatusCommitted {
		self.committed.Set(hash.Hex(), out, cache.DefaultExpiration)
	}

	return
}

// SendTransaction broadcasts the signed transaction and returns the
// hash assigned by the node
func (self *Client) SendTransaction(ctx context.Context, tx *Transaction) (hash Hash, err error) {
	err = self.call(ctx, self.config.Ckb.RpcUrl, "send_transaction", []interface{}{tx, "passthrough"}, &hash)
	return
}

// GetCells pages through the indexer's live cells matching the search key
func (self *Client) GetCells(ctx context.Context, searchKey *SearchKey, limit uint64, cursor string) (out *LiveCells, err error) {
	params := []interface{}{searchKey, "asc", HexUint64(limit).Hex()}
	if cursor != "" {
		params = append(params, cursor)
	}

	out = new(LiveCells)
	err = self.call(ctx, self.config.Ckb.IndexerUrl, "get_cells", params, out)
	if err != nil {
		return nil, err
	}
	return
}
