package config

import (
	"time"

	"github.com/spf13/viper"
)

type Ckb struct {
	// Network name, testnet or mainnet. Only used for labeling the
	// deployment record and picking the explorer URL.
	Network string

	// JSON-RPC endpoint of the CKB node
	RpcUrl string

	// JSON-RPC endpoint of the CKB indexer. May equal RpcUrl when the
	// node has the indexer module enabled.
	IndexerUrl string

	// Out point of the dep group cell carrying the secp256k1-blake160
	// lock scripts. Network specific.
	SecpDepGroupTxHash string
	SecpDepGroupIndex  uint32

	// Max time for a single RPC request
	RequestTimeout time.Duration

	// Rate limiting of requests sent to the node
	LimiterRequestsPerSecond float64
	LimiterBurstSize         int

	// How long a committed transaction status is kept in the local cache
	CommittedCacheTTL time.Duration
}

func setCkbDefaults() {
	viper.SetDefault("Ckb.Network", "testnet")
	viper.SetDefault("Ckb.RpcUrl", "https://testnet.ckb.dev/rpc")
	viper.SetDefault("Ckb.IndexerUrl", "https://testnet.ckb.dev/indexer")
	viper.SetDefault("Ckb.SecpDepGroupTxHash", "0x71a7ba8fc96349fea0ed3a5c47992e3b4084b031a42264a018e0072e8172e46c")
	viper.SetDefault("Ckb.SecpDepGroupIndex", "0")
	viper.SetDefault("Ckb.RequestTimeout", "30s")
	viper.SetDefault("Ckb.LimiterRequestsPerSecond", "10")
	viper.SetDefault("Ckb.LimiterBurstSize", "10")
	viper.SetDefault("Ckb.CommittedCacheTTL", "10m")
}
