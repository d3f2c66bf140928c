package common

import (
	"context"

	"github.com/votesecure/deployer/src/utils/config"
)

type contextKey int

const (
	configKey contextKey = iota
)

// Saves config in the context
func SetConfig(ctx context.Context, config *config.Config) context.Context {
	return context.WithValue(ctx, configKey, config)
}

// Gets the config from the context
func GetConfig(ctx context.Context) *config.Config {
	return ctx.Value(configKey).(*config.Config)
}
