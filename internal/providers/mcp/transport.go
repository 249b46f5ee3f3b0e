package mcp

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/mark3labs/mcp-go/client"
	mcptransport "github.com/mark3labs/mcp-go/client/transport"
	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/jarvis/internal/core"
)

// transports builds an unstarted client per transport type.
var transports = map[TransportType]func(ServerConfig) (*client.Client, error){
	TransportStdio: func(cfg ServerConfig) (*client.Client, error) {
		return client.NewStdioMCPClient(cfg.Command, envList(cfg.Env), cfg.Args...)
	},
	TransportHTTP: func(cfg ServerConfig) (*client.Client, error) {
		return client.NewStreamableHttpClient(cfg.URL,
			mcptransport.WithHTTPHeaders(maps.Clone(cfg.Headers)),
			mcptransport.WithHTTPBasicClient(remoteHTTPClient()),
		)
	},
	TransportSSE: func(cfg ServerConfig) (*client.Client, error) {
		return client.NewSSEMCPClient(cfg.URL,
			mcptransport.WithHeaders(maps.Clone(cfg.Headers)),
			mcptransport.WithHTTPClient(remoteHTTPClient()),
		)
	},
}

// initialize starts cli and performs the protocol handshake. cli is closed
// when the handshake fails.
func initialize(ctx context.Context, cli *client.Client) (Client, error) {
	if err := cli.Start(ctx); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}

	var req mcpproto.InitializeRequest
	req.Params.ProtocolVersion = mcpproto.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcpproto.Implementation{
		Name:    core.JarvisName,
		Version: core.JarvisVersion,
	}
	if _, err := cli.Initialize(ctx, req); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return cli, nil
}

// envList renders env in KEY=VALUE form, sorted by key.
func envList(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		out = append(out, k+"="+env[k])
	}
	return out
}

// each remote server gets its own connection pool
func remoteHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     time.Minute,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}
