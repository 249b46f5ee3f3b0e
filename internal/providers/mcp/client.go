package mcp

import (
	"context"
	"sync"
	"sync/atomic"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
)

// Client is the part of an MCP client the service uses.
type Client interface {
	ListTools(ctx context.Context, req mcpproto.ListToolsRequest) (*mcpproto.ListToolsResult, error)
	CallTool(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error)
	Close() error
}

// ManagedClient is a named Client whose Close runs at most once.
type ManagedClient struct {
	Client
	name string

	closeOnce sync.Once
	closed    atomic.Bool
	closeErr  error
}

func (mc *ManagedClient) Name() string { return mc.name }

func (mc *ManagedClient) Close() error {
	mc.closeOnce.Do(func() {
		mc.closed.Store(true)
		if mc.Client != nil {
			mc.closeErr = mc.Client.Close()
		}
	})
	return mc.closeErr
}

func (mc *ManagedClient) IsClosed() bool { return mc.closed.Load() }
