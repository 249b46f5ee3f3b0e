package mcp

import (
	"context"
	"errors"
	"sync"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
)

type fakeClient struct {
	mu      sync.Mutex
	tools   []mcpproto.Tool
	listErr error
	callFn  func(req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error)
	calls   []mcpproto.CallToolRequest
	closed  int
}

func (f *fakeClient) ListTools(ctx context.Context, req mcpproto.ListToolsRequest) (*mcpproto.ListToolsResult, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &mcpproto.ListToolsResult{Tools: f.tools}, nil
}

func (f *fakeClient) CallTool(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.callFn == nil {
		return &mcpproto.CallToolResult{}, nil
	}
	return f.callFn(req)
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeClient) Calls() []mcpproto.CallToolRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mcpproto.CallToolRequest(nil), f.calls...)
}

var errConnect = errors.New("connect refused")

// fakeDialer serves clients keyed by the server command or url.
func fakeDialer(clients map[string]*fakeClient) Dialer {
	return func(ctx context.Context, cfg ServerConfig) (Client, error) {
		if _, err := cfg.GetTransport(); err != nil {
			return nil, err
		}
		key := cfg.Command
		if cfg.URL != "" {
			key = cfg.URL
		}
		cli, ok := clients[key]
		if !ok {
			return nil, errConnect
		}
		return cli, nil
	}
}

func textResult(text string) *mcpproto.CallToolResult {
	return &mcpproto.CallToolResult{Content: []mcpproto.Content{mcpproto.TextContent{Type: "text", Text: text}}}
}

func schema(required []string, props map[string]any) mcpproto.ToolInputSchema {
	return mcpproto.ToolInputSchema{Type: "object", Properties: props, Required: required}
}
