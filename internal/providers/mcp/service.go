package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/jarvis/internal/core"
	"github.com/sandevgo/jarvis/internal/service/registry"
	"github.com/sandevgo/jarvis/pkg/log"
	concpool "github.com/sourcegraph/conc/pool"
)

const maxParallelConnects = 4

type Timeouts struct {
	Connect  time.Duration
	ToolList time.Duration
	ToolCall time.Duration
}

func NewDefaultTimeouts() *Timeouts {
	return &Timeouts{
		Connect:  30 * time.Second,
		ToolList: 5 * time.Second,
		ToolCall: 2 * time.Minute,
	}
}

type remoteTool struct {
	server string
	tool   mcpproto.Tool
	args   arguments
}

func (t remoteTool) name() string {
	return fmt.Sprintf("%s.%s", t.server, t.tool.Name)
}

// Service connects the configured servers once at startup and exposes
// their tools as registry functions.
type Service struct {
	storage  *FileStorage
	pool     *Pool
	timeouts *Timeouts

	mu    sync.RWMutex
	tools []remoteTool
}

func NewService(storage *FileStorage, pool *Pool) *Service {
	return &Service{
		storage:  storage,
		pool:     pool,
		timeouts: NewDefaultTimeouts(),
	}
}

// Connect starts every enabled server and lists its tools. A server that
// fails is logged and left out.
func (s *Service) Connect(ctx context.Context) error {
	cfg, err := s.storage.Load(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("mcp config has invalid servers")
	}

	names := make([]string, 0, len(cfg.MCPServers))
	for name, srv := range cfg.MCPServers {
		if srv.Disabled {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	p := concpool.NewWithResults[[]remoteTool]().WithMaxGoroutines(maxParallelConnects)
	for _, name := range names {
		srv := cfg.MCPServers[name]
		p.Go(func() []remoteTool {
			return s.connectServer(ctx, name, srv)
		})
	}

	var tools []remoteTool
	for _, res := range p.Wait() {
		tools = append(tools, res...)
	}
	sort.SliceStable(tools, func(i, j int) bool {
		return tools[i].server < tools[j].server
	})

	s.mu.Lock()
	s.tools = tools
	s.mu.Unlock()

	log.FromCtx(ctx).Info().Int("servers", len(names)).Int("tools", len(tools)).Msg("mcp tools loaded")
	return nil
}

func (s *Service) connectServer(ctx context.Context, name string, cfg ServerConfig) []remoteTool {
	logger := log.FromCtx(ctx).With().Str("server", name).Logger()
	logger.Info().
		Str("url", cfg.URL).
		Str("command", cfg.Command).
		Msg("starting mcp server")

	connectCtx, cancel := context.WithTimeout(ctx, s.timeouts.Connect)
	defer cancel()

	cli, err := s.pool.Add(connectCtx, name, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to start mcp server")
		return nil
	}

	listCtx, cancelList := context.WithTimeout(ctx, s.timeouts.ToolList)
	defer cancelList()

	resp, err := cli.ListTools(listCtx, mcpproto.ListToolsRequest{})
	if err != nil {
		logger.Error().Err(err).Msg("failed to list tools")
		return nil
	}

	tools := make([]remoteTool, 0, len(resp.Tools))
	for _, t := range resp.Tools {
		tools = append(tools, remoteTool{server: name, tool: t, args: newArguments(t.InputSchema)})
	}
	logger.Info().Int("tools", len(tools)).Msg("mcp server connected")
	return tools
}

// Specs lists the function specs of every loaded tool.
func (s *Service) Specs() []core.FunctionSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()

	specs := make([]core.FunctionSpec, 0, len(s.tools))
	for _, t := range s.tools {
		specs = append(specs, s.spec(t))
	}
	return specs
}

func (s *Service) spec(t remoteTool) core.FunctionSpec {
	desc := strings.TrimSpace(t.tool.Description)
	if desc == "" {
		desc = fmt.Sprintf("Runs the %s tool of the %s server.", t.tool.Name, t.server)
	}
	return core.FunctionSpec{
		Name:        t.name(),
		Description: desc,
		Argument:    t.args.Describe(),
		Category:    fmt.Sprintf("Remote tools (%s)", t.server),
	}
}

// Register adds the loaded tools to b. Tools whose names clash with an
// earlier registration are skipped.
func (s *Service) Register(ctx context.Context, b *registry.Builder) {
	s.mu.RLock()
	tools := append([]remoteTool(nil), s.tools...)
	s.mu.RUnlock()

	for _, t := range tools {
		handler := registry.FromError(func(ctx context.Context, query string) (string, error) {
			return s.call(ctx, t, query)
		})
		if err := b.Register(s.spec(t), handler); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("tool", t.name()).Msg("skipping mcp tool")
		}
	}
}

func (s *Service) call(ctx context.Context, t remoteTool, query string) (string, error) {
	log.FromCtx(ctx).Info().Str("tool", t.name()).Str("query", query).Msg("executing tool")

	cli, ok := s.pool.Get(t.server)
	if !ok || cli.IsClosed() {
		return "", fmt.Errorf("server %s is not available", t.server)
	}

	args, err := t.args.Map(query)
	if err != nil {
		return "", err
	}

	req := mcpproto.CallToolRequest{}
	req.Params.Name = t.tool.Name
	req.Params.Arguments = args

	tCtx, cancel := context.WithTimeout(ctx, s.timeouts.ToolCall)
	defer cancel()

	res, err := cli.CallTool(tCtx, req)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	for _, content := range res.Content {
		if text, ok := content.(mcpproto.TextContent); ok {
			output.WriteString(text.Text + "\n")
		} else if textPtr, ok := content.(*mcpproto.TextContent); ok {
			output.WriteString(textPtr.Text + "\n")
		}
	}
	out := strings.TrimSpace(output.String())

	if res.IsError {
		return "", fmt.Errorf("tool execution failed: %s", out)
	}
	if out == "" {
		return fmt.Sprintf("%s finished with no output.", t.name()), nil
	}
	return out, nil
}

// Start is a no-op, servers are connected before the registry is built.
func (s *Service) Start(ctx context.Context) error {
	return nil
}

func (s *Service) Shutdown(ctx context.Context) error {
	return s.pool.Close()
}
