package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Dialer connects to one server.
type Dialer func(ctx context.Context, cfg ServerConfig) (Client, error)

// Dial picks the transport from cfg and connects with it.
func Dial(ctx context.Context, cfg ServerConfig) (Client, error) {
	tType, err := cfg.GetTransport()
	if err != nil {
		return nil, err
	}
	newClient, ok := transports[tType]
	if !ok {
		return nil, fmt.Errorf("unsupported transport %q", tType)
	}
	cli, err := newClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s transport: %w", tType, err)
	}
	return initialize(ctx, cli)
}

// Pool holds one connected client per server name.
type Pool struct {
	dial Dialer

	mu      sync.RWMutex
	clients map[string]*ManagedClient
}

// NewPool uses Dial when dial is nil.
func NewPool(dial Dialer) *Pool {
	if dial == nil {
		dial = Dial
	}
	return &Pool{
		dial:    dial,
		clients: make(map[string]*ManagedClient),
	}
}

// Add connects name and replaces a client already registered under it.
func (p *Pool) Add(ctx context.Context, name string, cfg ServerConfig) (*ManagedClient, error) {
	cli, err := p.dial(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", name, err)
	}
	managed := &ManagedClient{Client: cli, name: name}

	p.mu.Lock()
	old := p.clients[name]
	p.clients[name] = managed
	p.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return managed, nil
}

func (p *Pool) Get(name string) (*ManagedClient, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cli, ok := p.clients[name]
	return cli, ok
}

// Names returns the connected servers in name order.
func (p *Pool) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.clients))
	for name := range p.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close disconnects every server and empties the pool.
func (p *Pool) Close() error {
	p.mu.Lock()
	clients := p.clients
	p.clients = make(map[string]*ManagedClient)
	p.mu.Unlock()

	var errs []error
	for name, cli := range clients {
		if err := cli.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
