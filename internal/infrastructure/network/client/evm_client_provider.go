package client

import (
	"crypto/ecdsa"
	"fmt"
	"sync"
	"time"

	"github.com/wearedood/BaseEcosystemTools/internal/app/port"
	"github.com/wearedood/BaseEcosystemTools/internal/config"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/registry"
)

// evmClientProvider implements port.ClientProvider. Clients are created
// lazily from the registry's network table and cached by chain id.
type evmClientProvider struct {
	clients map[uint64]port.ChainClient
	mu      sync.Mutex
	reg     *registry.Registry
	opts    Options
	logger  port.Logger
}

// NewEVMClientProvider creates a provider that dials networks from the
// registry using the RPC client configuration. The signer key may be
// nil, which leaves every client read-only.
func NewEVMClientProvider(reg *registry.Registry, cfg *config.Config, signerKey *ecdsa.PrivateKey, logger port.Logger) port.ClientProvider {
	return &evmClientProvider{
		clients: make(map[uint64]port.ChainClient),
		reg:     reg,
		logger:  logger,
		opts: Options{
			DialTimeout:    time.Duration(cfg.RPCClient.DialTimeoutMs) * time.Millisecond,
			CallTimeout:    time.Duration(cfg.RPCClient.CallTimeoutMs) * time.Millisecond,
			RateLimit:      cfg.RPCClient.RateLimit,
			RateBurst:      cfg.RPCClient.BurstLimit,
			ReceiptTimeout: time.Duration(cfg.Dispatch.ReceiptTimeoutMs) * time.Millisecond,
			ReceiptPoll:    time.Duration(cfg.Dispatch.ReceiptPollMs) * time.Millisecond,
			SignerKey:      signerKey,
		},
	}
}

// GetClient returns the cached client for the chain, dialing it on
// first use.
func (p *evmClientProvider) GetClient(chainID uint64) (port.ChainClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cached, exists := p.clients[chainID]; exists {
		return cached, nil
	}

	network, ok := p.reg.Network(chainID)
	if !ok {
		return nil, fmt.Errorf("unknown chain id %d", chainID)
	}

	p.logger.Info("Creating new EVM client", "network", network.Name, "rpc_primary", network.PrimaryRPCURL)
	newClient, err := NewEVMClient(network, p.opts)
	if err != nil {
		p.logger.Error("Failed to create EVM client", "network", network.Name, "error", err)
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", network.Name, err)
	}

	p.clients[chainID] = newClient
	p.logger.Info("Successfully created and cached new EVM client", "network", network.Name)
	return newClient, nil
}

// CloseAll releases every cached client connection.
func (p *evmClientProvider) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for chainID, cached := range p.clients {
		cached.Close()
		delete(p.clients, chainID)
	}
}
