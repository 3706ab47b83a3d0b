package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// ChainConfig is the full address book for one network: the network itself,
// its token list, its protocol contracts, and the binding from operation kind
// to the single protocol that serves it.
type ChainConfig struct {
	Network   entity.NetworkConfig            `yaml:"network"`
	Tokens    []entity.TokenDescriptor        `yaml:"tokens"`
	Protocols []entity.ProtocolDescriptor     `yaml:"protocols"`
	Bindings  map[entity.OperationKind]string `yaml:"bindings"`
}

// Config is the explicit input to New. Callers start from DefaultConfig and
// extend or replace chains; nothing in this package mutates it afterwards.
type Config struct {
	Chains []ChainConfig `yaml:"chains"`
}

// AddTokens appends extra token descriptors, routed to their chain by ChainID.
// Tokens for chains not present in the config are dropped.
func (c *Config) AddTokens(tokens ...entity.TokenDescriptor) {
	for _, t := range tokens {
		for i := range c.Chains {
			if c.Chains[i].Network.ChainID == t.ChainID {
				c.Chains[i].Tokens = append(c.Chains[i].Tokens, t)
				break
			}
		}
	}
}

// OverrideEndpoints swaps the RPC endpoints of a configured chain. Empty
// values leave the corresponding default untouched; unknown chain ids are
// ignored.
func (c *Config) OverrideEndpoints(chainID uint64, primary string, fallbacks []string) {
	for i := range c.Chains {
		if c.Chains[i].Network.ChainID != chainID {
			continue
		}
		if primary != "" {
			c.Chains[i].Network.PrimaryRPCURL = primary
		}
		if len(fallbacks) > 0 {
			c.Chains[i].Network.FallbackRPCURLs = fallbacks
		}
		return
	}
}

// Registry answers address and constant lookups for the configured chains.
// It is immutable after construction and safe for concurrent use. The
// canonical protocol key is the contract address (case-insensitive); the
// protocol name is a secondary index kept for readability.
type Registry struct {
	networks        map[uint64]entity.NetworkConfig
	tokensByAddress map[uint64]map[string]entity.TokenDescriptor
	tokensBySymbol  map[uint64]map[string]entity.TokenDescriptor
	tokenOrder      map[uint64][]string
	protosByAddress map[uint64]map[string]entity.ProtocolDescriptor
	protosByName    map[uint64]map[string]entity.ProtocolDescriptor
	protoOrder      map[uint64][]string
	bindings        map[uint64]map[entity.OperationKind]string
}

// New validates cfg and builds the lookup indices. Every address in the
// config must be a well-formed hex address; every binding must reference a
// protocol declared on the same chain.
func New(cfg Config) (*Registry, error) {
	r := &Registry{
		networks:        make(map[uint64]entity.NetworkConfig),
		tokensByAddress: make(map[uint64]map[string]entity.TokenDescriptor),
		tokensBySymbol:  make(map[uint64]map[string]entity.TokenDescriptor),
		tokenOrder:      make(map[uint64][]string),
		protosByAddress: make(map[uint64]map[string]entity.ProtocolDescriptor),
		protosByName:    make(map[uint64]map[string]entity.ProtocolDescriptor),
		protoOrder:      make(map[uint64][]string),
		bindings:        make(map[uint64]map[entity.OperationKind]string),
	}

	for _, chain := range cfg.Chains {
		id := chain.Network.ChainID
		if id == 0 {
			return nil, fmt.Errorf("chain %q: chain id must be non-zero", chain.Network.Name)
		}
		if _, dup := r.networks[id]; dup {
			return nil, fmt.Errorf("chain id %d configured twice", id)
		}
		if chain.Network.PrimaryRPCURL == "" {
			return nil, fmt.Errorf("chain %d: primary RPC URL is required", id)
		}
		r.networks[id] = chain.Network

		r.tokensByAddress[id] = make(map[string]entity.TokenDescriptor, len(chain.Tokens))
		r.tokensBySymbol[id] = make(map[string]entity.TokenDescriptor, len(chain.Tokens))
		for _, tok := range chain.Tokens {
			if !IsHexAddress(tok.Address) {
				return nil, fmt.Errorf("chain %d: token %s has malformed address %q", id, tok.Symbol, tok.Address)
			}
			key := strings.ToLower(tok.Address)
			if _, dup := r.tokensByAddress[id][key]; dup {
				return nil, fmt.Errorf("chain %d: token address %s configured twice", id, tok.Address)
			}
			tok.ChainID = id
			r.tokensByAddress[id][key] = tok
			r.tokensBySymbol[id][strings.ToUpper(tok.Symbol)] = tok
			r.tokenOrder[id] = append(r.tokenOrder[id], key)
		}

		r.protosByAddress[id] = make(map[string]entity.ProtocolDescriptor, len(chain.Protocols))
		r.protosByName[id] = make(map[string]entity.ProtocolDescriptor, len(chain.Protocols))
		for _, proto := range chain.Protocols {
			if !IsHexAddress(proto.Address) {
				return nil, fmt.Errorf("chain %d: protocol %s has malformed address %q", id, proto.Name, proto.Address)
			}
			key := strings.ToLower(proto.Address)
			if _, dup := r.protosByAddress[id][key]; dup {
				return nil, fmt.Errorf("chain %d: protocol address %s configured twice", id, proto.Address)
			}
			proto.ChainID = id
			r.protosByAddress[id][key] = proto
			r.protosByName[id][strings.ToLower(proto.Name)] = proto
			r.protoOrder[id] = append(r.protoOrder[id], key)
		}

		r.bindings[id] = make(map[entity.OperationKind]string, len(chain.Bindings))
		for kind, name := range chain.Bindings {
			if _, ok := r.protosByName[id][strings.ToLower(name)]; !ok {
				return nil, fmt.Errorf("chain %d: binding %s references unknown protocol %q", id, kind, name)
			}
			r.bindings[id][kind] = strings.ToLower(name)
		}
	}

	return r, nil
}

// IsHexAddress reports whether s is a 0x-prefixed 20-byte hex address.
// common.IsHexAddress alone also accepts the unprefixed form, which we reject.
func IsHexAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

// Network returns the configuration of the given chain.
func (r *Registry) Network(chainID uint64) (entity.NetworkConfig, bool) {
	net, ok := r.networks[chainID]
	return net, ok
}

// Networks returns all configured networks ordered by chain id.
func (r *Registry) Networks() []entity.NetworkConfig {
	ids := make([]uint64, 0, len(r.networks))
	for id := range r.networks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	nets := make([]entity.NetworkConfig, 0, len(ids))
	for _, id := range ids {
		nets = append(nets, r.networks[id])
	}
	return nets
}

// Tokens returns a copy of the chain's token list in configuration order.
func (r *Registry) Tokens(chainID uint64) []entity.TokenDescriptor {
	order := r.tokenOrder[chainID]
	tokens := make([]entity.TokenDescriptor, 0, len(order))
	for _, key := range order {
		tokens = append(tokens, r.tokensByAddress[chainID][key])
	}
	return tokens
}

// TokenByAddress resolves a token by its contract address, case-insensitively.
func (r *Registry) TokenByAddress(chainID uint64, address string) (entity.TokenDescriptor, bool) {
	tok, ok := r.tokensByAddress[chainID][strings.ToLower(address)]
	return tok, ok
}

// TokenBySymbol resolves a token by its symbol, case-insensitively.
func (r *Registry) TokenBySymbol(chainID uint64, symbol string) (entity.TokenDescriptor, bool) {
	tok, ok := r.tokensBySymbol[chainID][strings.ToUpper(symbol)]
	return tok, ok
}

// Protocols returns a copy of the chain's protocol list in configuration order.
func (r *Registry) Protocols(chainID uint64) []entity.ProtocolDescriptor {
	order := r.protoOrder[chainID]
	protos := make([]entity.ProtocolDescriptor, 0, len(order))
	for _, key := range order {
		protos = append(protos, r.protosByAddress[chainID][key])
	}
	return protos
}

// ProtocolByAddress resolves a protocol by contract address, the canonical key.
func (r *Registry) ProtocolByAddress(chainID uint64, address string) (entity.ProtocolDescriptor, bool) {
	proto, ok := r.protosByAddress[chainID][strings.ToLower(address)]
	return proto, ok
}

// ProtocolByName resolves a protocol by its configured name, case-insensitively.
func (r *Registry) ProtocolByName(chainID uint64, name string) (entity.ProtocolDescriptor, bool) {
	proto, ok := r.protosByName[chainID][strings.ToLower(name)]
	return proto, ok
}

// ProtocolFor returns the single protocol bound to the operation kind on the
// given chain. A missing chain or binding yields UnsupportedProtocolError so
// callers can surface the gap without inventing fallbacks.
func (r *Registry) ProtocolFor(chainID uint64, kind entity.OperationKind) (entity.ProtocolDescriptor, error) {
	name, ok := r.bindings[chainID][kind]
	if !ok {
		return entity.ProtocolDescriptor{}, &entity.UnsupportedProtocolError{ChainID: chainID, Key: string(kind)}
	}
	proto, ok := r.protosByName[chainID][name]
	if !ok {
		return entity.ProtocolDescriptor{}, &entity.UnsupportedProtocolError{ChainID: chainID, Key: name}
	}
	return proto, nil
}

// ExplorerTxURL renders the explorer link for a transaction hash, when the
// chain has an explorer configured.
func (r *Registry) ExplorerTxURL(chainID uint64, txHash string) (string, bool) {
	net, ok := r.networks[chainID]
	if !ok || net.ExplorerURL == "" {
		return "", false
	}
	return strings.TrimRight(net.ExplorerURL, "/") + "/tx/" + txHash, true
}
