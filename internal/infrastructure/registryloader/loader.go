// Package registryloader reads extra token list files and feeds them into
// the registry configuration before the registry is built. Files are keyed
// by network identifier; a broken file costs its own tokens, never startup.
package registryloader

import (
	"fmt"
	"os"
	"sort"

	jsoniter "github.com/json-iterator/go"

	"github.com/wearedood/BaseEcosystemTools/internal/app/port"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/registry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LoadTokens parses the configured token list files and returns the
// descriptors that belong to a known network. Tokens with a mismatched
// chain id or a malformed address are skipped with a warning so one bad
// entry cannot block the rest of the file.
func LoadTokens(files map[string]string, networks []entity.NetworkConfig, logger port.Logger) []entity.TokenDescriptor {
	if len(files) == 0 {
		return nil
	}

	networksByIdentifier := make(map[string]entity.NetworkConfig, len(networks))
	for _, network := range networks {
		networksByIdentifier[network.Identifier] = network
	}

	identifiers := make([]string, 0, len(files))
	for identifier := range files {
		identifiers = append(identifiers, identifier)
	}
	sort.Strings(identifiers)

	var tokens []entity.TokenDescriptor
	for _, identifier := range identifiers {
		path := files[identifier]
		network, known := networksByIdentifier[identifier]
		if !known {
			logger.Warn("Token file configured for unknown network identifier, skipping", "identifier", identifier, "path", path)
			continue
		}

		loaded, err := loadTokenFile(path, network)
		if err != nil {
			logger.Warn("Failed to load token file, skipping", "identifier", identifier, "path", path, "error", err)
			continue
		}

		kept := 0
		for _, token := range loaded {
			if token.ChainID != network.ChainID {
				logger.Warn("Token has mismatched chain id, skipping token",
					"path", path, "token_symbol", token.Symbol, "token_address", token.Address,
					"token_chain_id", token.ChainID, "expected_chain_id", network.ChainID)
				continue
			}
			if !registry.IsHexAddress(token.Address) {
				logger.Warn("Token has malformed address, skipping token",
					"path", path, "token_symbol", token.Symbol, "token_address", token.Address)
				continue
			}
			tokens = append(tokens, token)
			kept++
		}
		logger.Info("Loaded tokens from file", "identifier", identifier, "path", path, "count", kept)
	}

	return tokens
}

func loadTokenFile(path string, network entity.NetworkConfig) ([]entity.TokenDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var tokens []entity.TokenDescriptor
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tokens for network %s: %w", network.Identifier, err)
	}
	return tokens, nil
}
