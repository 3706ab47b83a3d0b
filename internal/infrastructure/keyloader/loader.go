// Package keyloader resolves the optional transaction signing key. The
// environment variable is checked first, then the key file; with neither
// set the toolkit runs read-only and submission stays disabled.
package keyloader

import (
	"bufio"
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/wearedood/BaseEcosystemTools/internal/app/port"
	"github.com/wearedood/BaseEcosystemTools/internal/config"
)

// Load resolves the signing key per the signer configuration. A missing key
// is not an error; the returned key is nil in that case. A key that is
// present but malformed is an error, never silently ignored.
func Load(cfg config.SignerConfig, logger port.Logger) (*ecdsa.PrivateKey, error) {
	if cfg.PrivateKeyEnv != "" {
		if raw := strings.TrimSpace(os.Getenv(cfg.PrivateKeyEnv)); raw != "" {
			key, err := parseKey(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid private key in env %s: %w", cfg.PrivateKeyEnv, err)
			}
			logger.Info("Signing key loaded", "source", "env", "variable", cfg.PrivateKeyEnv)
			return key, nil
		}
	}

	if cfg.PrivateKeyFile != "" {
		raw, err := firstKeyLine(cfg.PrivateKeyFile)
		if err != nil {
			return nil, err
		}
		if raw != "" {
			key, err := parseKey(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid private key in file %s: %w", cfg.PrivateKeyFile, err)
			}
			logger.Info("Signing key loaded", "source", "file", "path", cfg.PrivateKeyFile)
			return key, nil
		}
	}

	logger.Info("No signing key configured, running read-only")
	return nil, nil
}

// parseKey accepts the key hex with or without the 0x prefix.
func parseKey(raw string) (*ecdsa.PrivateKey, error) {
	return crypto.HexToECDSA(strings.TrimPrefix(raw, "0x"))
}

// firstKeyLine returns the first non-blank, non-comment line of the file.
func firstKeyLine(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open key file %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error scanning key file %s: %w", path, err)
	}
	return "", nil
}
