package aggregate

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"bundleScope/internal/model"
)

// TokenRegistry maps asset addresses to display metadata.
type TokenRegistry struct {
	mu   sync.RWMutex
	data map[common.Address]model.TokenMeta
}

func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{data: make(map[common.Address]model.TokenMeta)}
}

func (c *TokenRegistry) Get(address common.Address) (model.TokenMeta, bool) {
	c.mu.RLock()
	meta, ok := c.data[address]
	c.mu.RUnlock()
	return meta, ok
}

func (c *TokenRegistry) Set(address common.Address, meta model.TokenMeta) {
	c.mu.Lock()
	c.data[address] = meta
	c.mu.Unlock()
}

// ParseTokenRegistry builds a registry from address -> "SYMBOL:decimals" entries.
func ParseTokenRegistry(entries map[string]string) (*TokenRegistry, error) {
	registry := NewTokenRegistry()
	for address, spec := range entries {
		address = strings.TrimSpace(address)
		if !common.IsHexAddress(address) {
			return nil, fmt.Errorf("invalid token address: %s", address)
		}
		symbol, decimalsText, ok := strings.Cut(spec, ":")
		if !ok {
			return nil, fmt.Errorf("token %s: expected SYMBOL:decimals, got %q", address, spec)
		}
		decimals, err := strconv.ParseUint(strings.TrimSpace(decimalsText), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("token %s: invalid decimals: %w", address, err)
		}
		addr := common.HexToAddress(address)
		registry.Set(addr, model.TokenMeta{
			Address:  addr.Hex(),
			Decimals: uint8(decimals),
			Symbol:   strings.TrimSpace(symbol),
		})
	}
	return registry, nil
}
