package config

import "fmt"

const (
	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"
)

// StoreConfig selects the persistence backend for the cart and product stores.
type StoreConfig struct {
	Backend string `koanf:"backend"`
}

func (c *StoreConfig) Validate() error {
	switch c.Backend {
	case StoreBackendMemory, StoreBackendPostgres:
		return nil
	default:
		return fmt.Errorf("unknown store backend: %q", c.Backend)
	}
}
