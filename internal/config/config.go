package config

import (
	"fmt"
	"strings"

	"github.com/shopfront/cart_service/pkg/config"
	"github.com/shopfront/cart_service/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig           `koanf:"server"`
	Store      config.StoreConfig          `koanf:"store"`
	Database   config.DatabaseConfig       `koanf:"database"`
	Catalog    CatalogConfig               `koanf:"catalog"`
	Breaker    config.CircuitBreakerConfig `koanf:"circuitbreaker"`
	Log        config.LogConfig            `koanf:"log"`
	PProf      config.PProfConfig          `koanf:"pprof"`
	Nats       config.NATSConfig           `koanf:"nats"`
	Shutdown   config.ShutdownConfig       `koanf:"shutdown"`
}

// ProductSeed describes one catalog entry used to seed the in-memory
// product store. Ignored when the postgres backend is selected.
type ProductSeed struct {
	ID          string `koanf:"id"`
	Name        string `koanf:"name"`
	InStock     bool   `koanf:"inStock"`
	MaxQuantity int64  `koanf:"maxQuantity"`
}

type CatalogConfig struct {
	Products []ProductSeed `koanf:"products"`
}

func (c *CatalogConfig) Validate() error {
	for i, p := range c.Products {
		if p.ID == "" {
			return fmt.Errorf("catalog.products[%d].id is empty", i)
		}
		if p.MaxQuantity < 0 {
			return fmt.Errorf("catalog.products[%d].maxQuantity is negative", i)
		}
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- Server Configuration ---\n")
	b.WriteString(fmt.Sprintf("  server.port: %d\n", c.HTTPServer.Port))
	b.WriteString(fmt.Sprintf("  server.maxHeaderBytes: %d\n", c.HTTPServer.MaxHeaderBytes))
	b.WriteString(fmt.Sprintf("  server.timeout.read: %v\n", c.HTTPServer.Timeout.Read))
	b.WriteString(fmt.Sprintf("  server.timeout.write: %v\n", c.HTTPServer.Timeout.Write))
	b.WriteString(fmt.Sprintf("  server.timeout.idle: %v\n", c.HTTPServer.Timeout.Idle))
	b.WriteString(fmt.Sprintf("  server.timeout.readHeader: %v\n", c.HTTPServer.Timeout.ReadHeader))

	b.WriteString("\n--- Store Configuration ---\n")
	b.WriteString(fmt.Sprintf("  store.backend: %s\n", c.Store.Backend))
	if c.Store.Backend == config.StoreBackendPostgres {
		b.WriteString(fmt.Sprintf("  database.url: %s\n", config.MaskURL(c.Database.URL)))
		b.WriteString(fmt.Sprintf("  database.timeout: %s\n", c.Database.Timeout))
	} else {
		b.WriteString(fmt.Sprintf("  catalog.products: %d\n", len(c.Catalog.Products)))
	}

	b.WriteString("\n--- Messaging ---\n")
	b.WriteString(fmt.Sprintf("  nats.enabled: %t\n", c.Nats.Enabled))
	if c.Nats.Enabled {
		b.WriteString(fmt.Sprintf("  nats.url: %s\n", c.Nats.Url))
		b.WriteString(fmt.Sprintf("  nats.timeout: %s\n", c.Nats.Timeout))
	}

	b.WriteString("\n--- Observability & Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))
	b.WriteString(fmt.Sprintf("  pprof.enabled: %t\n", c.PProf.Enabled))
	b.WriteString(fmt.Sprintf("  pprof.address: %s\n", c.PProf.Addr))

	b.WriteString("\n--- Application Behavior ---\n")
	b.WriteString(fmt.Sprintf("  shutdown.timeout: %s\n", c.Shutdown.Timeout))
	b.WriteString(fmt.Sprintf("  circuitbreaker.consecutivefailures: %d\n", c.Breaker.ConsecutiveFailures))
	b.WriteString(fmt.Sprintf("  circuitbreaker.opentimeout: %s\n", c.Breaker.OpenTimeout))

	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	// The database section only matters for the postgres backend.
	if c.Store.Backend == config.StoreBackendPostgres {
		if err := c.Database.Validate(); err != nil {
			return err
		}
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.Breaker.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Nats.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	return nil
}
