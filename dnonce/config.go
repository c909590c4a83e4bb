package dnonce

import "fmt"

// Config carries the deterministic signing configuration
type Config struct {
	SignatureCache uint64 `toml:",omitempty"` // Bound on the ARC signature cache (entries)
}

// DefaultConfig provides the default dnonce configuration
var DefaultConfig = &Config{
	SignatureCache: lruSignatures,
}

// Validate range checks the configuration.
func (c *Config) Validate() error {
	if c.SignatureCache == 0 {
		return fmt.Errorf("signature cache bound must be at least 1")
	}
	return nil
}
