package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}

	if c.Pages.TrashRetentionDays <= 0 {
		return fmt.Errorf("pages.trash_retention_days must be > 0 (got %d)", c.Pages.TrashRetentionDays)
	}
	if c.Pages.MaxSubtreeDepth <= 0 {
		return fmt.Errorf("pages.max_subtree_depth must be > 0 (got %d)", c.Pages.MaxSubtreeDepth)
	}

	return nil
}
