package database

import (
	"github.com/m3rciful/ksabot/core/config"
)

// Config holds database connection settings shared across bots.
// It is an alias of config.DatabaseConfig, which is defined in core/config to
// keep this package's logger dependency from forming an import cycle.
type Config = config.DatabaseConfig
