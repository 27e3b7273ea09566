package discovery

import (
	"os"
	"strconv"

	"github.com/rebeliceyang/lazycms/internal/models"
)

// ApplyEnvironment fills unset connection fields from the libpq PG*
// environment variables, then from built-in defaults
func ApplyEnvironment(config models.ConnectionConfig) models.ConnectionConfig {
	if config.Host == "" {
		config.Host = os.Getenv("PGHOST")
	}
	if config.Port == 0 {
		if p, err := strconv.Atoi(os.Getenv("PGPORT")); err == nil && p > 0 && p <= 65535 {
			config.Port = p
		}
	}
	if config.User == "" {
		config.User = os.Getenv("PGUSER")
	}
	if config.Database == "" {
		config.Database = os.Getenv("PGDATABASE")
	}
	if config.Password == "" {
		config.Password = os.Getenv("PGPASSWORD")
	}
	if config.SSLMode == "" {
		config.SSLMode = os.Getenv("PGSSLMODE")
	}

	if config.Host == "" {
		config.Host = "localhost"
	}
	if config.Port == 0 {
		config.Port = 5432
	}
	if config.User == "" {
		config.User = os.Getenv("USER")
	}
	if config.Database == "" {
		config.Database = config.User
	}
	if config.SSLMode == "" {
		config.SSLMode = "prefer"
	}
	if config.Name == "" {
		config.Name = "Environment"
	}

	return config
}
