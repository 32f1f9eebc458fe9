package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/7499karthik/suvidhaa/config"
)

// Connect opens the postgres pool for the given configuration. The automatic
// ping is disabled so an unreachable server does not stop the process from
// listening; queries fail per-request until the store comes back.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableAutomaticPing:                     true,
	})
}
