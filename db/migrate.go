package db

import (
	"gorm.io/gorm"

	"github.com/7499karthik/suvidhaa/models"
)

// Migrate runs AutoMigrate for every model the API persists.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Provider{},
		&models.Booking{},
		&models.Contact{},
		&models.Review{},
	)
}
