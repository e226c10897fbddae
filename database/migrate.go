package database

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-reservation/models"
)

// Migrate creates or updates the schema for every persisted model.
func Migrate(db *gorm.DB, logger logrus.FieldLogger) error {
	if err := db.AutoMigrate(&models.Table{}, &models.Reservation{}); err != nil {
		return err
	}
	logger.Info("AutoMigrate completed.")
	return nil
}
