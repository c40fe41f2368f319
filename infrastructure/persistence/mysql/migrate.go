package mysql

import (
	"fmt"

	"cantina/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every persistence object.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&po.CafePO{},
		&po.MenuItemPO{},
		&po.OrderPO{},
		&po.OrderItemPO{},
		&po.FeedbackPO{},
		&po.OutboxEventPO{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
