package mysql

import (
	"context"
	"errors"

	"cantina/domain/catalog"
	"cantina/domain/shared"
	"cantina/infrastructure/persistence"
	"cantina/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// CatalogRepository is the GORM implementation of the catalog repository.
//
// Stock movement never goes through load-modify-save. DecrementStock issues
// an UPDATE guarded by available_quantity so two concurrent checkouts for the
// last unit cannot both succeed; the row lock serializes them and the guard
// fails the loser.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *CatalogRepository) FindCafe(ctx context.Context, cafeID string) (*catalog.Cafe, error) {
	var cafePO po.CafePO
	result := r.getDB(ctx).First(&cafePO, "id = ?", cafeID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, catalog.NewCafeNotFoundError(cafeID)
		}
		return nil, result.Error
	}
	return cafePO.ToDomain(), nil
}

func (r *CatalogRepository) FindAllCafes(ctx context.Context) ([]*catalog.Cafe, error) {
	var cafePOs []po.CafePO
	if err := r.getDB(ctx).Order("name ASC").Find(&cafePOs).Error; err != nil {
		return nil, err
	}
	cafes := make([]*catalog.Cafe, len(cafePOs))
	for i, cafePO := range cafePOs {
		cafes[i] = cafePO.ToDomain()
	}
	return cafes, nil
}

func (r *CatalogRepository) FindItem(ctx context.Context, itemID string) (*catalog.MenuItem, error) {
	var itemPO po.MenuItemPO
	result := r.getDB(ctx).First(&itemPO, "id = ?", itemID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, catalog.NewItemNotFoundError(itemID)
		}
		return nil, result.Error
	}
	return itemPO.ToDomain(), nil
}

func (r *CatalogRepository) FindItemsByCafe(ctx context.Context, cafeID string) ([]*catalog.MenuItem, error) {
	var itemPOs []po.MenuItemPO
	if err := r.getDB(ctx).Where("cafe_id = ?", cafeID).Order("name ASC").Find(&itemPOs).Error; err != nil {
		return nil, err
	}
	items := make([]*catalog.MenuItem, len(itemPOs))
	for i, itemPO := range itemPOs {
		items[i] = itemPO.ToDomain()
	}
	return items, nil
}

func (r *CatalogRepository) SaveCafe(ctx context.Context, cafe *catalog.Cafe) error {
	return r.getDB(ctx).Save(po.FromCafeDomain(cafe)).Error
}

// SaveItem writes the full item row guarded by the optimistic-lock version.
// Operator mutations (restock, availability) go through here; checkout does
// not, it uses DecrementStock.
func (r *CatalogRepository) SaveItem(ctx context.Context, item *catalog.MenuItem) error {
	db := r.getDB(ctx)
	itemPO := po.FromMenuItemDomain(item)

	if item.Version() == 0 {
		if err := db.Create(itemPO).Error; err != nil {
			return err
		}
		item.IncrementVersionForSave()
		return nil
	}

	result := db.Model(&po.MenuItemPO{}).
		Where("id = ? AND version = ?", item.ID(), item.Version()).
		Updates(map[string]interface{}{
			"name":               itemPO.Name,
			"description":        itemPO.Description,
			"price":              itemPO.Price,
			"currency":           itemPO.Currency,
			"available_quantity": itemPO.AvailableQuantity,
			"max_daily_quantity": itemPO.MaxDailyQuantity,
			"is_available":       itemPO.IsAvailable,
			"preparation_time":   itemPO.PreparationTime,
			"version":            item.Version() + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}

	item.IncrementVersionForSave()
	return nil
}

// DecrementStock reserves qty units with a single conditional UPDATE. A
// missed guard means the item is gone, off the menu, or short on stock.
func (r *CatalogRepository) DecrementStock(ctx context.Context, itemID string, qty int) error {
	if qty <= 0 {
		return shared.NewValidationError("menu item", "quantity", "quantity must be positive")
	}

	result := r.getDB(ctx).Model(&po.MenuItemPO{}).
		Where("id = ? AND is_available = ? AND available_quantity >= ?", itemID, true, qty).
		Update("available_quantity", gorm.Expr("available_quantity - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientStock
	}
	return nil
}

// RestoreStock returns qty units after a cancellation. Unconditional and
// deliberately uncapped.
func (r *CatalogRepository) RestoreStock(ctx context.Context, itemID string, qty int) error {
	if qty <= 0 {
		return shared.NewValidationError("menu item", "quantity", "quantity must be positive")
	}

	result := r.getDB(ctx).Model(&po.MenuItemPO{}).
		Where("id = ?", itemID).
		Update("available_quantity", gorm.Expr("available_quantity + ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return catalog.NewItemNotFoundError(itemID)
	}
	return nil
}

var _ catalog.Repository = (*CatalogRepository)(nil)
