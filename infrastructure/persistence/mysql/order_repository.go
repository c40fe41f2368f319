package mysql

import (
	"context"
	"errors"

	"cantina/domain/order"
	"cantina/domain/shared"
	"cantina/infrastructure/persistence"
	"cantina/infrastructure/persistence/mysql/po"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// mysqlDuplicateEntry is the MySQL error number for unique index violations.
const mysqlDuplicateEntry = 1062

// OrderRepository is the GORM implementation of the order repository.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the
// default connection.
func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save inserts the order and its lines. A duplicate order number comes back
// as a conflict so the caller can regenerate and retry.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	orderPO, itemPOs := po.FromOrderDomain(o)

	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, o, orderPO, itemPOs)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, o, orderPO, itemPOs)
	})
}

func (r *OrderRepository) saveWithTx(tx *gorm.DB, o *order.Order, orderPO *po.OrderPO, itemPOs []po.OrderItemPO) error {
	if err := tx.Create(orderPO).Error; err != nil {
		if isDuplicateEntry(err) {
			return order.NewDuplicateOrderNumberError(o.OrderNumber())
		}
		return err
	}
	if len(itemPOs) > 0 {
		if err := tx.Create(&itemPOs).Error; err != nil {
			return err
		}
	}
	o.MarkPersisted()
	o.IncrementVersionForSave()
	return nil
}

// Update rewrites mutable order fields guarded by the optimistic-lock
// version. Lines are immutable after checkout and are not touched.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	db := r.getDB(ctx)

	result := db.Model(&po.OrderPO{}).
		Where("id = ? AND version = ?", o.ID(), o.Version()).
		Updates(map[string]interface{}{
			"status":                 string(o.Status()),
			"payment_status":         string(o.PaymentStatus()),
			"payment_method":         o.PaymentMethod(),
			"payment_transaction_id": o.PaymentTransactionID(),
			"estimated_prep_time":    o.EstimatedPrepTime(),
			"version":                o.Version() + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}

	o.IncrementVersionForSave()
	return nil
}

// FindByID loads one order with its lines. Items are queried manually, no
// Preload, so the aggregate boundary stays in the domain layer.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	db := r.getDB(ctx)

	var orderPO po.OrderPO
	result := db.First(&orderPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, result.Error
	}

	var itemPOs []po.OrderItemPO
	if err := db.Where("order_id = ?", id).Find(&itemPOs).Error; err != nil {
		return nil, err
	}

	return orderPO.ToDomain(itemPOs), nil
}

// FindByCustomer lists a customer's orders, newest first.
func (r *OrderRepository) FindByCustomer(ctx context.Context, customerID string) ([]*order.Order, error) {
	return r.findWhere(ctx, "customer_id = ?", customerID)
}

// FindByCafe lists a cafe's orders, newest first.
func (r *OrderRepository) FindByCafe(ctx context.Context, cafeID string) ([]*order.Order, error) {
	return r.findWhere(ctx, "cafe_id = ?", cafeID)
}

func (r *OrderRepository) findWhere(ctx context.Context, cond string, arg interface{}) ([]*order.Order, error) {
	db := r.getDB(ctx)

	var orderPOs []po.OrderPO
	if err := db.Where(cond, arg).Order("created_at DESC").Find(&orderPOs).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, len(orderPOs))
	for i, orderPO := range orderPOs {
		var itemPOs []po.OrderItemPO
		if err := db.Where("order_id = ?", orderPO.ID).Find(&itemPOs).Error; err != nil {
			return nil, err
		}
		orders[i] = orderPO.ToDomain(itemPOs)
	}
	return orders, nil
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

var _ order.Repository = (*OrderRepository)(nil)
