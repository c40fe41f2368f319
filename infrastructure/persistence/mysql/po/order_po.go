// Package po holds persistence objects: plain structs mapped to tables.
// No business logic lives here, and GORM associations are deliberately not
// declared so aggregate boundaries stay in the domain layer.
package po

import (
	"time"

	"cantina/domain/order"
	"cantina/domain/shared"
)

// OrderPO maps the orders table.
type OrderPO struct {
	ID                   string    `gorm:"primaryKey;size:64"`
	OrderNumber          string    `gorm:"size:32;uniqueIndex;not null"`
	CustomerID           string    `gorm:"size:64;index;not null"`
	CafeID               string    `gorm:"size:64;index;not null"`
	Status               string    `gorm:"size:20;not null"`
	TotalAmount          int64     `gorm:"not null"`
	TotalCurrency        string    `gorm:"size:3;not null"`
	EstimatedPrepTime    int       `gorm:"not null"`
	PaymentStatus        string    `gorm:"size:20;not null"`
	PaymentMethod        string    `gorm:"size:20"`
	PaymentTransactionID string    `gorm:"size:64"`
	SpecialInstructions  string    `gorm:"size:500"`
	Version              int       `gorm:"default:0"`
	CreatedAt            time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO maps the order_items table. Prices are snapshots taken at
// checkout, not references into menu_items.
type OrderItemPO struct {
	ID               uint   `gorm:"primaryKey;autoIncrement"`
	OrderID          string `gorm:"size:64;index;not null"`
	MenuItemID       string `gorm:"size:64;not null"`
	ItemName         string `gorm:"size:255;not null"`
	Quantity         int    `gorm:"not null"`
	UnitPrice        int64  `gorm:"not null"`
	UnitCurrency     string `gorm:"size:3;not null"`
	Subtotal         int64  `gorm:"not null"`
	SubtotalCurrency string `gorm:"size:3;not null"`
	Instructions     string `gorm:"size:500"`
}

func (OrderItemPO) TableName() string {
	return "order_items"
}

// FromOrderDomain converts the aggregate to persistence objects.
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO) {
	orderPO := &OrderPO{
		ID:                   o.ID(),
		OrderNumber:          o.OrderNumber(),
		CustomerID:           o.CustomerID(),
		CafeID:               o.CafeID(),
		Status:               string(o.Status()),
		TotalAmount:          o.TotalAmount().Amount(),
		TotalCurrency:        o.TotalAmount().Currency(),
		EstimatedPrepTime:    o.EstimatedPrepTime(),
		PaymentStatus:        string(o.PaymentStatus()),
		PaymentMethod:        o.PaymentMethod(),
		PaymentTransactionID: o.PaymentTransactionID(),
		SpecialInstructions:  o.SpecialInstructions(),
		Version:              o.Version(),
		CreatedAt:            o.CreatedAt(),
		UpdatedAt:            o.UpdatedAt(),
	}

	items := o.Items()
	itemPOs := make([]OrderItemPO, len(items))
	for i, item := range items {
		itemPOs[i] = OrderItemPO{
			OrderID:          o.ID(),
			MenuItemID:       item.MenuItemID(),
			ItemName:         item.ItemName(),
			Quantity:         item.Quantity(),
			UnitPrice:        item.UnitPrice().Amount(),
			UnitCurrency:     item.UnitPrice().Currency(),
			Subtotal:         item.Subtotal().Amount(),
			SubtotalCurrency: item.Subtotal().Currency(),
			Instructions:     item.Instructions(),
		}
	}

	return orderPO, itemPOs
}

// ToDomain rebuilds the aggregate from persistence objects.
func (p *OrderPO) ToDomain(itemPOs []OrderItemPO) *order.Order {
	items := make([]order.ItemReconstructionDTO, len(itemPOs))
	for i, itemPO := range itemPOs {
		items[i] = order.ItemReconstructionDTO{
			MenuItemID:   itemPO.MenuItemID,
			ItemName:     itemPO.ItemName,
			Quantity:     itemPO.Quantity,
			UnitPrice:    shared.NewMoney(itemPO.UnitPrice, itemPO.UnitCurrency),
			Subtotal:     shared.NewMoney(itemPO.Subtotal, itemPO.SubtotalCurrency),
			Instructions: itemPO.Instructions,
		}
	}

	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:                   p.ID,
		OrderNumber:          p.OrderNumber,
		CustomerID:           p.CustomerID,
		CafeID:               p.CafeID,
		Items:                items,
		TotalAmount:          shared.NewMoney(p.TotalAmount, p.TotalCurrency),
		Status:               order.OrderStatus(p.Status),
		EstimatedPrepTime:    p.EstimatedPrepTime,
		PaymentStatus:        order.PaymentStatus(p.PaymentStatus),
		PaymentMethod:        p.PaymentMethod,
		PaymentTransactionID: p.PaymentTransactionID,
		SpecialInstructions:  p.SpecialInstructions,
		Version:              p.Version,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	})
}
