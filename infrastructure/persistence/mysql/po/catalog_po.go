package po

import (
	"time"

	"cantina/domain/catalog"
	"cantina/domain/shared"
)

// CafePO maps the cafes table.
type CafePO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	Name        string    `gorm:"size:255;not null"`
	Description string    `gorm:"size:500"`
	Address     string    `gorm:"size:255"`
	Phone       string    `gorm:"size:32"`
	OwnerID     string    `gorm:"size:64;index;not null"`
	IsActive    bool      `gorm:"default:true;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (CafePO) TableName() string {
	return "cafes"
}

// MenuItemPO maps the menu_items table. AvailableQuantity is the contended
// column; checkout decrements it with a guarded UPDATE, never read-modify-write.
type MenuItemPO struct {
	ID                string    `gorm:"primaryKey;size:64"`
	CafeID            string    `gorm:"size:64;index;not null"`
	Name              string    `gorm:"size:255;not null"`
	Description       string    `gorm:"size:500"`
	Price             int64     `gorm:"not null"`
	Currency          string    `gorm:"size:3;not null"`
	AvailableQuantity int       `gorm:"not null"`
	MaxDailyQuantity  int       `gorm:"not null"`
	IsAvailable       bool      `gorm:"default:true;not null"`
	PreparationTime   int       `gorm:"not null"`
	Version           int       `gorm:"default:0"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (MenuItemPO) TableName() string {
	return "menu_items"
}

// FromCafeDomain converts the entity to its persistence object.
func FromCafeDomain(c *catalog.Cafe) *CafePO {
	return &CafePO{
		ID:          c.ID(),
		Name:        c.Name(),
		Description: c.Description(),
		Address:     c.Address(),
		Phone:       c.Phone(),
		OwnerID:     c.OwnerID(),
		IsActive:    c.IsActive(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}

// ToDomain rebuilds the cafe entity.
func (p *CafePO) ToDomain() *catalog.Cafe {
	return catalog.RebuildCafeFromDTO(catalog.CafeReconstructionDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Address:     p.Address,
		Phone:       p.Phone,
		OwnerID:     p.OwnerID,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	})
}

// FromMenuItemDomain converts the aggregate to its persistence object.
func FromMenuItemDomain(m *catalog.MenuItem) *MenuItemPO {
	return &MenuItemPO{
		ID:                m.ID(),
		CafeID:            m.CafeID(),
		Name:              m.Name(),
		Description:       m.Description(),
		Price:             m.Price().Amount(),
		Currency:          m.Price().Currency(),
		AvailableQuantity: m.AvailableQuantity(),
		MaxDailyQuantity:  m.MaxDailyQuantity(),
		IsAvailable:       m.IsAvailable(),
		PreparationTime:   m.PreparationTime(),
		Version:           m.Version(),
		CreatedAt:         m.CreatedAt(),
		UpdatedAt:         m.UpdatedAt(),
	}
}

// ToDomain rebuilds the menu item aggregate.
func (p *MenuItemPO) ToDomain() *catalog.MenuItem {
	return catalog.RebuildItemFromDTO(catalog.ItemReconstructionDTO{
		ID:              p.ID,
		CafeID:          p.CafeID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           shared.NewMoney(p.Price, p.Currency),
		AvailableQty:    p.AvailableQuantity,
		MaxDailyQty:     p.MaxDailyQuantity,
		IsAvailable:     p.IsAvailable,
		PreparationTime: p.PreparationTime,
		Version:         p.Version,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	})
}
