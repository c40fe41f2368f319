// Package catalog orchestrates menu browsing and menu administration. Writes
// run through the unit of work so restock and availability events land in the
// outbox with the state change.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cantina/domain/catalog"
	"cantina/domain/shared"
	"cantina/pkg/logger"
)

// Service coordinates catalog reads and operator mutations.
type Service struct {
	repo       catalog.Repository
	uowFactory shared.UnitOfWorkFactory
}

// NewService creates the catalog application service.
func NewService(repo catalog.Repository, uowFactory shared.UnitOfWorkFactory) *Service {
	return &Service{repo: repo, uowFactory: uowFactory}
}

// ============================================================================
// DTOs
// ============================================================================

// CreateCafeRequest opens a new cafe owned by the acting cafe owner.
type CreateCafeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}

// CafeResponse is the wire form of a cafe.
type CafeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	OwnerID     string    `json:"owner_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func toCafeResponse(c *catalog.Cafe) *CafeResponse {
	return &CafeResponse{
		ID:          c.ID(),
		Name:        c.Name(),
		Description: c.Description(),
		Address:     c.Address(),
		Phone:       c.Phone(),
		OwnerID:     c.OwnerID(),
		IsActive:    c.IsActive(),
		CreatedAt:   c.CreatedAt(),
	}
}

// CreateItemRequest adds a menu item to a cafe. Price is in minor units.
type CreateItemRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	Price            int64  `json:"price" binding:"required,min=1"`
	Currency         string `json:"currency"`
	MaxDailyQuantity int    `json:"max_daily_quantity" binding:"required,min=0"`
	PreparationTime  int    `json:"preparation_time" binding:"min=0"`
}

// RestockRequest resets an item's stock. A nil quantity means "to the daily
// maximum".
type RestockRequest struct {
	Quantity *int `json:"quantity" binding:"omitempty,min=0"`
}

// ItemResponse is the wire form of a menu item.
type ItemResponse struct {
	ID                string    `json:"id"`
	CafeID            string    `json:"cafe_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Price             int64     `json:"price"`
	Currency          string    `json:"currency"`
	AvailableQuantity int       `json:"available_quantity"`
	MaxDailyQuantity  int       `json:"max_daily_quantity"`
	IsAvailable       bool      `json:"is_available"`
	PreparationTime   int       `json:"preparation_time"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toItemResponse(m *catalog.MenuItem) *ItemResponse {
	return &ItemResponse{
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
		UpdatedAt:         m.UpdatedAt(),
	}
}

// DefaultCurrency is applied when a create request omits the currency.
const DefaultCurrency = "USD"

// ============================================================================
// Browsing
// ============================================================================

// ListCafes returns every active cafe.
func (s *Service) ListCafes(ctx context.Context) ([]*CafeResponse, error) {
	cafes, err := s.repo.FindAllCafes(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]*CafeResponse, 0, len(cafes))
	for _, c := range cafes {
		if !c.IsActive() {
			continue
		}
		responses = append(responses, toCafeResponse(c))
	}
	return responses, nil
}

// GetCafe returns one cafe.
func (s *Service) GetCafe(ctx context.Context, cafeID string) (*CafeResponse, error) {
	cafe, err := s.repo.FindCafe(ctx, cafeID)
	if err != nil {
		return nil, err
	}
	return toCafeResponse(cafe), nil
}

// GetMenu returns the full menu of a cafe, including items currently off.
// Clients filter on is_available for the ordering surface.
func (s *Service) GetMenu(ctx context.Context, cafeID string) ([]*ItemResponse, error) {
	if _, err := s.repo.FindCafe(ctx, cafeID); err != nil {
		return nil, err
	}
	items, err := s.repo.FindItemsByCafe(ctx, cafeID)
	if err != nil {
		return nil, err
	}
	responses := make([]*ItemResponse, 0, len(items))
	for _, m := range items {
		responses = append(responses, toItemResponse(m))
	}
	return responses, nil
}

// GetItem returns one menu item.
func (s *Service) GetItem(ctx context.Context, itemID string) (*ItemResponse, error) {
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// ============================================================================
// Administration
// ============================================================================

// CreateCafe opens a cafe owned by the acting user. Cafe owners only.
func (s *Service) CreateCafe(ctx context.Context, actor shared.Actor, req CreateCafeRequest) (*CafeResponse, error) {
	if !actor.IsCafeOwner() && actor.Role != shared.RoleSuperAdmin {
		return nil, shared.NewForbiddenError("cafe", "only cafe owners can open cafes")
	}

	cafe, err := catalog.NewCafe(uuid.NewString(), req.Name, req.Description, req.Address, req.Phone, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveCafe(ctx, cafe); err != nil {
		return nil, err
	}

	logger.Info("cafe created", zap.String("cafe_id", cafe.ID()), zap.String("owner_id", actor.UserID))
	return toCafeResponse(cafe), nil
}

// CreateItem adds a menu item to a cafe the actor owns. New items start with
// zero stock; a restock puts them on sale.
func (s *Service) CreateItem(ctx context.Context, actor shared.Actor, cafeID string, req CreateItemRequest) (*ItemResponse, error) {
	cafe, err := s.repo.FindCafe(ctx, cafeID)
	if err != nil {
		return nil, err
	}
	if !cafe.IsOwnedBy(actor) {
		return nil, shared.NewForbiddenError("cafe", "cafe belongs to another owner")
	}

	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	item, err := catalog.NewMenuItem(uuid.NewString(), cafeID, req.Name, req.Description,
		shared.NewMoney(req.Price, currency), req.MaxDailyQuantity, req.PreparationTime)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	logger.Info("menu item created", zap.String("item_id", item.ID()), zap.String("cafe_id", cafeID))
	return toItemResponse(item), nil
}

// RestockItem resets an item's stock, clamped to its daily maximum, and puts
// it back on the menu. Omitting the quantity restocks to the maximum.
func (s *Service) RestockItem(ctx context.Context, actor shared.Actor, itemID string, req RestockRequest) (*ItemResponse, error) {
	var restocked *catalog.MenuItem
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		item, err := s.loadOwnedItem(ctx, actor, itemID)
		if err != nil {
			return err
		}

		if req.Quantity != nil {
			err = item.Restock(*req.Quantity)
		} else {
			err = item.RestockToMax()
		}
		if err != nil {
			return err
		}

		if err := s.repo.SaveItem(ctx, item); err != nil {
			return err
		}
		uow.RegisterDirty(item)
		restocked = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("menu item restocked",
		zap.String("item_id", restocked.ID()),
		zap.Int("available_quantity", restocked.AvailableQuantity()))
	return toItemResponse(restocked), nil
}

// ToggleItemAvailability flips an item on or off the menu. Toggling off
// zeroes its stock.
func (s *Service) ToggleItemAvailability(ctx context.Context, actor shared.Actor, itemID string) (*ItemResponse, error) {
	var toggled *catalog.MenuItem
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		item, err := s.loadOwnedItem(ctx, actor, itemID)
		if err != nil {
			return err
		}

		item.ToggleAvailability()

		if err := s.repo.SaveItem(ctx, item); err != nil {
			return err
		}
		uow.RegisterDirty(item)
		toggled = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("menu item availability toggled",
		zap.String("item_id", toggled.ID()),
		zap.Bool("is_available", toggled.IsAvailable()))
	return toItemResponse(toggled), nil
}

func (s *Service) loadOwnedItem(ctx context.Context, actor shared.Actor, itemID string) (*catalog.MenuItem, error) {
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	cafe, err := s.repo.FindCafe(ctx, item.CafeID())
	if err != nil {
		return nil, err
	}
	if !cafe.IsOwnedBy(actor) {
		return nil, shared.NewForbiddenError("menu item", "item belongs to another owner's cafe")
	}
	return item, nil
}
