/*
Package order orchestrates the order lifecycle: quoting, checkout, status
updates, and cancellation.

The application service owns no business rules of its own. It loads
aggregates, calls their methods, and runs every multi-write flow inside the
unit of work so the order insert, the stock decrements, and the outbox rows
commit or roll back together. Events are never published from here; the UoW
saves them to the outbox and the worker publishes them after commit.
*/
package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cantina/domain/catalog"
	"cantina/domain/order"
	"cantina/domain/payment"
	"cantina/domain/shared"
	"cantina/pkg/logger"
)

// Service coordinates order flows across the catalog, payment, and order
// subdomains.
type Service struct {
	orderRepo   order.Repository
	catalogRepo catalog.Repository
	gateway     payment.Gateway
	uowFactory  shared.UnitOfWorkFactory
}

// NewService creates the order application service.
func NewService(orderRepo order.Repository, catalogRepo catalog.Repository, gateway payment.Gateway, uowFactory shared.UnitOfWorkFactory) *Service {
	return &Service{
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
		gateway:     gateway,
		uowFactory:  uowFactory,
	}
}

// ============================================================================
// DTOs
// ============================================================================

// LineRequest is one requested menu line.
type LineRequest struct {
	MenuItemID   string `json:"menu_item_id" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
	Instructions string `json:"instructions" binding:"omitempty,max=500"`
}

// QuoteRequest prices an order without placing it.
type QuoteRequest struct {
	CafeID              string        `json:"cafe_id" binding:"required"`
	Items               []LineRequest `json:"items" binding:"required,min=1,dive"`
	SpecialInstructions string        `json:"special_instructions"`
}

// CommitRequest places an order whose payment the client already confirmed.
type CommitRequest struct {
	CafeID               string        `json:"cafe_id" binding:"required"`
	Items                []LineRequest `json:"items" binding:"required,min=1,dive"`
	SpecialInstructions  string        `json:"special_instructions"`
	PaymentMethod        string        `json:"payment_method" binding:"required"`
	PaymentTransactionID string        `json:"payment_transaction_id" binding:"required"`
}

// CreateAtomicRequest places an order and charges it in one call.
type CreateAtomicRequest struct {
	CafeID              string        `json:"cafe_id" binding:"required"`
	Items               []LineRequest `json:"items" binding:"required,min=1,dive"`
	SpecialInstructions string        `json:"special_instructions"`
	PaymentMethod       string        `json:"payment_method" binding:"required"`
}

// UpdateStatusRequest moves an order along the preparation pipeline. The
// kitchen may revise the estimate alongside the transition.
type UpdateStatusRequest struct {
	Status            string `json:"status" binding:"required"`
	EstimatedPrepTime *int   `json:"estimated_prep_time" binding:"omitempty,min=0"`
}

// MoneyResponse is the wire form of a money value.
type MoneyResponse struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func toMoneyResponse(m shared.Money) MoneyResponse {
	return MoneyResponse{Amount: m.Amount(), Currency: m.Currency()}
}

// QuotedLine is one priced line in a quote or order.
type QuotedLine struct {
	MenuItemID   string        `json:"menu_item_id"`
	ItemName     string        `json:"item_name"`
	Quantity     int           `json:"quantity"`
	UnitPrice    MoneyResponse `json:"unit_price"`
	Subtotal     MoneyResponse `json:"subtotal"`
	Instructions string        `json:"instructions,omitempty"`
}

// QuoteResponse is the priced preview of an order.
type QuoteResponse struct {
	CafeID            string        `json:"cafe_id"`
	Items             []QuotedLine  `json:"items"`
	TotalAmount       MoneyResponse `json:"total_amount"`
	EstimatedPrepTime int           `json:"estimated_prep_time"`
}

// OrderResponse is the wire form of an order.
type OrderResponse struct {
	ID                   string        `json:"id"`
	OrderNumber          string        `json:"order_number"`
	CustomerID           string        `json:"customer_id"`
	CafeID               string        `json:"cafe_id"`
	Items                []QuotedLine  `json:"items"`
	TotalAmount          MoneyResponse `json:"total_amount"`
	Status               string        `json:"status"`
	EstimatedPrepTime    int           `json:"estimated_prep_time"`
	PaymentStatus        string        `json:"payment_status"`
	PaymentMethod        string        `json:"payment_method,omitempty"`
	PaymentTransactionID string        `json:"payment_transaction_id,omitempty"`
	SpecialInstructions  string        `json:"special_instructions,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

func toOrderResponse(o *order.Order) *OrderResponse {
	items := make([]QuotedLine, 0, len(o.Items()))
	for _, it := range o.Items() {
		items = append(items, QuotedLine{
			MenuItemID:   it.MenuItemID(),
			ItemName:     it.ItemName(),
			Quantity:     it.Quantity(),
			UnitPrice:    toMoneyResponse(it.UnitPrice()),
			Subtotal:     toMoneyResponse(it.Subtotal()),
			Instructions: it.Instructions(),
		})
	}
	return &OrderResponse{
		ID:                   o.ID(),
		OrderNumber:          o.OrderNumber(),
		CustomerID:           o.CustomerID(),
		CafeID:               o.CafeID(),
		Items:                items,
		TotalAmount:          toMoneyResponse(o.TotalAmount()),
		Status:               string(o.Status()),
		EstimatedPrepTime:    o.EstimatedPrepTime(),
		PaymentStatus:        string(o.PaymentStatus()),
		PaymentMethod:        o.PaymentMethod(),
		PaymentTransactionID: o.PaymentTransactionID(),
		SpecialInstructions:  o.SpecialInstructions(),
		CreatedAt:            o.CreatedAt(),
		UpdatedAt:            o.UpdatedAt(),
	}
}

// pricedLines is the result of validating a request against the live menu.
type pricedLines struct {
	items []order.OrderItem
	eta   int
}

// ============================================================================
// Quoting
// ============================================================================

// Quote validates and prices the requested lines without writing anything.
// The numbers are advisory: stock can move between the quote and checkout,
// which is why checkout re-validates from scratch.
func (s *Service) Quote(ctx context.Context, actor shared.Actor, req QuoteRequest) (*QuoteResponse, error) {
	priced, err := s.validateAndPrice(ctx, req.CafeID, req.Items)
	if err != nil {
		return nil, err
	}

	lines := make([]QuotedLine, 0, len(priced.items))
	total := shared.Zero(priced.items[0].Subtotal().Currency())
	for _, it := range priced.items {
		lines = append(lines, QuotedLine{
			MenuItemID:   it.MenuItemID(),
			ItemName:     it.ItemName(),
			Quantity:     it.Quantity(),
			UnitPrice:    toMoneyResponse(it.UnitPrice()),
			Subtotal:     toMoneyResponse(it.Subtotal()),
			Instructions: it.Instructions(),
		})
		total, err = total.Add(it.Subtotal())
		if err != nil {
			return nil, shared.NewValidationError("order", "total_amount", err.Error())
		}
	}

	return &QuoteResponse{
		CafeID:            req.CafeID,
		Items:             lines,
		TotalAmount:       toMoneyResponse(total),
		EstimatedPrepTime: priced.eta,
	}, nil
}

// validateAndPrice checks the cafe and every line against the live menu and
// snapshots current prices. Read-only; callers that place the order must
// reserve stock separately with conditional decrements.
func (s *Service) validateAndPrice(ctx context.Context, cafeID string, lines []LineRequest) (*pricedLines, error) {
	if len(lines) == 0 {
		return nil, shared.NewValidationError("order", "items", "order must contain at least one item")
	}

	cafe, err := s.catalogRepo.FindCafe(ctx, cafeID)
	if err != nil {
		return nil, err
	}
	if !cafe.IsActive() {
		return nil, catalog.NewCafeNotFoundError(cafeID)
	}

	items := make([]order.OrderItem, 0, len(lines))
	eta := 0
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, shared.NewValidationError("order", "quantity", "quantity must be positive")
		}

		menuItem, err := s.catalogRepo.FindItem(ctx, line.MenuItemID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, catalog.NewItemUnavailableError(line.MenuItemID)
			}
			return nil, err
		}
		if menuItem.CafeID() != cafeID || !menuItem.IsAvailable() {
			return nil, catalog.NewItemUnavailableError(line.MenuItemID)
		}
		if line.Quantity > menuItem.AvailableQuantity() {
			return nil, catalog.NewInsufficientStockError(
				menuItem.ID(), menuItem.Name(), line.Quantity, menuItem.AvailableQuantity())
		}

		item, err := order.NewOrderItem(menuItem.ID(), menuItem.Name(), line.Quantity, menuItem.Price(), line.Instructions)
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		if menuItem.PreparationTime() > eta {
			eta = menuItem.PreparationTime()
		}
	}

	return &pricedLines{items: items, eta: eta}, nil
}

// reserve decrements stock for every line with conditional updates. Runs
// inside the ambient transaction; the first failed line rolls everything back.
func (s *Service) reserve(ctx context.Context, lines []order.OrderItem) error {
	for _, line := range lines {
		err := s.catalogRepo.DecrementStock(ctx, line.MenuItemID(), line.Quantity())
		if err == nil {
			continue
		}
		if errors.Is(err, shared.ErrInsufficientStock) {
			// Re-read for the customer-facing count. Inside the same
			// transaction, so the number is consistent.
			item, findErr := s.catalogRepo.FindItem(ctx, line.MenuItemID())
			if findErr != nil {
				return err
			}
			return catalog.NewInsufficientStockError(
				item.ID(), item.Name(), line.Quantity(), item.AvailableQuantity())
		}
		return err
	}
	return nil
}

// ============================================================================
// Checkout
// ============================================================================

// Commit places an order whose payment the client already confirmed. The
// whole request is re-validated against the live menu; the quote the client
// saw earlier carries no reservation.
func (s *Service) Commit(ctx context.Context, actor shared.Actor, req CommitRequest) (*OrderResponse, error) {
	if !payment.IsAcceptedMethod(req.PaymentMethod) {
		return nil, shared.NewValidationError("order", "payment_method", "unsupported payment method")
	}

	var placed *order.Order
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		priced, err := s.validateAndPrice(ctx, req.CafeID, req.Items)
		if err != nil {
			return err
		}
		if err := s.reserve(ctx, priced.items); err != nil {
			return err
		}

		o, err := order.NewOrder(uuid.NewString(), order.GenerateOrderNumber(),
			actor.UserID, req.CafeID, priced.items, req.SpecialInstructions)
		if err != nil {
			return err
		}
		o.SetEstimatedPrepTime(priced.eta)
		if err := o.MarkPaid(req.PaymentMethod, req.PaymentTransactionID); err != nil {
			return err
		}

		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterNew(o)
		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("order committed",
		zap.String("order_id", placed.ID()),
		zap.String("order_number", placed.OrderNumber()),
		zap.String("cafe_id", placed.CafeID()))
	return toOrderResponse(placed), nil
}

// CreateAtomic validates, charges, and places the order in one call. The
// charge happens before the transaction; if persistence then fails the charge
// is refunded best-effort so the customer is never billed for an order that
// does not exist.
func (s *Service) CreateAtomic(ctx context.Context, actor shared.Actor, req CreateAtomicRequest) (*OrderResponse, error) {
	if !payment.IsAcceptedMethod(req.PaymentMethod) {
		return nil, shared.NewValidationError("order", "payment_method", "unsupported payment method")
	}

	// Price outside the transaction so the charge and the persisted order
	// come from the same snapshot. The authoritative stock check still runs
	// inside via reserve.
	priced, err := s.validateAndPrice(ctx, req.CafeID, req.Items)
	if err != nil {
		return nil, err
	}

	total := shared.Zero(priced.items[0].Subtotal().Currency())
	for _, it := range priced.items {
		total, err = total.Add(it.Subtotal())
		if err != nil {
			return nil, shared.NewValidationError("order", "total_amount", err.Error())
		}
	}

	orderID := uuid.NewString()
	receipt, err := s.gateway.Charge(ctx, req.PaymentMethod, total, orderID)
	if err != nil {
		return nil, err
	}

	var placed *order.Order
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		// The charged lines are reused as-is: re-pricing here could let a
		// menu edit between charge and commit persist a total that differs
		// from the charged amount. Stock safety comes from the conditional
		// decrements in reserve.
		if err := s.reserve(ctx, priced.items); err != nil {
			return err
		}

		o, err := order.NewOrder(orderID, order.GenerateOrderNumber(),
			actor.UserID, req.CafeID, priced.items, req.SpecialInstructions)
		if err != nil {
			return err
		}
		o.SetEstimatedPrepTime(priced.eta)
		if err := o.MarkPaid(receipt.Method, receipt.TransactionID); err != nil {
			return err
		}

		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterNew(o)
		placed = o
		return nil
	})
	if err != nil {
		s.refundAfterFailure(ctx, receipt, total, orderID)
		return nil, err
	}

	logger.Info("order placed with charge",
		zap.String("order_id", placed.ID()),
		zap.String("transaction_id", receipt.TransactionID))
	return toOrderResponse(placed), nil
}

// refundAfterFailure reverses a charge whose order never persisted. Best
// effort: a failed refund is logged for manual reconciliation, the original
// error still reaches the caller.
func (s *Service) refundAfterFailure(ctx context.Context, receipt payment.Receipt, amount shared.Money, orderID string) {
	if err := s.gateway.Refund(ctx, receipt.TransactionID, amount); err != nil {
		logger.Error("refund failed after order persistence failure",
			zap.String("order_id", orderID),
			zap.String("transaction_id", receipt.TransactionID),
			zap.Int64("amount", amount.Amount()),
			zap.Error(err))
		return
	}
	logger.Warn("order persistence failed, charge refunded",
		zap.String("order_id", orderID),
		zap.String("transaction_id", receipt.TransactionID))
}

// ============================================================================
// Queries
// ============================================================================

// GetOrder returns one order. Customers see their own orders; cafe owners see
// orders placed at their cafes; super admins see everything.
func (s *Service) GetOrder(ctx context.Context, actor shared.Actor, orderID string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOrderAccess(ctx, actor, o); err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// ListMyOrders returns every order the actor placed.
func (s *Service) ListMyOrders(ctx context.Context, actor shared.Actor) ([]*OrderResponse, error) {
	orders, err := s.orderRepo.FindByCustomer(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	responses := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, toOrderResponse(o))
	}
	return responses, nil
}

// ListCafeOrders returns the order queue of one cafe, for its owner. An empty
// statusFilter returns every order; otherwise only orders in that status.
func (s *Service) ListCafeOrders(ctx context.Context, actor shared.Actor, cafeID, statusFilter string) ([]*OrderResponse, error) {
	var filter order.OrderStatus
	if statusFilter != "" {
		parsed, ok := order.ParseStatus(statusFilter)
		if !ok {
			return nil, shared.NewValidationError("order", "status", "unknown order status "+statusFilter)
		}
		filter = parsed
	}

	if err := s.authorizeCafeAccess(ctx, actor, cafeID); err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindByCafe(ctx, cafeID)
	if err != nil {
		return nil, err
	}
	responses := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		if filter != "" && o.Status() != filter {
			continue
		}
		responses = append(responses, toOrderResponse(o))
	}
	return responses, nil
}

// ============================================================================
// Lifecycle
// ============================================================================

// UpdateStatus moves an order along the preparation pipeline. Restricted to
// the cafe's owner and super admins.
func (s *Service) UpdateStatus(ctx context.Context, actor shared.Actor, orderID string, req UpdateStatusRequest) (*OrderResponse, error) {
	target, ok := order.ParseStatus(req.Status)
	if !ok {
		return nil, shared.NewValidationError("order", "status", "unknown order status "+req.Status)
	}

	var updated *order.Order
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := s.authorizeCafeAccess(ctx, actor, o.CafeID()); err != nil {
			return err
		}
		if err := o.UpdateStatus(target); err != nil {
			return err
		}
		if req.EstimatedPrepTime != nil {
			o.SetEstimatedPrepTime(*req.EstimatedPrepTime)
		}
		if err := s.orderRepo.Update(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(updated), nil
}

// Cancel withdraws a pending order and returns its stock, atomically. Only
// the customer who placed the order may cancel it.
func (s *Service) Cancel(ctx context.Context, actor shared.Actor, orderID string) (*OrderResponse, error) {
	var cancelled *order.Order
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !o.IsOwnedBy(actor) && actor.Role != shared.RoleSuperAdmin {
			return order.NewNotOwnerError(orderID)
		}
		if err := o.Cancel(); err != nil {
			return err
		}
		for _, line := range o.Items() {
			if err := s.catalogRepo.RestoreStock(ctx, line.MenuItemID(), line.Quantity()); err != nil {
				return err
			}
		}
		if err := s.orderRepo.Update(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("order cancelled",
		zap.String("order_id", cancelled.ID()),
		zap.String("customer_id", cancelled.CustomerID()))
	return toOrderResponse(cancelled), nil
}

// ============================================================================
// Authorization helpers
// ============================================================================

func (s *Service) authorizeOrderAccess(ctx context.Context, actor shared.Actor, o *order.Order) error {
	if o.IsOwnedBy(actor) || actor.Role == shared.RoleSuperAdmin {
		return nil
	}
	if actor.IsCafeOwner() {
		cafe, err := s.catalogRepo.FindCafe(ctx, o.CafeID())
		if err == nil && cafe.IsOwnedBy(actor) {
			return nil
		}
	}
	return order.NewNotOwnerError(o.ID())
}

func (s *Service) authorizeCafeAccess(ctx context.Context, actor shared.Actor, cafeID string) error {
	if actor.Role == shared.RoleSuperAdmin {
		return nil
	}
	cafe, err := s.catalogRepo.FindCafe(ctx, cafeID)
	if err != nil {
		return err
	}
	if !cafe.IsOwnedBy(actor) {
		return shared.NewForbiddenError("cafe", "cafe belongs to another owner")
	}
	return nil
}
