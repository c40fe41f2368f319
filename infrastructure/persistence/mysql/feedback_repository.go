package mysql

import (
	"context"
	"errors"

	"cantina/domain/feedback"
	"cantina/infrastructure/persistence"
	"cantina/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// FeedbackRepository is the GORM implementation of the feedback repository.
type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save inserts one feedback entry. The unique index on order_id backs up the
// service-level existence check under races.
func (r *FeedbackRepository) Save(ctx context.Context, f *feedback.Feedback) error {
	if err := r.getDB(ctx).Create(po.FromFeedbackDomain(f)).Error; err != nil {
		if isDuplicateEntry(err) {
			return feedback.NewAlreadySubmittedError(f.OrderID())
		}
		return err
	}
	return nil
}

func (r *FeedbackRepository) FindByOrder(ctx context.Context, orderID string) (*feedback.Feedback, error) {
	var fbPO po.FeedbackPO
	result := r.getDB(ctx).First(&fbPO, "order_id = ?", orderID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, feedback.NewFeedbackNotFoundError(orderID)
		}
		return nil, result.Error
	}
	return fbPO.ToDomain(), nil
}

func (r *FeedbackRepository) ExistsForOrder(ctx context.Context, orderID string) (bool, error) {
	var count int64
	err := r.getDB(ctx).Model(&po.FeedbackPO{}).Where("order_id = ?", orderID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *FeedbackRepository) FindByCafe(ctx context.Context, cafeID string) ([]*feedback.Feedback, error) {
	return r.findWhere(ctx, "cafe_id = ?", cafeID)
}

func (r *FeedbackRepository) FindByCustomer(ctx context.Context, customerID string) ([]*feedback.Feedback, error) {
	return r.findWhere(ctx, "customer_id = ?", customerID)
}

func (r *FeedbackRepository) findWhere(ctx context.Context, cond string, arg interface{}) ([]*feedback.Feedback, error) {
	var fbPOs []po.FeedbackPO
	if err := r.getDB(ctx).Where(cond, arg).Order("created_at DESC").Find(&fbPOs).Error; err != nil {
		return nil, err
	}
	entries := make([]*feedback.Feedback, len(fbPOs))
	for i, fbPO := range fbPOs {
		entries[i] = fbPO.ToDomain()
	}
	return entries, nil
}

var _ feedback.Repository = (*FeedbackRepository)(nil)
