package po

import (
	"time"

	"cantina/domain/feedback"
)

// FeedbackPO maps the order_feedback table. The unique index on OrderID is a
// backstop; the service checks existence before saving so the customer gets a
// clean conflict message instead of a driver error.
type FeedbackPO struct {
	ID         string    `gorm:"primaryKey;size:64"`
	OrderID    string    `gorm:"size:64;uniqueIndex;not null"`
	CustomerID string    `gorm:"size:64;index;not null"`
	CafeID     string    `gorm:"size:64;index;not null"`
	Rating     int       `gorm:"not null"`
	Comment    string    `gorm:"size:1000"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (FeedbackPO) TableName() string {
	return "order_feedback"
}

// FromFeedbackDomain converts the entity to its persistence object.
func FromFeedbackDomain(f *feedback.Feedback) *FeedbackPO {
	return &FeedbackPO{
		ID:         f.ID(),
		OrderID:    f.OrderID(),
		CustomerID: f.CustomerID(),
		CafeID:     f.CafeID(),
		Rating:     f.Rating(),
		Comment:    f.Comment(),
		CreatedAt:  f.CreatedAt(),
	}
}

// ToDomain rebuilds the feedback entity.
func (p *FeedbackPO) ToDomain() *feedback.Feedback {
	return feedback.RebuildFromDTO(feedback.ReconstructionDTO{
		ID:         p.ID,
		OrderID:    p.OrderID,
		CustomerID: p.CustomerID,
		CafeID:     p.CafeID,
		Rating:     p.Rating,
		Comment:    p.Comment,
		CreatedAt:  p.CreatedAt,
	})
}
