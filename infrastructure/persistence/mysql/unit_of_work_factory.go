package mysql

import (
	"cantina/domain/shared"
	"cantina/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per business flow. The
// instances carry the registered-aggregate list, so handing every request its
// own keeps concurrent transactions from seeing each other's events.
type UnitOfWorkFactory struct {
	db          *gorm.DB
	retryConfig retry.Config
}

func NewUnitOfWorkFactory(db *gorm.DB, retryConfig retry.Config) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		db:          db,
		retryConfig: retryConfig,
	}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.db)
	uow.SetRetryConfig(f.retryConfig)
	return uow
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
