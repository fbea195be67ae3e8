package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDataAccess wraps every failure coming from the database.
var ErrDataAccess = errors.New("data access failure")

func dataAccess(err error) error {
	return fmt.Errorf("%w: %w", ErrDataAccess, err)
}

// Repository is the data access surface for one entity type. Reads go to
// the database immediately and report a missing entity as (nil, nil).
// Writes are queued on the owning UnitOfWork until Complete is called.
type Repository[T any] interface {
	GetByID(ctx context.Context, id uint) (*T, error)
	GetEntityWithSpec(ctx context.Context, spec specification.Specification[T]) (*T, error)
	ListAll(ctx context.Context) ([]T, error)
	ListWithSpec(ctx context.Context, spec specification.Specification[T]) ([]T, error)
	Count(ctx context.Context, spec specification.Specification[T]) (int64, error)
	Add(entity *T)
	Update(entity *T)
	Delete(entity *T)
}

type GormRepository[T any] struct {
	uow *UnitOfWork
}

var _ Repository[struct{}] = (*GormRepository[struct{}])(nil)

// For returns the repository for T bound to uow.
func For[T any](uow *UnitOfWork) *GormRepository[T] {
	return &GormRepository[T]{uow: uow}
}

func (r *GormRepository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := r.uow.db.WithContext(ctx).First(&entity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dataAccess(err)
	}
	return &entity, nil
}

func (r *GormRepository[T]) GetEntityWithSpec(ctx context.Context, spec specification.Specification[T]) (*T, error) {
	var entity T
	err := specification.Apply[T](r.uow.db.WithContext(ctx), spec).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dataAccess(err)
	}
	return &entity, nil
}

func (r *GormRepository[T]) ListAll(ctx context.Context) ([]T, error) {
	entities := []T{}
	if err := r.uow.db.WithContext(ctx).Find(&entities).Error; err != nil {
		return nil, dataAccess(err)
	}
	return entities, nil
}

func (r *GormRepository[T]) ListWithSpec(ctx context.Context, spec specification.Specification[T]) ([]T, error) {
	entities := []T{}
	if err := specification.Apply[T](r.uow.db.WithContext(ctx), spec).Find(&entities).Error; err != nil {
		return nil, dataAccess(err)
	}
	return entities, nil
}

func (r *GormRepository[T]) Count(ctx context.Context, spec specification.Specification[T]) (int64, error) {
	var total int64
	if err := specification.ApplyCriteria[T](r.uow.db.WithContext(ctx), spec).Count(&total).Error; err != nil {
		return 0, dataAccess(err)
	}
	return total, nil
}

// Add inserts entity together with its has-many children (order items).
func (r *GormRepository[T]) Add(entity *T) {
	r.uow.enqueue(func(tx *gorm.DB) error {
		return tx.Create(entity).Error
	})
}

// Update saves the entity's own columns; associations are left untouched.
func (r *GormRepository[T]) Update(entity *T) {
	r.uow.enqueue(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(entity).Error
	})
}

func (r *GormRepository[T]) Delete(entity *T) {
	r.uow.enqueue(func(tx *gorm.DB) error {
		return tx.Delete(entity).Error
	})
}
