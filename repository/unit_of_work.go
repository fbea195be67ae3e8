package repository

import (
	"context"

	"gorm.io/gorm"
)

type operation func(tx *gorm.DB) error

// UnitOfWork collects the writes made through its repositories and persists
// them in a single transaction. One UnitOfWork serves one request and is not
// safe for concurrent use.
type UnitOfWork struct {
	db      *gorm.DB
	pending []operation
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) enqueue(op operation) {
	u.pending = append(u.pending, op)
}

func (u *UnitOfWork) HasChanges() bool {
	return len(u.pending) > 0
}

// Complete runs every queued write inside one transaction and returns how
// many were applied. On failure nothing is persisted, the queue is kept and
// the error wraps ErrDataAccess.
func (u *UnitOfWork) Complete(ctx context.Context) (int, error) {
	if len(u.pending) == 0 {
		return 0, nil
	}
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range u.pending {
			if err := op(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, dataAccess(err)
	}
	n := len(u.pending)
	u.pending = nil
	return n, nil
}

// Discard drops every queued write.
func (u *UnitOfWork) Discard() {
	u.pending = nil
}
