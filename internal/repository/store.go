package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories the review workflow touches so a single
// decision can be persisted atomically.
type Store interface {
	Activities() ActivityRepository
	Categories() CategoryRepository
	Portfolios() PortfolioRepository
	Profiles() ProfileRepository
	AuditLogs() AuditLogRepository
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore builds a Store backed by the provided gorm handle.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Activities() ActivityRepository { return NewActivityRepository(s.db) }

func (s *gormStore) Categories() CategoryRepository { return NewCategoryRepository(s.db) }

func (s *gormStore) Portfolios() PortfolioRepository { return NewPortfolioRepository(s.db) }

func (s *gormStore) Profiles() ProfileRepository { return NewProfileRepository(s.db) }

func (s *gormStore) AuditLogs() AuditLogRepository { return NewAuditLogRepository(s.db) }

func (s *gormStore) WithinTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
