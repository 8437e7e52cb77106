package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates all entity repositories.
type Repository struct {
	db *gorm.DB

	User          UserRepository
	Rank          RankRepository
	Unit          UnitRepository
	Event         EventRepository
	Certification CertificationRepository
	Promotion     PromotionRepository
}

// NewRepository creates the repository aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		User:          NewUserRepo(db),
		Rank:          NewRankRepo(db),
		Unit:          NewUnitRepo(db),
		Event:         NewEventRepo(db),
		Certification: NewCertificationRepo(db),
		Promotion:     NewPromotionRepo(db),
	}
}

// BeginTx starts a database transaction. Returns a nil tx when the
// aggregate was built without a database (mock-backed tests); callers
// must guard Commit/Rollback on nil.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx returns a repository aggregate bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
