package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/gema-portfolio-api/internal/models"
)

// PortfolioRepository persists derived portfolio snapshots.
type PortfolioRepository interface {
	Get(ctx context.Context, studentID string) (models.Portfolio, error)
	Upsert(ctx context.Context, portfolio *models.Portfolio) error
	LockStudent(ctx context.Context, studentID string) error
}

type portfolioRepository struct {
	db *gorm.DB
}

// NewPortfolioRepository constructs the portfolio repository.
func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

func (r *portfolioRepository) Get(ctx context.Context, studentID string) (models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&portfolio).Error; err != nil {
		return models.Portfolio{}, err
	}
	return portfolio, nil
}

// Upsert replaces the stored snapshot for the portfolio's student.
func (r *portfolioRepository) Upsert(ctx context.Context, portfolio *models.Portfolio) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}},
		UpdateAll: true,
	}).Create(portfolio).Error
}

// LockStudent takes a row lock on the student's profile for the rest of the
// surrounding transaction. Dialects without row locks (SQLite) skip the clause.
func (r *portfolioRepository) LockStudent(ctx context.Context, studentID string) error {
	var profiles []models.StudentProfile
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", studentID).
		Limit(1).
		Find(&profiles).Error
}
