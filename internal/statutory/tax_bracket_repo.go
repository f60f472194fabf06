package statutory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=tax_bracket_repo.go -destination=mock/tax_bracket_repo_mock.go -package=mock
type BracketRepository interface {
	ListActive(ctx context.Context) ([]Bracket, error)
	// SeedDefaults inserts brackets only when the table holds none.
	SeedDefaults(ctx context.Context, brackets []Bracket) (bool, error)
}

type bracketRepository struct {
	db *gorm.DB
}

func NewBracketRepository(db *gorm.DB) BracketRepository {
	return &bracketRepository{db: db}
}

func (r *bracketRepository) ListActive(ctx context.Context) ([]Bracket, error) {
	var rows []TaxBracket
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("min_income ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]Bracket, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToBracket())
	}
	return out, nil
}

func (r *bracketRepository) SeedDefaults(ctx context.Context, brackets []Bracket) (bool, error) {
	seeded := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&TaxBracket{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		rows := make([]TaxBracket, 0, len(brackets))
		for _, b := range brackets {
			rows = append(rows, TaxBracket{
				ID:          uuid.New(),
				MinIncome:   b.Min,
				MaxIncome:   b.Max,
				Rate:        b.Rate,
				FixedAmount: b.Fixed,
				Active:      true,
			})
		}
		seeded = true
		return tx.Create(&rows).Error
	})
	return seeded, err
}
