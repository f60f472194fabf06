package statutory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TaxBracket struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MinIncome   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	MaxIncome   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"` // 0 = open ended
	Rate        decimal.Decimal `gorm:"type:numeric(6,4);not null"`
	FixedAmount decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Active      bool            `gorm:"not null;default:true;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (TaxBracket) TableName() string { return "tax_brackets" }

func (t TaxBracket) ToBracket() Bracket {
	return Bracket{Min: t.MinIncome, Max: t.MaxIncome, Rate: t.Rate, Fixed: t.FixedAmount}
}
