package models

import (
	"time"

	"gorm.io/gorm"
)

// Sale is one recorded transaction against a stock item.
//
// FruitName and FruitPriceWhenSold are snapshots taken when the sale is
// created; renaming, repricing or deleting the fruit afterwards never
// changes them. Deleting the fruit only nulls the FruitID reference.
//
// The composite unique index closes the check-then-insert race on
// duplicate detection: two concurrent uploads of the same row cannot both
// land, the second create fails and is treated as the duplicate case.
type Sale struct {
	ID      uint   `gorm:"primaryKey"`
	FruitID *uint  `gorm:"index"`
	Fruit   *Fruit `gorm:"constraint:OnDelete:SET NULL"`

	FruitName string `gorm:"size:100;not null;uniqueIndex:idx_sale_identity"`
	Quantity  int64  `gorm:"not null;default:0;uniqueIndex:idx_sale_identity"`

	// Float rather than integer: CSV-imported sales derive the unit price
	// as proceeds divided by quantity, which may be fractional.
	FruitPriceWhenSold float64

	Proceeds int64     `gorm:"uniqueIndex:idx_sale_identity"`
	SoldOn   time.Time `gorm:"not null;index;uniqueIndex:idx_sale_identity"`
}

// BeforeCreate snapshots the fruit name, mirroring the catalog record at
// creation time only. Updates never touch it.
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.FruitName == "" && s.Fruit != nil {
		s.FruitName = s.Fruit.Name
	}
	return nil
}

// RetrieveFruitPrice snapshots the current catalog price. Call only at
// creation; later recomputations must keep the stored snapshot.
func (s *Sale) RetrieveFruitPrice() {
	if s.Fruit != nil {
		s.FruitPriceWhenSold = float64(s.Fruit.Price)
	}
}

// CalculateProceeds derives proceeds from the snapshot price, never from
// the catalog's current price.
func (s *Sale) CalculateProceeds() {
	s.Proceeds = int64(s.FruitPriceWhenSold * float64(s.Quantity))
}
