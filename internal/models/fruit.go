package models

import "time"

// MaxAmount is the upper bound accepted for prices, quantities and proceeds.
const MaxAmount int64 = 999_999_999_999

// Fruit is a stock item. Names are stored lowercase and must be unique.
type Fruit struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;uniqueIndex;not null"`
	Price     int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
