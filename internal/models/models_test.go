package models

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&User{}, &Fruit{}, &Sale{}, &CsvUploadFile{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestFruitNameUnique(t *testing.T) {
	db := setupDB(t)

	if err := db.Create(&Fruit{Name: "apple", Price: 100}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := db.Create(&Fruit{Name: "apple", Price: 200}).Error; err == nil {
		t.Error("second fruit with same name should fail")
	}
}

func TestSaleSnapshotsAtCreation(t *testing.T) {
	db := setupDB(t)

	fruit := Fruit{Name: "apple", Price: 100}
	if err := db.Create(&fruit).Error; err != nil {
		t.Fatalf("create fruit: %v", err)
	}

	sale := Sale{
		FruitID:  &fruit.ID,
		Fruit:    &fruit,
		Quantity: 3,
		SoldOn:   time.Date(2021, time.February, 1, 1, 0, 0, 0, time.UTC),
	}
	sale.RetrieveFruitPrice()
	sale.CalculateProceeds()
	if err := db.Create(&sale).Error; err != nil {
		t.Fatalf("create sale: %v", err)
	}

	if sale.FruitName != "apple" {
		t.Errorf("fruit name = %q, want apple", sale.FruitName)
	}
	if sale.FruitPriceWhenSold != 100 || sale.Proceeds != 300 {
		t.Errorf("price/proceeds = %v/%d, want 100/300", sale.FruitPriceWhenSold, sale.Proceeds)
	}

	// Repricing the catalog must not leak into the recorded sale.
	if err := db.Model(&fruit).Update("price", 999).Error; err != nil {
		t.Fatalf("reprice: %v", err)
	}
	var got Sale
	if err := db.First(&got, sale.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.FruitPriceWhenSold != 100 || got.Proceeds != 300 {
		t.Errorf("snapshot changed: price %v proceeds %d", got.FruitPriceWhenSold, got.Proceeds)
	}
}

func TestCalculateProceedsUsesSnapshotPrice(t *testing.T) {
	sale := Sale{FruitPriceWhenSold: 90, Quantity: 5}
	sale.CalculateProceeds()
	if sale.Proceeds != 450 {
		t.Errorf("proceeds = %d, want 450", sale.Proceeds)
	}

	sale.FruitPriceWhenSold = 90.5
	sale.Quantity = 2
	sale.CalculateProceeds()
	if sale.Proceeds != 181 {
		t.Errorf("fractional proceeds = %d, want 181", sale.Proceeds)
	}
}

func TestSaleIdentityUnique(t *testing.T) {
	db := setupDB(t)

	soldOn := time.Date(2021, time.February, 1, 1, 0, 0, 0, time.UTC)
	first := Sale{FruitName: "apple", Quantity: 3, Proceeds: 270, SoldOn: soldOn}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := Sale{FruitName: "apple", Quantity: 3, Proceeds: 270, SoldOn: soldOn}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("identical sale should hit the unique index")
	}
}
